// Scheduler implementations for RxCore
// 调度器：延迟执行动作的执行上下文
package rxcore

import (
	"container/heap"
	"context"
	"sync/atomic"
	"time"

	"github.com/xinjiayu/rxcore/internal/lock"
)

// Scheduler 调度器接口，控制任务执行时机和方式
//
// 返回的Disposable在任务执行前释放时，任务永远不会执行。
type Scheduler interface {
	// Schedule 尽快调度一个任务
	Schedule(action func()) Disposable
	// ScheduleWithDelay 延迟调度一个任务
	ScheduleWithDelay(action func(), delay time.Duration) Disposable
}

// ============================================================================
// 调度任务与优先队列
// ============================================================================

// scheduledTask 一个待执行的动作
type scheduledTask struct {
	due       int64
	seq       uint64
	action    func()
	cancelled int32
	index     int
}

func (t *scheduledTask) Dispose() {
	if atomic.CompareAndSwapInt32(&t.cancelled, 0, 1) {
		logger.Debug().Int64("due", t.due).Msg("scheduled action cancelled")
	}
}

func (t *scheduledTask) IsDisposed() bool {
	return atomic.LoadInt32(&t.cancelled) == 1
}

// run 执行动作，已取消则跳过
func (t *scheduledTask) run() {
	if t.IsDisposed() {
		return
	}
	t.action()
}

// taskQueue 按到期时间、再按调度顺序排列的最小堆
type taskQueue []*scheduledTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	task := x.(*scheduledTask)
	task.index = len(*q)
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*q = old[:n-1]
	return task
}

// peek 丢弃队首已取消的任务并返回第一个有效任务
func (q *taskQueue) peek() *scheduledTask {
	for q.Len() > 0 {
		head := (*q)[0]
		if !head.IsDisposed() {
			return head
		}
		heap.Pop(q)
	}
	return nil
}

// ============================================================================
// 新线程调度器 - New Thread Scheduler
// ============================================================================

// newThreadScheduler 每个任务在独立的goroutine中执行
type newThreadScheduler struct{}

// NewNewThreadScheduler 创建新线程调度器
func NewNewThreadScheduler() Scheduler {
	return &newThreadScheduler{}
}

// Schedule 在新goroutine中执行任务
func (s *newThreadScheduler) Schedule(action func()) Disposable {
	task := &scheduledTask{action: action}
	go task.run()
	return task
}

// ScheduleWithDelay 延迟在新goroutine中执行任务
func (s *newThreadScheduler) ScheduleWithDelay(action func(), delay time.Duration) Disposable {
	task := &scheduledTask{action: action, due: time.Now().Add(delay).UnixNano()}
	timer := time.AfterFunc(delay, task.run)

	return NewBaseDisposable(func() {
		task.Dispose()
		timer.Stop()
	})
}

// ============================================================================
// 运行循环调度器 - Run Loop Scheduler
// ============================================================================

// RunLoop 协作式单goroutine调度器
//
// 任务可以从任意goroutine调度，但只在调用Run或RunUntilIdle的
// goroutine上按到期顺序执行。
type RunLoop struct {
	mu    lock.Mutex
	queue taskQueue
	seq   uint64
	wake  chan struct{}
	now   func() time.Time
}

// NewRunLoop 创建运行循环
func NewRunLoop() *RunLoop {
	return &RunLoop{
		wake: make(chan struct{}, 1),
		now:  time.Now,
	}
}

// Schedule 调度任务到下一轮循环
func (l *RunLoop) Schedule(action func()) Disposable {
	return l.ScheduleWithDelay(action, 0)
}

// ScheduleWithDelay 延迟调度任务
func (l *RunLoop) ScheduleWithDelay(action func(), delay time.Duration) Disposable {
	l.mu.Lock()
	l.seq++
	task := &scheduledTask{
		due:    l.now().Add(delay).UnixNano(),
		seq:    l.seq,
		action: action,
	}
	heap.Push(&l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return task
}

// Pending 返回尚未执行且未取消的任务数
func (l *RunLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, task := range l.queue {
		if !task.IsDisposed() {
			n++
		}
	}
	return n
}

// Run 持续执行任务直到ctx取消
func (l *RunLoop) Run(ctx context.Context) error {
	return l.loop(ctx, false)
}

// RunUntilIdle 执行任务直到没有待执行任务或ctx取消
func (l *RunLoop) RunUntilIdle(ctx context.Context) error {
	return l.loop(ctx, true)
}

func (l *RunLoop) loop(ctx context.Context, stopWhenIdle bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		head := l.queue.peek()
		if head == nil {
			l.mu.Unlock()
			if stopWhenIdle {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			}
			continue
		}

		wait := time.Duration(head.due - l.now().UnixNano())
		if wait <= 0 {
			heap.Pop(&l.queue)
			l.mu.Unlock()
			head.run()
			continue
		}
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-l.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// ============================================================================
// 测试调度器 - Test Scheduler
// ============================================================================

// TestScheduler 用于测试的调度器，时间只在手动推进时流逝
type TestScheduler struct {
	mu    lock.Mutex
	clock int64
	seq   uint64
	queue taskQueue
}

// NewTestScheduler 创建测试调度器
func NewTestScheduler() *TestScheduler {
	return &TestScheduler{}
}

// Schedule 在当前虚拟时刻调度任务，下次推进时间时执行
func (s *TestScheduler) Schedule(action func()) Disposable {
	return s.ScheduleWithDelay(action, 0)
}

// ScheduleWithDelay 在当前虚拟时刻之后delay调度任务
func (s *TestScheduler) ScheduleWithDelay(action func(), delay time.Duration) Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	task := &scheduledTask{
		due:    s.clock + delay.Nanoseconds(),
		seq:    s.seq,
		action: action,
	}
	heap.Push(&s.queue, task)
	return task
}

// AdvanceTimeBy 推进虚拟时间并执行到期任务
func (s *TestScheduler) AdvanceTimeBy(duration time.Duration) {
	s.mu.Lock()
	target := s.clock + duration.Nanoseconds()
	s.mu.Unlock()

	s.AdvanceTimeTo(target)
}

// AdvanceTimeTo 推进虚拟时间到指定时刻，按顺序执行所有到期任务
func (s *TestScheduler) AdvanceTimeTo(clock int64) {
	s.mu.Lock()
	for {
		head := s.queue.peek()
		if head == nil || head.due > clock {
			break
		}
		heap.Pop(&s.queue)
		if head.due > s.clock {
			s.clock = head.due
		}

		// 解锁以允许任务执行时调度新任务
		s.mu.Unlock()
		head.run()
		s.mu.Lock()
	}
	if clock > s.clock {
		s.clock = clock
	}
	s.mu.Unlock()
}

// Now 返回当前虚拟时刻（纳秒）
func (s *TestScheduler) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Pending 返回尚未执行且未取消的任务数
func (s *TestScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.queue {
		if !task.IsDisposed() {
			n++
		}
	}
	return n
}
