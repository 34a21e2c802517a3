// Subject implementations for RxCore
// 实现Subject系统，包括PublishSubject、BehaviorSubject、ReplaySubject
package rxcore

import (
	"github.com/google/uuid"

	"github.com/xinjiayu/rxcore/internal/lock"
)

// ============================================================================
// Subject 接口
// ============================================================================

// Subject 既是Observable又是Observer
//
// 状态只有 Active -> Terminated 一次转换。终止后OnNext被静默忽略，
// 新订阅者立即收到保存的终止事件。
type Subject interface {
	Observable
	Disposable

	// AsObserver 返回把事件转交给本Subject的Observer
	AsObserver() Observer

	// OnNext 向所有当前订阅者广播值
	OnNext(value interface{})
	// OnError 以错误终止
	OnError(err error)
	// OnComplete 以完成终止
	OnComplete()

	// HasObservers 检查是否有观察者
	HasObservers() bool
	// ObserverCount 获取观察者数量
	ObserverCount() int
}

// ============================================================================
// subjectBase 公共状态机
// ============================================================================

// subjectObserver 一个已登记的订阅者
type subjectObserver struct {
	id         uuid.UUID
	subscriber Subscriber
	queue      *serializer
}

// subjectBase 订阅者列表、终止状态与变体回放钩子
//
// 所有字段（包括变体的回放状态）都由mu保护；事件在锁内入队、
// 在锁外投递，保证订阅时的回放与并发OnNext不会乱序。
type subjectBase struct {
	Observable

	name      string
	mu        lock.Mutex
	observers []subjectObserver
	terminal  *Item
	disposed  bool

	// record 在锁内记录新值；replay 在锁内返回需要回放的值
	record func(value interface{})
	replay func() []interface{}
}

func newSubjectBase(name string) *subjectBase {
	base := &subjectBase{name: name}
	base.Observable = NewObservable(base.subscribe)
	return base
}

// subscribe 登记订阅者并回放变体状态
func (b *subjectBase) subscribe(subscriber Subscriber) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		subscriber.OnError(ErrSubjectDisposed)
		return
	}
	if b.terminal != nil {
		terminal := *b.terminal
		b.mu.Unlock()
		subscriber.Emit(terminal)
		return
	}

	entry := subjectObserver{
		id:         uuid.New(),
		subscriber: subscriber,
		queue:      newSerializer(subscriber.Emit),
	}
	if b.replay != nil {
		for _, value := range b.replay() {
			entry.queue.enqueue(CreateItem(value))
		}
	}
	b.observers = append(b.observers, entry)
	b.mu.Unlock()

	subscriber.Add(NewBaseDisposable(func() {
		b.removeObserver(entry.id)
	}))
	entry.queue.drain()
}

// broadcast 在锁内把事件排入所有订阅者队列，返回需要排空的队列
func (b *subjectBase) broadcast(item Item) []*serializer {
	queues := make([]*serializer, 0, len(b.observers))
	for _, o := range b.observers {
		o.queue.enqueue(item)
		queues = append(queues, o.queue)
	}
	return queues
}

// drainAll 依次排空队列；某个观察者panic时其余队列仍被排空，panic随后继续传播
func drainAll(queues []*serializer) {
	if len(queues) == 0 {
		return
	}
	defer drainAll(queues[1:])
	queues[0].drain()
}

// OnNext 发送下一个值
func (b *subjectBase) OnNext(value interface{}) {
	b.mu.Lock()
	if b.disposed || b.terminal != nil {
		b.mu.Unlock()
		return
	}
	if b.record != nil {
		b.record(value)
	}
	queues := b.broadcast(CreateItem(value))
	b.mu.Unlock()

	drainAll(queues)
}

// OnError 发送错误
func (b *subjectBase) OnError(err error) {
	b.terminate(CreateErrorItem(err))
}

// OnComplete 发送完成信号
func (b *subjectBase) OnComplete() {
	b.terminate(CreateCompleteItem())
}

// terminate 转入终止状态并广播终止事件
func (b *subjectBase) terminate(item Item) {
	b.mu.Lock()
	if b.disposed || b.terminal != nil {
		b.mu.Unlock()
		return
	}
	b.terminal = &item
	queues := b.broadcast(item)
	b.observers = nil
	b.mu.Unlock()

	logger.Debug().
		Str("subject", b.name).
		Stringer("event", item).
		Int("observers", len(queues)).
		Msg("subject terminated")

	drainAll(queues)
}

// AsObserver 返回Observer函数
func (b *subjectBase) AsObserver() Observer {
	return func(item Item) {
		switch item.Kind {
		case KindNext:
			b.OnNext(item.Value)
		case KindError:
			b.OnError(item.Error)
		case KindComplete:
			b.OnComplete()
		}
	}
}

// HasObservers 检查是否有观察者
func (b *subjectBase) HasObservers() bool {
	return b.ObserverCount() > 0
}

// ObserverCount 获取观察者数量
func (b *subjectBase) ObserverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// Dispose 释放Subject，静默移除所有订阅者
func (b *subjectBase) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	observers := b.observers
	b.observers = nil
	b.mu.Unlock()

	for _, o := range observers {
		o.subscriber.Dispose()
	}
}

// IsDisposed 检查是否已释放
func (b *subjectBase) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// removeObserver 按标识移除观察者
func (b *subjectBase) removeObserver(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, o := range b.observers {
		if o.id == id {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// ============================================================================
// PublishSubject - 发布主题
// ============================================================================

// PublishSubject 发布主题，只向当前订阅者发送之后的值
type PublishSubject struct {
	*subjectBase
}

// NewPublishSubject 创建新的发布主题
func NewPublishSubject() *PublishSubject {
	return &PublishSubject{
		subjectBase: newSubjectBase("publish"),
	}
}

// ============================================================================
// BehaviorSubject - 行为主题
// ============================================================================

// BehaviorSubject 行为主题，保存最新值（初始为种子值），新订阅者立即收到它
type BehaviorSubject struct {
	*subjectBase
	currentValue interface{}
}

// NewBehaviorSubject 创建新的行为主题
func NewBehaviorSubject(initialValue interface{}) *BehaviorSubject {
	bs := &BehaviorSubject{
		subjectBase:  newSubjectBase("behavior"),
		currentValue: initialValue,
	}
	bs.record = func(value interface{}) {
		bs.currentValue = value
	}
	bs.replay = func() []interface{} {
		return []interface{}{bs.currentValue}
	}
	return bs
}

// Value 获取当前值
func (bs *BehaviorSubject) Value() interface{} {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.currentValue
}

// ============================================================================
// ReplaySubject - 重放主题
// ============================================================================

// ReplaySubject 重放主题，缓存最近bufferSize个值，新订阅者按顺序收到它们
type ReplaySubject struct {
	*subjectBase
	bufferSize int
	buffer     []interface{}
}

// NewReplaySubject 创建新的重放主题，bufferSize小于1时按1处理
func NewReplaySubject(bufferSize int) *ReplaySubject {
	if bufferSize < 1 {
		bufferSize = 1
	}

	rs := &ReplaySubject{
		subjectBase: newSubjectBase("replay"),
		bufferSize:  bufferSize,
		buffer:      make([]interface{}, 0, bufferSize),
	}
	rs.record = func(value interface{}) {
		if len(rs.buffer) >= rs.bufferSize {
			// 移除最老的值
			copy(rs.buffer, rs.buffer[1:])
			rs.buffer = rs.buffer[:len(rs.buffer)-1]
		}
		rs.buffer = append(rs.buffer, value)
	}
	rs.replay = func() []interface{} {
		values := make([]interface{}, len(rs.buffer))
		copy(values, rs.buffer)
		return values
	}
	return rs
}

// Values 获取所有缓存的值
func (rs *ReplaySubject) Values() []interface{} {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.replay()
}

// BufferSize 返回缓存容量
func (rs *ReplaySubject) BufferSize() int {
	return rs.bufferSize
}
