// Subscriber implementation for RxCore
// 订阅引擎：连接Observable与Observer，负责取消标志、终止保证与资源释放
package rxcore

import (
	"context"
	"sync/atomic"

	"github.com/xinjiayu/rxcore/internal/lock"
)

// ============================================================================
// Subscriber 接口
// ============================================================================

// Subscriber 数据源向下游发射事件的句柄
//
// 数据源应在每次发射前检查IsDisposed，以便取消能立即生效。
// 终止事件之后的任何事件都会被丢弃。
type Subscriber interface {
	Disposable

	// OnNext 发射下一个值
	OnNext(value interface{})
	// OnError 发射错误并终止
	OnError(err error)
	// OnComplete 发射完成信号并终止
	OnComplete()
	// Emit 按事件种类发射
	Emit(item Item)

	// Add 登记一个随订阅一起释放的上游资源
	Add(disposable Disposable)
	// Context 返回订阅的上下文，订阅释放时被取消
	Context() context.Context
}

// ============================================================================
// subscriber 实现
// ============================================================================

// subscriber 单个订阅的状态
type subscriber struct {
	observer  Observer
	ctx       context.Context
	cancel    context.CancelFunc
	stopAfter func() bool
	done      int32
	panicked  int32
	resources *CompositeDisposable
}

// newSubscriber 创建订阅，parent被取消时订阅也随之释放
func newSubscriber(parent context.Context, observer Observer) *subscriber {
	if parent == nil {
		parent = context.Background()
	}
	if observer == nil {
		observer = func(Item) {}
	}

	ctx, cancel := context.WithCancel(parent)
	s := &subscriber{
		observer:  observer,
		ctx:       ctx,
		cancel:    cancel,
		resources: NewCompositeDisposable(),
	}
	// 外部上下文取消时异步回收资源；投递已经通过ctx.Err()同步停止
	s.stopAfter = context.AfterFunc(ctx, s.resources.Dispose)
	return s
}

// OnNext 发射下一个值
func (s *subscriber) OnNext(value interface{}) {
	s.Emit(CreateItem(value))
}

// OnError 发射错误
func (s *subscriber) OnError(err error) {
	s.Emit(CreateErrorItem(err))
}

// OnComplete 发射完成信号
func (s *subscriber) OnComplete() {
	s.Emit(CreateCompleteItem())
}

// Emit 投递事件；终止事件投递后释放订阅
func (s *subscriber) Emit(item Item) {
	if s.IsDisposed() || atomic.LoadInt32(&s.done) == 1 {
		return
	}

	if !item.IsTerminal() {
		s.deliver(item)
		return
	}

	if !atomic.CompareAndSwapInt32(&s.done, 0, 1) {
		return
	}
	defer s.Dispose()
	s.deliver(item)
}

// deliver 调用观察者；观察者panic时做标记后继续向上传播
func (s *subscriber) deliver(item Item) {
	normal := false
	defer func() {
		if !normal {
			atomic.StoreInt32(&s.panicked, 1)
		}
	}()
	s.observer(item)
	normal = true
}

// observerPanicked 检查观察者是否曾经panic
func (s *subscriber) observerPanicked() bool {
	return atomic.LoadInt32(&s.panicked) == 1
}

// Add 登记上游资源
func (s *subscriber) Add(disposable Disposable) {
	s.resources.Add(disposable)
}

// Context 返回订阅上下文
func (s *subscriber) Context() context.Context {
	return s.ctx
}

// Dispose 取消订阅并释放所有上游资源
func (s *subscriber) Dispose() {
	s.stopAfter()
	s.cancel()
	s.resources.Dispose()
}

// IsDisposed 检查是否已释放
func (s *subscriber) IsDisposed() bool {
	return s.ctx.Err() != nil
}

// ============================================================================
// 串行化投递
// ============================================================================

// serializer 队列-排空式串行投递
//
// 保证同一个下游在任意时刻只有一个事件在投递；回调中重入发射的事件
// 进入队列，由当前正在排空的调用者在回调返回后继续投递。
type serializer struct {
	mu       lock.Mutex
	queue    []Item
	emitting bool
	sink     func(item Item)
}

func newSerializer(sink func(item Item)) *serializer {
	return &serializer{sink: sink}
}

// enqueue 只入队不投递
func (s *serializer) enqueue(item Item) {
	s.mu.Lock()
	s.queue = append(s.queue, item)
	s.mu.Unlock()
}

// drain 投递队列中的事件，已有排空者时立即返回
//
// sink panic时释放排空权，剩余事件留在队列中由下一次drain投递。
func (s *serializer) drain() {
	s.mu.Lock()
	if s.emitting {
		s.mu.Unlock()
		return
	}
	s.emitting = true

	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.emitting = false
			s.mu.Unlock()
		}
	}()

	for len(s.queue) > 0 {
		item := s.queue[0]
		s.queue[0] = Item{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.sink(item)

		s.mu.Lock()
	}

	s.emitting = false
	finished = true
	s.mu.Unlock()
}

// emit 入队并排空
func (s *serializer) emit(item Item) {
	s.enqueue(item)
	s.drain()
}

// serializedSubscriber 将并发或重入的发射串行化后交给下游Subscriber
type serializedSubscriber struct {
	Subscriber
	ser *serializer
}

func serialize(downstream Subscriber) *serializedSubscriber {
	return &serializedSubscriber{
		Subscriber: downstream,
		ser:        newSerializer(downstream.Emit),
	}
}

func (s *serializedSubscriber) Emit(item Item) {
	s.ser.emit(item)
}

func (s *serializedSubscriber) OnNext(value interface{}) {
	s.Emit(CreateItem(value))
}

func (s *serializedSubscriber) OnError(err error) {
	s.Emit(CreateErrorItem(err))
}

func (s *serializedSubscriber) OnComplete() {
	s.Emit(CreateCompleteItem())
}
