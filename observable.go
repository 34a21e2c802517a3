// Observable implementation for RxCore
// Observable核心实现：惰性、同步、每次订阅独立执行
package rxcore

import (
	"context"
	"time"
)

// ============================================================================
// Observable 核心接口
// ============================================================================

// OnSubscribe 订阅函数，在每次订阅时以新的Subscriber调用
type OnSubscribe func(subscriber Subscriber)

// Observable 可观察序列的核心接口
type Observable interface {
	// Subscribe 订阅观察者
	Subscribe(observer Observer) Disposable

	// SubscribeWithContext 订阅观察者，ctx取消时订阅随之释放
	SubscribeWithContext(ctx context.Context, observer Observer) Disposable

	// SubscribeWithCallbacks 使用回调函数订阅，nil回调视为空操作
	SubscribeWithCallbacks(onNext OnNext, onError OnError, onComplete OnComplete) Disposable

	// SubscribeWith 使用回调集合订阅
	SubscribeWith(callbacks Callbacks) Disposable

	// 转换操作符
	Map(transformer Transformer) Observable
	Filter(predicate Predicate) Observable

	// 条件操作符
	TakeUntil(other Observable) Observable

	// 组合操作符
	Merge(other Observable) Observable
	MergeAll() Observable

	// 时间操作符
	DelaySubscription(delay time.Duration, scheduler Scheduler) Observable
}

// ============================================================================
// Observable 核心实现
// ============================================================================

// observableImpl Observable的核心实现，只持有订阅函数
type observableImpl struct {
	source OnSubscribe
}

// NewObservable 创建新的Observable
func NewObservable(source OnSubscribe) Observable {
	return &observableImpl{
		source: source,
	}
}

// Subscribe 订阅观察者
func (o *observableImpl) Subscribe(observer Observer) Disposable {
	return o.SubscribeWithContext(context.Background(), observer)
}

// SubscribeWithContext 订阅观察者并立即在当前goroutine上执行数据源
//
// 数据源panic转换为错误事件；observer回调中的panic传播给调用者。
func (o *observableImpl) SubscribeWithContext(ctx context.Context, observer Observer) Disposable {
	s := newSubscriber(ctx, observer)
	if s.IsDisposed() {
		return s
	}

	if r := safeExecute(func() { o.source(s) }); r != nil {
		// 观察者自身的panic不属于数据源错误，原样交还给调用者
		if s.observerPanicked() {
			panic(r)
		}
		logger.Debug().Interface("panic", r).Msg("source panicked")
		s.OnError(newPanicError("source", r))
	}
	return s
}

// SubscribeWithCallbacks 使用回调函数订阅
func (o *observableImpl) SubscribeWithCallbacks(onNext OnNext, onError OnError, onComplete OnComplete) Disposable {
	return o.SubscribeWith(Callbacks{
		OnNext:     onNext,
		OnError:    onError,
		OnComplete: onComplete,
	})
}

// SubscribeWith 使用回调集合订阅
func (o *observableImpl) SubscribeWith(callbacks Callbacks) Disposable {
	if callbacks.OnDisposed == nil {
		return o.Subscribe(callbacks.Observer())
	}

	// OnDisposed需要在数据源运行前登记，才能覆盖同步完成的情况
	return NewObservable(func(downstream Subscriber) {
		downstream.Add(NewBaseDisposable(callbacks.OnDisposed))
		downstream.Add(o.SubscribeWithContext(downstream.Context(), downstream.Emit))
	}).Subscribe(callbacks.Observer())
}

// ============================================================================
// 转换操作符
// ============================================================================

// Map 对每个值应用转换函数；转换出错或panic时以ProducerError终止并释放上游
func (o *observableImpl) Map(transformer Transformer) Observable {
	return NewObservable(func(downstream Subscriber) {
		upstream := o.SubscribeWithContext(downstream.Context(), func(item Item) {
			if !item.IsNext() {
				downstream.Emit(item)
				return
			}

			var (
				result interface{}
				err    error
			)
			if r := safeExecute(func() { result, err = transformer(item.Value) }); r != nil {
				logger.Debug().Interface("panic", r).Msg("map transformer panicked")
				downstream.OnError(newPanicError("map", r))
				return
			}
			if err != nil {
				downstream.OnError(NewProducerError("map", err))
				return
			}
			downstream.OnNext(result)
		})
		downstream.Add(upstream)
	})
}

// Filter 只转发满足谓词的值，终止事件原样转发
func (o *observableImpl) Filter(predicate Predicate) Observable {
	return NewObservable(func(downstream Subscriber) {
		upstream := o.SubscribeWithContext(downstream.Context(), func(item Item) {
			if !item.IsNext() {
				downstream.Emit(item)
				return
			}

			var pass bool
			if r := safeExecute(func() { pass = predicate(item.Value) }); r != nil {
				logger.Debug().Interface("panic", r).Msg("filter predicate panicked")
				downstream.OnError(newPanicError("filter", r))
				return
			}
			if pass {
				downstream.Emit(item)
			}
		})
		downstream.Add(upstream)
	})
}

// ============================================================================
// 条件操作符
// ============================================================================

// TakeUntil 转发源的值，直到other发出第一个值或完成
//
// other先触发时释放源订阅并向下游发送完成；other的错误原样转发。
// 源在other触发前终止时，其终止事件原样转发。
func (o *observableImpl) TakeUntil(other Observable) Observable {
	return NewObservable(func(downstream Subscriber) {
		serialized := serialize(downstream)

		signal := other.SubscribeWithContext(downstream.Context(), func(item Item) {
			if item.IsError() {
				serialized.OnError(item.Error)
				return
			}
			serialized.OnComplete()
		})
		downstream.Add(signal)

		if downstream.IsDisposed() {
			return
		}

		source := o.SubscribeWithContext(downstream.Context(), serialized.Emit)
		downstream.Add(source)
	})
}
