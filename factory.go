// Factory functions for RxCore
// 工厂函数：同步发射、每次订阅独立重放
package rxcore

// ============================================================================
// 基础工厂函数
// ============================================================================

// Just 创建只发射一个值然后完成的Observable
func Just(value interface{}) Observable {
	return NewObservable(func(subscriber Subscriber) {
		subscriber.OnNext(value)
		subscriber.OnComplete()
	})
}

// Of 按参数顺序发射每个值然后完成
func Of(values ...interface{}) Observable {
	return FromSlice(values)
}

// FromSlice 按顺序发射切片中的每个元素然后完成，空切片只发射完成
func FromSlice(slice []interface{}) Observable {
	return NewObservable(func(subscriber Subscriber) {
		for _, value := range slice {
			if subscriber.IsDisposed() {
				return
			}
			subscriber.OnNext(value)
		}
		subscriber.OnComplete()
	})
}

// FromObservables 发射给定的Observable本身，通常与MergeAll配合使用
func FromObservables(observables ...Observable) Observable {
	values := make([]interface{}, len(observables))
	for i, obs := range observables {
		values[i] = obs
	}
	return FromSlice(values)
}

// Empty 创建一个空的Observable，立即完成
func Empty() Observable {
	return NewObservable(func(subscriber Subscriber) {
		subscriber.OnComplete()
	})
}

// Never 创建一个永不发射任何事件的Observable
func Never() Observable {
	return NewObservable(func(subscriber Subscriber) {})
}

// Throw 创建一个立即发射错误的Observable
func Throw(err error) Observable {
	return NewObservable(func(subscriber Subscriber) {
		subscriber.OnError(err)
	})
}

// Create 使用自定义发射逻辑创建Observable
//
// emitter在订阅时同步调用；异步发射时应检查subscriber.IsDisposed()，
// 并通过subscriber.Add登记需要随订阅释放的资源。
func Create(emitter func(subscriber Subscriber)) Observable {
	return NewObservable(emitter)
}

// Merge 合并多个Observable，等价于 FromObservables(...).MergeAll()
func Merge(observables ...Observable) Observable {
	return FromObservables(observables...).MergeAll()
}
