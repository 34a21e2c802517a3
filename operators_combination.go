// Combination operators for RxCore
// 组合操作符实现：Merge与MergeAll
package rxcore

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ============================================================================
// 组合操作符实现
// ============================================================================

// Merge 将当前Observable与other合并为一个
func (o *observableImpl) Merge(other Observable) Observable {
	return Merge(o, other)
}

// MergeAll 展平发射Observable的Observable
//
// 每个内部Observable在到达时立即订阅，值按到达顺序转发；外层与所有
// 内部源都完成后才完成（没有内部源时随外层立即完成）。第一个错误
// 终止下游并释放其余订阅。同步内部源按提供顺序依次完整发射。
func (o *observableImpl) MergeAll() Observable {
	return NewObservable(func(downstream Subscriber) {
		serialized := serialize(downstream)

		// 外层本身计为一个活跃源
		active := int32(1)
		sourceDone := func() {
			if atomic.AddInt32(&active, -1) == 0 {
				serialized.OnComplete()
			}
		}

		outer := o.SubscribeWithContext(downstream.Context(), func(item Item) {
			switch item.Kind {
			case KindError:
				serialized.OnError(item.Error)
			case KindComplete:
				sourceDone()
			default:
				inner, ok := item.Value.(Observable)
				if !ok {
					serialized.OnError(errors.Wrapf(ErrNotObservable, "got %T", item.Value))
					return
				}

				atomic.AddInt32(&active, 1)
				innerSub := inner.SubscribeWithContext(downstream.Context(), func(innerItem Item) {
					switch innerItem.Kind {
					case KindError:
						serialized.OnError(innerItem.Error)
					case KindComplete:
						sourceDone()
					default:
						serialized.Emit(innerItem)
					}
				})
				downstream.Add(innerSub)
			}
		})
		downstream.Add(outer)
	})
}
