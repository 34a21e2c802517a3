// Time operators for RxCore
// 时间相关操作符实现
package rxcore

import (
	"time"
)

// ============================================================================
// 时间操作符实现
// ============================================================================

// DelaySubscription 延迟订阅上游，直到scheduler上经过delay
//
// 在延迟到期前释放订阅，上游永远不会被订阅。
func (o *observableImpl) DelaySubscription(delay time.Duration, scheduler Scheduler) Observable {
	return NewObservable(func(downstream Subscriber) {
		task := scheduler.ScheduleWithDelay(func() {
			if downstream.IsDisposed() {
				return
			}
			downstream.Add(o.SubscribeWithContext(downstream.Context(), downstream.Emit))
		}, delay)
		downstream.Add(task)
	})
}
