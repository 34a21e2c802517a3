// Variable for RxCore
// Variable：对BehaviorSubject的值语义封装
package rxcore

// Variable 表示随时间变化的值
//
// 订阅者立即收到当前值，之后收到每次SetValue的新值；Close时完成。
type Variable struct {
	subject *BehaviorSubject
}

// NewVariable 创建带初始值的Variable
func NewVariable(initialValue interface{}) *Variable {
	return &Variable{
		subject: NewBehaviorSubject(initialValue),
	}
}

// Value 获取当前值
func (v *Variable) Value() interface{} {
	return v.subject.Value()
}

// SetValue 设置新值并通知订阅者，Close之后无效果
func (v *Variable) SetValue(value interface{}) {
	v.subject.OnNext(value)
}

// AsObservable 返回只读的Observable视图
func (v *Variable) AsObservable() Observable {
	return NewObservable(func(subscriber Subscriber) {
		subscriber.Add(v.subject.SubscribeWithContext(subscriber.Context(), subscriber.Emit))
	})
}

// Close 向所有订阅者发送完成
func (v *Variable) Close() {
	v.subject.OnComplete()
}
