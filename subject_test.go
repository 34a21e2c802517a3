// Subject tests for RxCore
// Subject测试，验证所有Subject类型的正确行为
package rxcore

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// PublishSubject 测试
// ============================================================================

func TestPublishSubject(t *testing.T) {
	t.Run("晚到的订阅者只收到之后的值", func(t *testing.T) {
		subject := NewPublishSubject()
		first, second := newRecorder(), newRecorder()

		subject.Subscribe(first.observer())
		subject.OnNext("Hello")
		subject.OnNext("RxSwift")

		subject.Subscribe(second.observer())
		subject.OnNext("Wow")
		subject.OnNext("How are you?")

		subject.OnComplete()
		subject.OnNext("I am here")

		assert.Equal(t, []interface{}{"Hello", "RxSwift", "Wow", "How are you?"}, first.values())
		assert.Equal(t, []interface{}{"Wow", "How are you?"}, second.values())
		assert.True(t, first.completed())
		assert.True(t, second.completed())
	})

	t.Run("按订阅顺序广播", func(t *testing.T) {
		subject := NewPublishSubject()
		var order []string
		subject.Subscribe(func(item Item) { order = append(order, "a") })
		subject.Subscribe(func(item Item) { order = append(order, "b") })
		subject.Subscribe(func(item Item) { order = append(order, "c") })

		subject.OnNext(1)

		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("终止后的订阅者只收到终止事件", func(t *testing.T) {
		subject := NewPublishSubject()
		boom := errors.New("boom")
		subject.OnNext(1)
		subject.OnError(boom)
		subject.OnComplete()

		rec := newRecorder()
		sub := subject.Subscribe(rec.observer())

		assert.Equal(t, []string{"error(boom)"}, rec.strings())
		assert.True(t, sub.IsDisposed())
		assert.False(t, subject.HasObservers())
	})

	t.Run("释放订阅后移除观察者", func(t *testing.T) {
		subject := NewPublishSubject()
		rec, other := newRecorder(), newRecorder()
		sub := subject.Subscribe(rec.observer())
		subject.Subscribe(other.observer())
		require.Equal(t, 2, subject.ObserverCount())

		subject.OnNext(1)
		sub.Dispose()
		subject.OnNext(2)

		assert.Equal(t, []interface{}{1}, rec.values())
		assert.Equal(t, []interface{}{1, 2}, other.values())
		assert.Equal(t, 1, subject.ObserverCount())
	})

	t.Run("作为Observer使用", func(t *testing.T) {
		subject := NewPublishSubject()
		rec := newRecorder()
		subject.Subscribe(rec.observer())

		Of(1, 2).Subscribe(subject.AsObserver())

		assert.Equal(t, []string{"next(1)", "next(2)", "completed"}, rec.strings())
	})

	t.Run("支持操作符", func(t *testing.T) {
		subject := NewPublishSubject()
		rec := newRecorder()
		subject.Map(square).Filter(func(v interface{}) bool { return v.(int) > 1 }).Subscribe(rec.observer())

		subject.OnNext(1)
		subject.OnNext(2)
		subject.OnComplete()

		assert.Equal(t, []string{"next(4)", "completed"}, rec.strings())
	})

	t.Run("回调中重入发射不会死锁", func(t *testing.T) {
		subject := NewPublishSubject()
		var values []interface{}
		subject.SubscribeWithCallbacks(func(v interface{}) {
			values = append(values, v)
			if n := v.(int); n < 3 {
				subject.OnNext(n + 1)
			}
		}, nil, nil)

		subject.OnNext(1)

		assert.Equal(t, []interface{}{1, 2, 3}, values)
	})

	t.Run("释放Subject", func(t *testing.T) {
		subject := NewPublishSubject()
		rec := newRecorder()
		sub := subject.Subscribe(rec.observer())

		subject.Dispose()
		subject.Dispose()
		subject.OnNext(1)

		assert.True(t, subject.IsDisposed())
		assert.True(t, sub.IsDisposed())
		assert.Empty(t, rec.snapshot())

		late := newRecorder()
		subject.Subscribe(late.observer())
		assert.Equal(t, ErrSubjectDisposed, late.err())
	})

	t.Run("观察者panic后仍能收到之后的值", func(t *testing.T) {
		subject := NewPublishSubject()
		var got []interface{}
		subject.SubscribeWithCallbacks(func(v interface{}) {
			if v == 1 {
				panic("observer bug")
			}
			got = append(got, v)
		}, nil, nil)

		assert.PanicsWithValue(t, "observer bug", func() { subject.OnNext(1) })
		subject.OnNext(2)
		subject.OnNext(3)

		assert.Equal(t, []interface{}{2, 3}, got)
		assert.Equal(t, 1, subject.ObserverCount())
	})

	t.Run("一个观察者panic不影响其他观察者", func(t *testing.T) {
		subject := NewPublishSubject()
		calm := newRecorder()
		subject.SubscribeWithCallbacks(func(v interface{}) {
			if v == "bad" {
				panic("observer bug")
			}
		}, nil, nil)
		subject.Subscribe(calm.observer())

		assert.Panics(t, func() { subject.OnNext("bad") })
		assert.Equal(t, []interface{}{"bad"}, calm.values())

		subject.OnNext("good")
		subject.OnComplete()

		assert.Equal(t, []interface{}{"bad", "good"}, calm.values())
		assert.True(t, calm.completed())
	})
}

// ============================================================================
// BehaviorSubject 测试
// ============================================================================

func TestBehaviorSubject(t *testing.T) {
	t.Run("新订阅者立即收到最新值", func(t *testing.T) {
		subject := NewBehaviorSubject(1)
		first, second := newRecorder(), newRecorder()

		subject.Subscribe(first.observer())
		assert.Equal(t, []interface{}{1}, first.values())

		subject.OnNext(2)
		subject.OnNext(3)
		subject.Subscribe(second.observer())

		assert.Equal(t, []interface{}{1, 2, 3}, first.values())
		assert.Equal(t, []interface{}{3}, second.values())
		assert.Equal(t, 3, subject.Value())
	})

	t.Run("终止后只收到终止事件", func(t *testing.T) {
		subject := NewBehaviorSubject("seed")
		subject.OnNext("latest")
		subject.OnComplete()
		subject.OnNext("ignored")

		rec := newRecorder()
		subject.Subscribe(rec.observer())

		assert.Equal(t, []string{"completed"}, rec.strings())
		assert.Equal(t, "latest", subject.Value())
	})

	t.Run("并发订阅与发射保持顺序", func(t *testing.T) {
		const total = 500
		subject := NewBehaviorSubject(-1)

		var (
			wg        sync.WaitGroup
			recorders = make([]*recorder, 8)
		)
		for i := range recorders {
			recorders[i] = newRecorder()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < total; i++ {
				subject.OnNext(i)
			}
		}()
		for _, rec := range recorders {
			wg.Add(1)
			go func(rec *recorder) {
				defer wg.Done()
				subject.Subscribe(rec.observer())
			}(rec)
		}
		wg.Wait()

		for _, rec := range recorders {
			values := rec.values()
			require.NotEmpty(t, values)
			for i := 1; i < len(values); i++ {
				assert.Equal(t, values[i-1].(int)+1, values[i].(int))
			}
			assert.Equal(t, total-1, values[len(values)-1])
		}
	})
}

// ============================================================================
// ReplaySubject 测试
// ============================================================================

func TestReplaySubject(t *testing.T) {
	t.Run("回放最近的值并淘汰最老的", func(t *testing.T) {
		subject := NewReplaySubject(3)
		for i := 1; i <= 4; i++ {
			subject.OnNext(i)
		}

		rec := newRecorder()
		subject.Subscribe(rec.observer())

		assert.Equal(t, []interface{}{2, 3, 4}, rec.values())
		assert.Equal(t, []interface{}{2, 3, 4}, subject.Values())
	})

	t.Run("缓存为1时晚到者收到最后一个值", func(t *testing.T) {
		subject := NewReplaySubject(1)
		first, second := newRecorder(), newRecorder()

		subject.Subscribe(first.observer())
		subject.OnNext("a")
		subject.OnNext("b")
		subject.Subscribe(second.observer())
		subject.OnNext("c")
		subject.OnNext("d")

		assert.Equal(t, []interface{}{"a", "b", "c", "d"}, first.values())
		assert.Equal(t, []interface{}{"b", "c", "d"}, second.values())
	})

	t.Run("非法容量按1处理", func(t *testing.T) {
		subject := NewReplaySubject(0)
		assert.Equal(t, 1, subject.BufferSize())
	})

	t.Run("终止后不再回放缓存", func(t *testing.T) {
		subject := NewReplaySubject(2)
		subject.OnNext(1)
		subject.OnNext(2)
		subject.OnComplete()

		rec := newRecorder()
		subject.Subscribe(rec.observer())

		assert.Equal(t, []string{"completed"}, rec.strings())
	})
}

// ============================================================================
// Variable 测试
// ============================================================================

func TestVariable(t *testing.T) {
	variable := NewVariable("A")
	rec := newRecorder()
	sub := variable.AsObservable().Subscribe(rec.observer())

	variable.SetValue("B")
	assert.Equal(t, "B", variable.Value())
	assert.Equal(t, []interface{}{"A", "B"}, rec.values())

	variable.Close()
	variable.SetValue("C")

	assert.True(t, rec.completed())
	assert.True(t, sub.IsDisposed())
	assert.Equal(t, "B", variable.Value())
}
