package rxcore

import (
	"sync"
)

// recorder 记录收到的事件
type recorder struct {
	mu    sync.Mutex
	items []Item
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) observer() Observer {
	return func(item Item) {
		r.mu.Lock()
		r.items = append(r.items, item)
		r.mu.Unlock()
	}
}

func (r *recorder) snapshot() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Item, len(r.items))
	copy(items, r.items)
	return items
}

func (r *recorder) values() []interface{} {
	values := []interface{}{}
	for _, item := range r.snapshot() {
		if item.IsNext() {
			values = append(values, item.Value)
		}
	}
	return values
}

func (r *recorder) completed() bool {
	for _, item := range r.snapshot() {
		if item.IsComplete() {
			return true
		}
	}
	return false
}

func (r *recorder) err() error {
	for _, item := range r.snapshot() {
		if item.IsError() {
			return item.Error
		}
	}
	return nil
}

func (r *recorder) terminals() int {
	n := 0
	for _, item := range r.snapshot() {
		if item.IsTerminal() {
			n++
		}
	}
	return n
}

func (r *recorder) strings() []string {
	out := []string{}
	for _, item := range r.snapshot() {
		out = append(out, item.String())
	}
	return out
}
