// Package rxcore provides reactive programming primitives for Go
// 同步、确定性的响应式核心：Observable、Observer、Subject与资源释放
package rxcore

import (
	"fmt"
	"sync/atomic"

	"github.com/xinjiayu/rxcore/internal/lock"
)

// ============================================================================
// 核心类型定义
// ============================================================================

// ItemKind 数据项的种类
type ItemKind int

const (
	// KindNext 普通值
	KindNext ItemKind = iota
	// KindError 错误终止
	KindError
	// KindComplete 正常完成
	KindComplete
)

// String 返回种类名称
func (k ItemKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "completed"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Item 表示流中的一个事件：值、错误或完成
type Item struct {
	Kind  ItemKind    // 事件种类
	Value interface{} // 数据值，仅KindNext有效，允许为nil
	Error error       // 错误信息，仅KindError有效
}

// IsNext 检查是否为普通值
func (item Item) IsNext() bool {
	return item.Kind == KindNext
}

// IsError 检查项目是否包含错误
func (item Item) IsError() bool {
	return item.Kind == KindError
}

// IsComplete 检查是否为完成信号
func (item Item) IsComplete() bool {
	return item.Kind == KindComplete
}

// IsTerminal 检查是否为终止事件（完成或错误）
func (item Item) IsTerminal() bool {
	return item.Kind != KindNext
}

// GetValue 获取项目的值，如果不是普通值则返回nil
func (item Item) GetValue() interface{} {
	if !item.IsNext() {
		return nil
	}
	return item.Value
}

// String 以 next(v) / error(msg) / completed 的形式输出事件
func (item Item) String() string {
	switch item.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", item.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", item.Error)
	default:
		return item.Kind.String()
	}
}

// ============================================================================
// 函数类型定义
// ============================================================================

// Observer 观察者函数类型，接收带标签的事件
type Observer func(item Item)

// OnNext 处理下一个值的函数
type OnNext func(value interface{})

// OnError 处理错误的函数
type OnError func(err error)

// OnComplete 处理完成的函数
type OnComplete func()

// Predicate 谓词函数，用于过滤
type Predicate func(value interface{}) bool

// Transformer 转换函数，用于映射
type Transformer func(value interface{}) (interface{}, error)

// Callbacks 部分指定的回调集合，未设置的回调视为空操作
type Callbacks struct {
	OnNext     OnNext
	OnError    OnError
	OnComplete OnComplete
	// OnDisposed 在订阅被释放时调用一次（终止后或显式释放）
	OnDisposed func()
}

// Observer 将回调集合转换为Observer
func (c Callbacks) Observer() Observer {
	return func(item Item) {
		switch item.Kind {
		case KindNext:
			if c.OnNext != nil {
				c.OnNext(item.Value)
			}
		case KindError:
			if c.OnError != nil {
				c.OnError(item.Error)
				return
			}
			logger.Debug().Err(item.Error).Msg("failure dropped: no error handler")
		case KindComplete:
			if c.OnComplete != nil {
				c.OnComplete()
			}
		}
	}
}

// ============================================================================
// 生命周期管理
// ============================================================================

// Disposable 可释放资源的接口
type Disposable interface {
	// Dispose 释放资源，重复调用无效果
	Dispose()
	// IsDisposed 检查是否已释放
	IsDisposed() bool
}

// baseDisposable 基础可释放资源实现
type baseDisposable struct {
	disposed int32
	action   func()
}

// NewBaseDisposable 创建基础可释放资源，action最多执行一次
func NewBaseDisposable(action func()) Disposable {
	return &baseDisposable{
		action: action,
	}
}

// Disposed 返回一个已经释放的空资源
func Disposed() Disposable {
	return &baseDisposable{disposed: 1}
}

// Dispose 释放资源
func (d *baseDisposable) Dispose() {
	if atomic.CompareAndSwapInt32(&d.disposed, 0, 1) {
		if d.action != nil {
			d.action()
		}
	}
}

// IsDisposed 检查是否已释放
func (d *baseDisposable) IsDisposed() bool {
	return atomic.LoadInt32(&d.disposed) == 1
}

// CompositeDisposable 组合式资源管理器（Disposal Group）
//
// Dispose之后再Add的资源会在Add返回前被立即释放。
type CompositeDisposable struct {
	mu        lock.Mutex
	disposed  bool
	resources []Disposable
}

// NewCompositeDisposable 创建组合式资源管理器
func NewCompositeDisposable(disposables ...Disposable) *CompositeDisposable {
	cd := &CompositeDisposable{
		resources: make([]Disposable, 0, len(disposables)),
	}
	for _, d := range disposables {
		cd.Add(d)
	}
	return cd
}

// Add 添加可释放资源
func (cd *CompositeDisposable) Add(disposable Disposable) {
	if disposable == nil {
		return
	}

	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		disposable.Dispose()
		return
	}
	cd.resources = append(cd.resources, disposable)
	cd.mu.Unlock()
}

// Remove 移除并释放指定资源，返回是否找到
func (cd *CompositeDisposable) Remove(disposable Disposable) bool {
	cd.mu.Lock()
	found := false
	for i, d := range cd.resources {
		if d == disposable {
			cd.resources = append(cd.resources[:i], cd.resources[i+1:]...)
			found = true
			break
		}
	}
	cd.mu.Unlock()

	if found {
		disposable.Dispose()
	}
	return found
}

// Len 返回当前持有的资源数量
func (cd *CompositeDisposable) Len() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.resources)
}

// Dispose 释放所有资源
func (cd *CompositeDisposable) Dispose() {
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		return
	}
	cd.disposed = true
	resources := cd.resources
	cd.resources = nil
	cd.mu.Unlock()

	// 在锁外释放，资源的释放动作可能再次访问本组
	for _, resource := range resources {
		resource.Dispose()
	}
}

// IsDisposed 检查是否已释放
func (cd *CompositeDisposable) IsDisposed() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.disposed
}

// ============================================================================
// 工具函数
// ============================================================================

// CreateItem 创建包含值的项目
func CreateItem(value interface{}) Item {
	return Item{Kind: KindNext, Value: value}
}

// CreateErrorItem 创建包含错误的项目
func CreateErrorItem(err error) Item {
	return Item{Kind: KindError, Error: err}
}

// CreateCompleteItem 创建完成信号
func CreateCompleteItem() Item {
	return Item{Kind: KindComplete}
}

// safeExecute 执行函数，捕获panic
func safeExecute(action func()) (recovered interface{}) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
		}
	}()

	action()
	return nil
}
