// Package lock 提供rxcore内部使用的互斥锁类型
//
// 默认构建下直接使用sync包；以 -tags lockdebug 构建时替换为
// go-deadlock 实现，用于在测试中发现锁顺序问题和死锁。
package lock

// Mutex 互斥锁
type Mutex struct {
	internalMutex
}
