package queue

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// lock 是可以带截止时间获取的互斥锁
// 基于容量为1的加权信号量，等待者按到达顺序获得锁
type lock struct {
	sem *semaphore.Weighted
}

func newLock() *lock {
	return &lock{sem: semaphore.NewWeighted(1)}
}

// Lock 阻塞直到获得锁
func (l *lock) Lock() {
	// Background 上下文永不结束，Acquire 不会返回错误
	_ = l.sem.Acquire(context.Background(), 1)
}

// TryLock 尝试立即获得锁
func (l *lock) TryLock() bool {
	return l.sem.TryAcquire(1)
}

// LockContext 在上下文结束前获得锁，否则返回上下文错误且不持有锁
func (l *lock) LockContext(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Unlock 释放锁
func (l *lock) Unlock() {
	l.sem.Release(1)
}
