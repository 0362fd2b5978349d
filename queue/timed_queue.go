package queue

import (
	"context"
	"time"
)

// TimedBlockingQueue 是支持截止时间的无界阻塞队列
//
// 每个限时操作经历两次独立的时间检查：
// 获得锁之后检查抢锁是否已耗尽预算，随后在同一个截止时间内等待条件。
// 失败的操作不会修改队列。
type TimedBlockingQueue[T any] struct {
	c *core[T]
}

// NewTimedBlockingQueue 创建一个新的限时阻塞队列
func NewTimedBlockingQueue[T any](options ...Option) *TimedBlockingQueue[T] {
	return &TimedBlockingQueue[T]{c: newCore[T](0, buildOptions(options))}
}

// Push 在 timeout 内将元素添加到队列尾部，否则返回 ErrTimeout
// timeout <= 0 时只在锁空闲时尝试一次
func (q *TimedBlockingQueue[T]) Push(item T, timeout time.Duration) error {
	return q.c.pushTimeout(item, timeout)
}

// Pop 在 timeout 内从队列头部取出元素，否则返回 ErrTimeout
// timeout <= 0 时只在锁空闲且队列非空时尝试一次
func (q *TimedBlockingQueue[T]) Pop(timeout time.Duration) (T, error) {
	return q.c.popTimeout(timeout)
}

// PushContext 以 ctx 的截止时间作为预算入队
// 截止时间到达返回 ErrTimeout，ctx 被取消返回 ErrCanceled
func (q *TimedBlockingQueue[T]) PushContext(ctx context.Context, item T) error {
	return q.c.push(ctx, item)
}

// PopContext 以 ctx 的截止时间作为预算出队
// 截止时间到达返回 ErrTimeout，ctx 被取消返回 ErrCanceled
func (q *TimedBlockingQueue[T]) PopContext(ctx context.Context) (T, error) {
	return q.c.pop(ctx)
}

// TryPop 不挂起地出队，队列为空时返回 ErrEmptyQueue
func (q *TimedBlockingQueue[T]) TryPop() (T, error) {
	return q.c.tryPop()
}

// Len 返回队列当前元素数量
func (q *TimedBlockingQueue[T]) Len() int {
	return q.c.len()
}

// Items 按出队顺序返回当前元素的副本
func (q *TimedBlockingQueue[T]) Items() []T {
	return q.c.snapshotItems()
}

// Stats 返回队列的统计信息
func (q *TimedBlockingQueue[T]) Stats() Stats {
	return q.c.statsSnapshot()
}
