package queue

import (
	"context"
	"time"
)

// BoundedBlockingQueue 是有界阻塞队列
// 队列为空时出队挂起，队列已满时入队挂起，两个条件共享同一把锁
type BoundedBlockingQueue[T any] struct {
	c *core[T]
}

// NewBoundedBlockingQueue 创建一个容量固定的阻塞队列
// 容量必须为正数，否则返回 ErrInvalidCapacity
func NewBoundedBlockingQueue[T any](capacity int, options ...Option) (*BoundedBlockingQueue[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &BoundedBlockingQueue[T]{c: newCore[T](capacity, buildOptions(options))}, nil
}

// Push 将元素添加到队列尾部，队列已满时挂起直到有空间
func (q *BoundedBlockingQueue[T]) Push(item T) {
	q.c.pushWait(item)
}

// Pop 从队列头部移除并返回元素，队列为空时挂起直到有元素
func (q *BoundedBlockingQueue[T]) Pop() T {
	return q.c.popWait()
}

// TryPush 不挂起地入队，队列已满时返回 ErrQueueFull
func (q *BoundedBlockingQueue[T]) TryPush(item T) error {
	return q.c.tryPush(item)
}

// TryPop 不挂起地出队，队列为空时返回 ErrEmptyQueue
func (q *BoundedBlockingQueue[T]) TryPop() (T, error) {
	return q.c.tryPop()
}

// PushTimeout 在 timeout 内入队，否则返回 ErrTimeout
func (q *BoundedBlockingQueue[T]) PushTimeout(item T, timeout time.Duration) error {
	return q.c.pushTimeout(item, timeout)
}

// PopTimeout 在 timeout 内出队，否则返回 ErrTimeout
func (q *BoundedBlockingQueue[T]) PopTimeout(timeout time.Duration) (T, error) {
	return q.c.popTimeout(timeout)
}

// PushContext 以 ctx 的截止时间作为预算入队
func (q *BoundedBlockingQueue[T]) PushContext(ctx context.Context, item T) error {
	return q.c.push(ctx, item)
}

// PopContext 以 ctx 的截止时间作为预算出队
func (q *BoundedBlockingQueue[T]) PopContext(ctx context.Context) (T, error) {
	return q.c.pop(ctx)
}

// Cap 返回队列容量
func (q *BoundedBlockingQueue[T]) Cap() int {
	return q.c.capacity
}

// Len 返回队列当前元素数量
func (q *BoundedBlockingQueue[T]) Len() int {
	return q.c.len()
}

// Items 按出队顺序返回当前元素的副本
func (q *BoundedBlockingQueue[T]) Items() []T {
	return q.c.snapshotItems()
}

// Stats 返回队列的统计信息
func (q *BoundedBlockingQueue[T]) Stats() Stats {
	return q.c.statsSnapshot()
}
