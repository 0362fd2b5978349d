package queue

// BlockingQueue 是无界阻塞队列，空队列出队会挂起直到有元素入队
type BlockingQueue[T any] struct {
	c *core[T]
}

// NewBlockingQueue 创建一个新的无界阻塞队列
func NewBlockingQueue[T any](options ...Option) *BlockingQueue[T] {
	return &BlockingQueue[T]{c: newCore[T](0, buildOptions(options))}
}

// Push 将元素添加到队列尾部，从不阻塞
// 队列由空变非空时唤醒等待的消费者
func (q *BlockingQueue[T]) Push(item T) {
	q.c.pushWait(item)
}

// Pop 从队列头部移除并返回元素，队列为空时挂起
// 没有取消机制，只能由入队唤醒
func (q *BlockingQueue[T]) Pop() T {
	return q.c.popWait()
}

// TryPop 不挂起地出队，队列为空时返回 ErrEmptyQueue
func (q *BlockingQueue[T]) TryPop() (T, error) {
	return q.c.tryPop()
}

// Peek 查看队列头部元素但不移除
func (q *BlockingQueue[T]) Peek() (T, error) {
	return q.c.peek()
}

// Len 返回队列当前元素数量
func (q *BlockingQueue[T]) Len() int {
	return q.c.len()
}

// Items 按出队顺序返回当前元素的副本
func (q *BlockingQueue[T]) Items() []T {
	return q.c.snapshotItems()
}

// Stats 返回队列的统计信息
func (q *BlockingQueue[T]) Stats() Stats {
	return q.c.statsSnapshot()
}
