// Package queue 提供一组并发安全的 FIFO 队列，用于生产者/消费者之间的数据交接。
//
//   - SimpleQueue / TwoLockQueue：非阻塞，空队列出队立即返回 ErrEmptyQueue
//   - BlockingQueue：无界，空队列出队挂起直到有元素
//   - TimedBlockingQueue：在 BlockingQueue 基础上支持截止时间
//   - BoundedBlockingQueue：有界，队列满时入队同样挂起
//
// 所有挂起都通过条件等待实现，不会忙轮询。
package queue

// Inspector 是所有队列共有的观察接口
type Inspector interface {
	// Len 返回队列当前元素数量
	Len() int

	// Stats 返回队列的统计信息
	Stats() Stats
}

// NonBlocking 定义不会挂起调用方的队列
type NonBlocking[T any] interface {
	Inspector

	// Push 将元素添加到队列尾部，总是成功
	Push(item T)

	// Pop 从队列头部移除并返回元素，队列为空时返回 ErrEmptyQueue
	Pop() (T, error)
}

var (
	_ NonBlocking[int] = (*SimpleQueue[int])(nil)
	_ NonBlocking[int] = (*TwoLockQueue[int])(nil)
	_ Inspector        = (*BlockingQueue[int])(nil)
	_ Inspector        = (*TimedBlockingQueue[int])(nil)
	_ Inspector        = (*BoundedBlockingQueue[int])(nil)
)
