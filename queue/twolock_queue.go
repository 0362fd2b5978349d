package queue

import (
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// TwoLockQueue 是读写分离加锁的非阻塞队列
//
// 出队只持有 headMu，入队只持有 tailMu，两者互不阻塞。
// 链表头部始终保留一个哑节点，队列为空时 head 与 tail 指向同一个节点，
// 此时双方唯一共享的字段 next 通过原子操作访问。
// 代价是长度检查与入队之间不再具有原子性，Len 只是近似值。
type TwoLockQueue[T any] struct {
	headMu sync.Mutex
	head   *node[T]

	tailMu sync.Mutex
	tail   *node[T]

	size   atomic.Int64
	stats  *counters
	events *EventEmitter
}

// NewTwoLockQueue 创建一个新的双锁非阻塞队列
func NewTwoLockQueue[T any](options ...Option) *TwoLockQueue[T] {
	opts := buildOptions(options)
	dummy := &node[T]{}
	return &TwoLockQueue[T]{
		head:   dummy,
		tail:   dummy,
		stats:  newCounters(),
		events: NewEventEmitter(opts.EventListeners),
	}
}

// Push 将元素添加到队列尾部，只持有写锁
func (q *TwoLockQueue[T]) Push(item T) {
	n := &node[T]{value: item}

	q.tailMu.Lock()
	q.tail.next.Store(n)
	q.tail = n
	q.tailMu.Unlock()

	size := q.size.Add(1)
	q.stats.pushed.Add(1)
	if q.events.enabled() {
		q.events.Emit(Event{Type: EventPush, Item: item, Size: int(size)})
	}
}

// Pop 从队列头部移除并返回元素，只持有读锁
// 队列为空时立即返回 ErrEmptyQueue
func (q *TwoLockQueue[T]) Pop() (T, error) {
	var zero T

	q.headMu.Lock()
	first := q.head.next.Load()
	if first == nil {
		q.headMu.Unlock()
		q.stats.emptyRejects.Add(1)
		return zero, ErrEmptyQueue
	}
	item := first.value
	first.value = zero // first 成为新的哑节点
	q.head = first
	q.headMu.Unlock()

	size := q.size.Add(-1)
	q.stats.popped.Add(1)
	if q.events.enabled() {
		q.events.Emit(Event{Type: EventPop, Item: item, Size: clampSize(size)})
	}
	return item, nil
}

// Len 返回队列元素数量的近似值
func (q *TwoLockQueue[T]) Len() int {
	return clampSize(q.size.Load())
}

// Items 按出队顺序返回当前元素的副本
// 只持有读锁，并发的入队可能出现也可能不出现在结果中
func (q *TwoLockQueue[T]) Items() []T {
	q.headMu.Lock()
	defer q.headMu.Unlock()

	var items []T
	for n := q.head.next.Load(); n != nil; n = n.next.Load() {
		items = append(items, n.value)
	}
	return items
}

// Stats 返回队列的统计信息
func (q *TwoLockQueue[T]) Stats() Stats {
	return q.stats.snapshot(0, q.Len())
}

// 入队计数在链接节点之后才增加，出队可能先于它执行
func clampSize(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}
