package queue

import "sync"

// SimpleQueue 是由一把互斥锁保护的非阻塞队列
type SimpleQueue[T any] struct {
	mu     sync.Mutex
	data   *ring[T]
	stats  *counters
	events *EventEmitter
}

// NewSimpleQueue 创建一个新的单锁非阻塞队列
func NewSimpleQueue[T any](options ...Option) *SimpleQueue[T] {
	opts := buildOptions(options)
	return &SimpleQueue[T]{
		data:   newRing[T](opts.InitialSize, 0, opts.Logger),
		stats:  newCounters(),
		events: NewEventEmitter(opts.EventListeners),
	}
}

// Push 将元素添加到队列尾部
func (q *SimpleQueue[T]) Push(item T) {
	q.mu.Lock()
	q.data.push(item)
	size := q.data.len()
	q.mu.Unlock()

	q.stats.pushed.Add(1)
	if q.events.enabled() {
		q.events.Emit(Event{Type: EventPush, Item: item, Size: size})
	}
}

// Pop 从队列头部移除并返回元素，队列为空时立即返回 ErrEmptyQueue
func (q *SimpleQueue[T]) Pop() (T, error) {
	var zero T

	q.mu.Lock()
	if q.data.len() == 0 {
		q.mu.Unlock()
		q.stats.emptyRejects.Add(1)
		return zero, ErrEmptyQueue
	}
	item := q.data.pop()
	size := q.data.len()
	q.mu.Unlock()

	q.stats.popped.Add(1)
	if q.events.enabled() {
		q.events.Emit(Event{Type: EventPop, Item: item, Size: size})
		if size == 0 {
			q.events.Emit(Event{Type: EventEmpty})
		}
	}
	return item, nil
}

// Peek 查看队列头部元素但不移除
func (q *SimpleQueue[T]) Peek() (T, error) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.data.len() == 0 {
		return zero, ErrEmptyQueue
	}
	return q.data.peek(), nil
}

// Len 返回队列当前元素数量
func (q *SimpleQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.data.len()
}

// Items 按出队顺序返回当前元素的副本
func (q *SimpleQueue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.data.snapshot()
}

// Stats 返回队列的统计信息
func (q *SimpleQueue[T]) Stats() Stats {
	return q.stats.snapshot(0, q.Len())
}
