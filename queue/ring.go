package queue

import "go.uber.org/zap"

// ring 是队列共用的环形缓冲区，本身不是并发安全的
type ring[T any] struct {
	data   []T
	head   int
	tail   int
	size   int
	limit  int // 缓冲区长度上限，0 表示不限
	logger *zap.Logger
}

// newRing 创建初始长度为 initial 的缓冲区，limit > 0 时长度不会超过 limit
// 有界队列按需扩容，不预先分配整个容量
func newRing[T any](initial, limit int, logger *zap.Logger) *ring[T] {
	if initial <= 0 {
		initial = 16
	}
	if limit > 0 && initial > limit {
		initial = limit
	}
	return &ring[T]{
		data:   make([]T, initial),
		limit:  limit,
		logger: logger,
	}
}

func (r *ring[T]) len() int {
	return r.size
}

// push 追加到尾部，缓冲区已满时翻倍扩容，调用方保证不超过 limit
func (r *ring[T]) push(v T) {
	if r.size == len(r.data) {
		r.grow()
	}
	r.data[r.tail] = v
	r.tail = (r.tail + 1) % len(r.data)
	r.size++
}

// pop 移除并返回头部元素，调用方保证 size > 0
func (r *ring[T]) pop() T {
	var zero T
	item := r.data[r.head]
	r.data[r.head] = zero // 清空引用，帮助GC
	r.head = (r.head + 1) % len(r.data)
	r.size--
	return item
}

func (r *ring[T]) peek() T {
	return r.data[r.head]
}

// snapshot 按 FIFO 顺序复制当前元素
func (r *ring[T]) snapshot() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}

func (r *ring[T]) grow() {
	oldCap := len(r.data)
	newCap := oldCap * 2
	if r.limit > 0 && (newCap > r.limit || newCap <= 0) {
		newCap = r.limit
	}
	newData := make([]T, newCap)

	// 按顺序复制元素
	for i := 0; i < r.size; i++ {
		newData[i] = r.data[(r.head+i)%oldCap]
	}

	r.head = 0
	r.tail = r.size
	r.data = newData

	r.logger.Debug("ring buffer expanded",
		zap.Int("old_capacity", oldCap),
		zap.Int("new_capacity", len(newData)),
		zap.Int("size", r.size))
}
