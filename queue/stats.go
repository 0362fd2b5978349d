package queue

import (
	"sync/atomic"
	"time"
)

// Stats 表示队列的统计信息快照
type Stats struct {
	// 创建时间
	CreatedAt time.Time

	// 队列容量，0表示无界
	Capacity int

	// 当前元素数量
	Size int

	// 入队成功次数
	Pushed uint64

	// 出队成功次数
	Popped uint64

	// 入队因队列已满而挂起的次数
	PushBlocks uint64

	// 出队因队列为空而挂起的次数
	PopBlocks uint64

	// 入队超时次数
	PushTimeouts uint64

	// 出队超时次数
	PopTimeouts uint64

	// 被取消的操作次数
	Canceled uint64

	// 非阻塞出队遇到空队列的次数
	EmptyRejects uint64

	// 非阻塞入队遇到满队列的次数
	FullRejects uint64

	// 等待者被唤醒的次数
	Wakeups uint64

	// 唤醒后条件仍不成立、重新挂起的次数
	SpuriousWakeups uint64
}

// IsEmpty 返回队列是否为空
func (s *Stats) IsEmpty() bool {
	return s.Size == 0
}

// IsFull 返回队列是否已满
func (s *Stats) IsFull() bool {
	return s.Capacity > 0 && s.Size >= s.Capacity
}

// Utilization 返回队列利用率，范围从0到1
// 无界队列总是返回0
func (s *Stats) Utilization() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}

// counters 是各队列共享的原子计数器
type counters struct {
	createdAt time.Time

	pushed       atomic.Uint64
	popped       atomic.Uint64
	pushBlocks   atomic.Uint64
	popBlocks    atomic.Uint64
	pushTimeouts atomic.Uint64
	popTimeouts  atomic.Uint64
	canceled     atomic.Uint64
	emptyRejects atomic.Uint64
	fullRejects  atomic.Uint64
	wakeups      atomic.Uint64
	spurious     atomic.Uint64
}

func newCounters() *counters {
	return &counters{createdAt: time.Now()}
}

func (c *counters) snapshot(capacity, size int) Stats {
	return Stats{
		CreatedAt:       c.createdAt,
		Capacity:        capacity,
		Size:            size,
		Pushed:          c.pushed.Load(),
		Popped:          c.popped.Load(),
		PushBlocks:      c.pushBlocks.Load(),
		PopBlocks:       c.popBlocks.Load(),
		PushTimeouts:    c.pushTimeouts.Load(),
		PopTimeouts:     c.popTimeouts.Load(),
		Canceled:        c.canceled.Load(),
		EmptyRejects:    c.emptyRejects.Load(),
		FullRejects:     c.fullRejects.Load(),
		Wakeups:         c.wakeups.Load(),
		SpuriousWakeups: c.spurious.Load(),
	}
}
