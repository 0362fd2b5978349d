package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type opKind int

const (
	opPush opKind = iota
	opPop
)

func (k opKind) String() string {
	if k == opPush {
		return "push"
	}
	return "pop"
}

// core 是阻塞队列的公共实现：一个 monitor、一个环形缓冲区
// 以及 "非空" 和（有界时）"非满" 两个条件
type core[T any] struct {
	m        *monitor
	notEmpty *condition
	notFull  *condition // 无界队列为 nil
	data     *ring[T]
	capacity int // 0 表示无界
	stats    *counters
	events   *EventEmitter
	logger   *zap.Logger
}

func newCore[T any](capacity int, opts *Options) *core[T] {
	stats := newCounters()
	c := &core[T]{
		m:        newMonitor(opts.WakePolicy, stats),
		capacity: capacity,
		stats:    stats,
		events:   NewEventEmitter(opts.EventListeners),
		logger:   opts.Logger,
	}

	c.data = newRing[T](opts.InitialSize, capacity, opts.Logger)

	c.notEmpty = c.m.newCondition()
	if capacity > 0 {
		c.notFull = c.m.newCondition()
	}
	return c
}

// 以下两个谓词只能在持有锁时调用
func (c *core[T]) hasItems() bool { return c.data.len() > 0 }
func (c *core[T]) hasRoom() bool  { return c.capacity == 0 || c.data.len() < c.capacity }

// pushWait 入队，队列已满时无限期等待
func (c *core[T]) pushWait(v T) {
	c.m.mu.Lock()
	if !c.hasRoom() {
		c.stats.pushBlocks.Add(1)
		_ = c.m.await(context.Background(), c.notFull, c.hasRoom)
	}
	c.enqueueLocked(v)
}

// popWait 出队，队列为空时无限期等待
func (c *core[T]) popWait() T {
	c.m.mu.Lock()
	if !c.hasItems() {
		c.stats.popBlocks.Add(1)
		_ = c.m.await(context.Background(), c.notEmpty, c.hasItems)
	}
	return c.dequeueLocked()
}

// push 入队，按 ctx 的截止时间放弃
func (c *core[T]) push(ctx context.Context, v T) error {
	if err := c.acquire(ctx); err != nil {
		return c.fail(ctx, opPush, StateAcquiringLock, err)
	}
	if !c.hasRoom() {
		c.stats.pushBlocks.Add(1)
		if err := c.m.await(ctx, c.notFull, c.hasRoom); err != nil {
			c.m.mu.Unlock()
			return c.fail(ctx, opPush, StateWaiting, err)
		}
	}
	c.enqueueLocked(v)
	return nil
}

// pop 出队，按 ctx 的截止时间放弃
func (c *core[T]) pop(ctx context.Context) (T, error) {
	var zero T
	if err := c.acquire(ctx); err != nil {
		return zero, c.fail(ctx, opPop, StateAcquiringLock, err)
	}
	if !c.hasItems() {
		c.stats.popBlocks.Add(1)
		if err := c.m.await(ctx, c.notEmpty, c.hasItems); err != nil {
			c.m.mu.Unlock()
			return zero, c.fail(ctx, opPop, StateWaiting, err)
		}
	}
	return c.dequeueLocked(), nil
}

// acquire 是限时操作的第一阶段：带截止时间获取锁，并检查抢锁是否已耗尽预算
func (c *core[T]) acquire(ctx context.Context) error {
	if err := c.m.mu.LockContext(ctx); err != nil {
		return err
	}
	if err := checkDeadline(ctx); err != nil {
		c.m.mu.Unlock()
		return err
	}
	return nil
}

// pushTimeout 限时入队，timeout <= 0 表示不等待
func (c *core[T]) pushTimeout(v T, timeout time.Duration) error {
	if timeout <= 0 {
		if !c.m.mu.TryLock() {
			return c.fail(context.Background(), opPush, StateAcquiringLock, context.DeadlineExceeded)
		}
		if !c.hasRoom() {
			c.m.mu.Unlock()
			return c.fail(context.Background(), opPush, StateWaiting, context.DeadlineExceeded)
		}
		c.enqueueLocked(v)
		return nil
	}

	ctx, cancel := NewDeadline(timeout).Context(context.Background())
	defer cancel()
	return c.push(ctx, v)
}

// popTimeout 限时出队，timeout <= 0 表示不等待
func (c *core[T]) popTimeout(timeout time.Duration) (T, error) {
	var zero T
	if timeout <= 0 {
		if !c.m.mu.TryLock() {
			return zero, c.fail(context.Background(), opPop, StateAcquiringLock, context.DeadlineExceeded)
		}
		if !c.hasItems() {
			c.m.mu.Unlock()
			return zero, c.fail(context.Background(), opPop, StateWaiting, context.DeadlineExceeded)
		}
		return c.dequeueLocked(), nil
	}

	ctx, cancel := NewDeadline(timeout).Context(context.Background())
	defer cancel()
	return c.pop(ctx)
}

// tryPush 非阻塞入队，队列已满时返回 ErrQueueFull
func (c *core[T]) tryPush(v T) error {
	c.m.mu.Lock()
	if !c.hasRoom() {
		c.m.mu.Unlock()
		c.stats.fullRejects.Add(1)
		return ErrQueueFull
	}
	c.enqueueLocked(v)
	return nil
}

// tryPop 非阻塞出队，队列为空时返回 ErrEmptyQueue
func (c *core[T]) tryPop() (T, error) {
	var zero T
	c.m.mu.Lock()
	if !c.hasItems() {
		c.m.mu.Unlock()
		c.stats.emptyRejects.Add(1)
		return zero, ErrEmptyQueue
	}
	return c.dequeueLocked(), nil
}

// enqueueLocked 在持有锁时调用：追加元素，释放锁，然后按需唤醒
// 是否由空变非空以追加前的实际状态为准
func (c *core[T]) enqueueLocked(v T) {
	wasEmpty := c.data.len() == 0
	c.data.push(v)
	size := c.data.len()
	c.m.mu.Unlock()

	if wasEmpty {
		c.m.wake(c.notEmpty)
	}
	if c.notFull != nil && size < c.capacity {
		c.m.relay(c.notFull)
	}

	c.stats.pushed.Add(1)
	if c.events.enabled() {
		c.events.Emit(Event{Type: EventPush, Item: v, Size: size})
		if c.capacity > 0 && size == c.capacity {
			c.events.Emit(Event{Type: EventFull, Size: size})
		}
	}
}

// dequeueLocked 在持有锁时调用：移除头部元素，释放锁，然后按需唤醒
func (c *core[T]) dequeueLocked() T {
	wasFull := c.capacity > 0 && c.data.len() == c.capacity
	item := c.data.pop()
	size := c.data.len()
	c.m.mu.Unlock()

	if wasFull {
		c.m.wake(c.notFull)
	}
	if size > 0 {
		c.m.relay(c.notEmpty)
	}

	c.stats.popped.Add(1)
	if c.events.enabled() {
		c.events.Emit(Event{Type: EventPop, Item: item, Size: size})
		if size == 0 {
			c.events.Emit(Event{Type: EventEmpty})
		}
	}
	return item
}

// fail 记录失败的限时操作并转换为队列错误，调用时不持有锁
func (c *core[T]) fail(ctx context.Context, op opKind, state OpState, err error) error {
	qerr := contextErr(err)
	switch qerr {
	case ErrTimeout:
		if op == opPush {
			c.stats.pushTimeouts.Add(1)
		} else {
			c.stats.popTimeouts.Add(1)
		}
	case ErrCanceled:
		c.stats.canceled.Add(1)
	}

	fields := []zap.Field{
		zap.Stringer("op", op),
		zap.Stringer("state", state),
		zap.Error(qerr),
	}
	if d, ok := deadlineOf(ctx); ok {
		fields = append(fields, zap.Duration("remaining", d.Remaining()))
	}
	c.logger.Debug("queue operation abandoned", fields...)

	if qerr == ErrTimeout && c.events.enabled() {
		c.events.Emit(Event{Type: EventTimeout, State: state, Err: qerr})
	}
	return qerr
}

func (c *core[T]) len() int {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.data.len()
}

func (c *core[T]) peek() (T, error) {
	var zero T
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if !c.hasItems() {
		return zero, ErrEmptyQueue
	}
	return c.data.peek(), nil
}

func (c *core[T]) snapshotItems() []T {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.data.snapshot()
}

func (c *core[T]) statsSnapshot() Stats {
	return c.stats.snapshot(c.capacity, c.len())
}
