package queueservice

import (
	"context"

	"github.com/fyerfyer/syncq/queue"
)

// nonBlockingHandle 包装 simple 和 twolock 队列
type nonBlockingHandle struct {
	q     queue.NonBlocking[string]
	items func() []string
}

func (h *nonBlockingHandle) Push(_ context.Context, item string) error {
	h.q.Push(item)
	return nil
}

func (h *nonBlockingHandle) Pop(_ context.Context) (string, error) {
	return h.q.Pop()
}

func (h *nonBlockingHandle) Len() int           { return h.q.Len() }
func (h *nonBlockingHandle) Items() []string    { return h.items() }
func (h *nonBlockingHandle) Stats() queue.Stats { return h.q.Stats() }

// blockingHandle 包装无界阻塞队列
// BlockingQueue 的出队不能中途放弃，因此只有 ctx 永不结束时才挂起等待
type blockingHandle struct {
	q *queue.BlockingQueue[string]
}

func (h *blockingHandle) Push(_ context.Context, item string) error {
	h.q.Push(item)
	return nil
}

func (h *blockingHandle) Pop(ctx context.Context) (string, error) {
	if ctx.Done() == nil {
		return h.q.Pop(), nil
	}
	return h.q.TryPop()
}

func (h *blockingHandle) Len() int           { return h.q.Len() }
func (h *blockingHandle) Items() []string    { return h.q.Items() }
func (h *blockingHandle) Stats() queue.Stats { return h.q.Stats() }

type timedHandle struct {
	q *queue.TimedBlockingQueue[string]
}

func (h *timedHandle) Push(ctx context.Context, item string) error {
	return h.q.PushContext(ctx, item)
}

func (h *timedHandle) Pop(ctx context.Context) (string, error) {
	return h.q.PopContext(ctx)
}

func (h *timedHandle) Len() int           { return h.q.Len() }
func (h *timedHandle) Items() []string    { return h.q.Items() }
func (h *timedHandle) Stats() queue.Stats { return h.q.Stats() }

type boundedHandle struct {
	q *queue.BoundedBlockingQueue[string]
}

func (h *boundedHandle) Push(ctx context.Context, item string) error {
	return h.q.PushContext(ctx, item)
}

func (h *boundedHandle) Pop(ctx context.Context) (string, error) {
	return h.q.PopContext(ctx)
}

func (h *boundedHandle) Len() int           { return h.q.Len() }
func (h *boundedHandle) Items() []string    { return h.q.Items() }
func (h *boundedHandle) Stats() queue.Stats { return h.q.Stats() }

// newHandle 按类型创建队列并包装为 Handle
func newHandle(kind Kind, capacity int, options []queue.Option) (Handle, error) {
	switch kind {
	case KindSimple:
		q := queue.NewSimpleQueue[string](options...)
		return &nonBlockingHandle{q: q, items: q.Items}, nil
	case KindTwoLock:
		q := queue.NewTwoLockQueue[string](options...)
		return &nonBlockingHandle{q: q, items: q.Items}, nil
	case KindBlocking:
		return &blockingHandle{q: queue.NewBlockingQueue[string](options...)}, nil
	case KindTimed:
		return &timedHandle{q: queue.NewTimedBlockingQueue[string](options...)}, nil
	case KindBounded:
		q, err := queue.NewBoundedBlockingQueue[string](capacity, options...)
		if err != nil {
			return nil, err
		}
		return &boundedHandle{q: q}, nil
	default:
		return nil, ErrUnknownKind
	}
}
