package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// 定时器调度的容忍误差
const timingSlack = 150 * time.Millisecond

func TestTimedBlockingQueue_PopTimeout(t *testing.T) {
	rec := &eventRecorder{}
	q := NewTimedBlockingQueue[int](WithEventListener(rec.listen))

	start := time.Now()
	_, err := q.Pop(100 * time.Millisecond)
	elapsed := time.Since(start)

	if err != ErrTimeout {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
	if elapsed < 100*time.Millisecond {
		t.Fatalf("Pop returned after %v, before the timeout", elapsed)
	}
	if elapsed > 100*time.Millisecond+timingSlack {
		t.Fatalf("Pop returned after %v, too long past the timeout", elapsed)
	}

	evt, ok := rec.last(EventTimeout)
	require.True(t, ok)
	assert.Equal(t, StateWaiting, evt.State)
	assert.Equal(t, uint64(1), q.Stats().PopTimeouts)
	assert.Equal(t, 0, q.Len())
}

func TestTimedBlockingQueue_PushBeforeDeadline(t *testing.T) {
	q := NewTimedBlockingQueue[string]()

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = q.Push("late", time.Second)
	}()

	v, err := q.Pop(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestTimedBlockingQueue_LockAcquisitionTimeout(t *testing.T) {
	rec := &eventRecorder{}
	q := NewTimedBlockingQueue[int](WithEventListener(rec.listen))
	require.NoError(t, q.Push(1, time.Second))

	// 占住锁，使限时操作在第一阶段耗尽预算
	q.c.m.mu.Lock()
	start := time.Now()
	err := q.Push(2, 50*time.Millisecond)
	elapsed := time.Since(start)
	q.c.m.mu.Unlock()

	require.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)

	evt, ok := rec.last(EventTimeout)
	require.True(t, ok)
	assert.Equal(t, StateAcquiringLock, evt.State)

	// 失败的操作不修改队列
	assert.Equal(t, []int{1}, q.Items())
	assert.Equal(t, uint64(1), q.Stats().PushTimeouts)
}

func TestTimedBlockingQueue_ZeroTimeout(t *testing.T) {
	q := NewTimedBlockingQueue[int]()

	_, err := q.Pop(0)
	require.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, q.Push(5, 0))
	v, err := q.Pop(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	// 锁被占用时不等待
	q.c.m.mu.Lock()
	err = q.Push(6, 0)
	q.c.m.mu.Unlock()
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, q.Len())
}

func TestTimedBlockingQueue_PopContextCanceled(t *testing.T) {
	q := NewTimedBlockingQueue[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := q.PopContext(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return q.c.notEmpty.waiting() == 1 },
		time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrCanceled)
	case <-time.After(time.Second):
		t.Fatal("PopContext did not return after cancel")
	}

	// 取消的等待者已从列表中移除
	assert.Equal(t, 0, q.c.notEmpty.waiting())
	assert.Equal(t, uint64(1), q.Stats().Canceled)
	assert.Equal(t, uint64(0), q.Stats().PopTimeouts)
}

func TestTimedBlockingQueue_ContextDeadline(t *testing.T) {
	q := NewTimedBlockingQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.PopContext(ctx)
	require.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, q.PushContext(context.Background(), 9))
	v, err := q.PopContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestTimedBlockingQueue_ConcurrentTimeouts(t *testing.T) {
	q := NewTimedBlockingQueue[int](WithWakePolicy(WakeOne))

	const consumers = 5
	results := make(chan error, consumers)
	for i := 0; i < consumers; i++ {
		go func() {
			_, err := q.Pop(300 * time.Millisecond)
			results <- err
		}()
	}

	require.Eventually(t, func() bool { return q.c.notEmpty.waiting() == consumers },
		time.Second, time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Push(i, time.Second))
	}

	var ok, timedOut int
	for i := 0; i < consumers; i++ {
		switch err := <-results; err {
		case nil:
			ok++
		case ErrTimeout:
			timedOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 2, timedOut)
}

func TestDeadline(t *testing.T) {
	d := NewDeadline(50 * time.Millisecond)
	assert.False(t, d.Expired())
	assert.Greater(t, d.Remaining(), time.Duration(0))
	assert.LessOrEqual(t, d.Remaining(), 50*time.Millisecond)

	ctx, cancel := d.Context(context.Background())
	defer cancel()
	fromCtx, ok := deadlineOf(ctx)
	require.True(t, ok)
	assert.Equal(t, d, fromCtx)
	require.NoError(t, checkDeadline(ctx))

	_, ok = deadlineOf(context.Background())
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)
	assert.True(t, d.Expired())
	assert.Equal(t, time.Duration(0), d.Remaining())
	require.ErrorIs(t, checkDeadline(ctx), context.DeadlineExceeded)

	past := NewDeadline(-time.Second)
	assert.True(t, past.Expired())
}

func TestTimedBlockingQueue_AbandonedLogsRemaining(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	q := NewTimedBlockingQueue[int](WithLogger(zap.New(obsCore)))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	errCh := make(chan error, 1)
	go func() {
		_, err := q.PopContext(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return q.c.notEmpty.waiting() == 1 },
		time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, ErrCanceled)

	entries := logs.FilterMessage("queue operation abandoned").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "waiting", fields["state"])
	remaining, ok := fields["remaining"].(time.Duration)
	require.True(t, ok)
	assert.Greater(t, remaining, 50*time.Second)

	// 不等待的操作没有截止时间，不记录剩余时间
	_, err := q.Pop(0)
	require.ErrorIs(t, err, ErrTimeout)
	entries = logs.FilterMessage("queue operation abandoned").All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].ContextMap(), "remaining")
}

func TestContextErr(t *testing.T) {
	assert.NoError(t, contextErr(nil))
	assert.Equal(t, ErrTimeout, contextErr(context.DeadlineExceeded))
	assert.Equal(t, ErrCanceled, contextErr(context.Canceled))
	assert.Equal(t, ErrEmptyQueue, contextErr(ErrEmptyQueue))
}
