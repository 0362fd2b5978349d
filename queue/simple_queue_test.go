package queue

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleQueue_BasicOperations(t *testing.T) {
	q := NewSimpleQueue[int]()

	for i := 1; i <= 3; i++ {
		q.Push(i)
	}

	if q.Len() != 3 {
		t.Fatalf("Expected size 3, got %d", q.Len())
	}

	if val, err := q.Peek(); err != nil || val != 1 {
		t.Fatalf("Peek() expected 1, got %v (err: %v)", val, err)
	}

	for i := 1; i <= 3; i++ {
		val, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop() failed: %v", err)
		}
		if val != i {
			t.Fatalf("Expected %d, got %d", i, val)
		}
	}

	// 空队列出队立即失败
	_, err := q.Pop()
	if !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("Expected ErrEmptyQueue, got %v", err)
	}

	stats := q.Stats()
	if stats.Pushed != 3 || stats.Popped != 3 || stats.EmptyRejects != 1 {
		t.Fatalf("Unexpected stats: %+v", stats)
	}
}

func TestSimpleQueue_GrowPreservesOrder(t *testing.T) {
	q := NewSimpleQueue[int](WithInitialSize(2))

	// 先出队一部分让头尾回绕，再触发扩容
	for i := 0; i < 3; i++ {
		q.Push(i)
	}
	for i := 0; i < 2; i++ {
		if _, err := q.Pop(); err != nil {
			t.Fatalf("Pop() failed: %v", err)
		}
	}
	for i := 3; i < 100; i++ {
		q.Push(i)
	}

	items := q.Items()
	for i, v := range items {
		if v != i+2 {
			t.Fatalf("Items()[%d] = %d, want %d", i, v, i+2)
		}
	}

	for want := 2; want < 100; want++ {
		got, err := q.Pop()
		if err != nil || got != want {
			t.Fatalf("Pop() = %d, %v; want %d", got, err, want)
		}
	}
}

func TestSimpleQueue_Events(t *testing.T) {
	rec := &eventRecorder{}
	q := NewSimpleQueue[string](WithEventListener(rec.listen))

	q.Push("a")
	q.Push("b")
	_, _ = q.Pop()
	_, _ = q.Pop()

	assert.Equal(t, 2, rec.count(EventPush))
	assert.Equal(t, 2, rec.count(EventPop))
	assert.Equal(t, 1, rec.count(EventEmpty))

	// 非限时操作的事件不带阶段
	evt, ok := rec.last(EventPush)
	require.True(t, ok)
	assert.Equal(t, StateNone, evt.State)
}

func TestOpState_String(t *testing.T) {
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "acquiring-lock", StateAcquiringLock.String())
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "unknown", OpState(42).String())
}

func TestTwoLockQueue_FIFO(t *testing.T) {
	q := NewTwoLockQueue[int]()

	_, err := q.Pop()
	require.ErrorIs(t, err, ErrEmptyQueue)

	for i := 0; i < 50; i++ {
		q.Push(i)
	}
	require.Equal(t, 50, q.Len())
	items := q.Items()
	require.Len(t, items, 50)
	require.Equal(t, 0, items[0])
	require.Equal(t, 49, items[49])

	for i := 0; i < 50; i++ {
		v, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}

	_, err = q.Pop()
	require.ErrorIs(t, err, ErrEmptyQueue)
	require.Equal(t, 0, q.Len())
}

// nonBlockingConcurrency 并发生产和消费，检查元素既不丢失也不重复
func nonBlockingConcurrency(t *testing.T, q NonBlocking[int]) {
	const (
		producers        = 8
		consumers        = 8
		itemsPerProducer = 2000
		total            = producers * itemsPerProducer
	)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		seen     = make(map[int]int, total)
		consumed int
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < itemsPerProducer; j++ {
				q.Push(base + j)
			}
		}(p * itemsPerProducer)
	}

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				if consumed >= total {
					mu.Unlock()
					return
				}
				mu.Unlock()

				v, err := q.Pop()
				if errors.Is(err, ErrEmptyQueue) {
					runtime.Gosched()
					continue
				}
				mu.Lock()
				seen[v]++
				consumed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	require.Len(t, seen, total)
	for v, n := range seen {
		if n != 1 {
			t.Fatalf("item %d consumed %d times", v, n)
		}
	}
}

func TestSimpleQueue_ConcurrentAccess(t *testing.T) {
	nonBlockingConcurrency(t, NewSimpleQueue[int]())
}

func TestTwoLockQueue_ConcurrentAccess(t *testing.T) {
	nonBlockingConcurrency(t, NewTwoLockQueue[int]())
}
