package queueservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fyerfyer/syncq/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *InMemoryService {
	t.Helper()
	s := NewInMemoryService(WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"simple", KindSimple},
		{"TwoLock", KindTwoLock},
		{"b", KindBlocking},
		{" timed ", KindTimed},
		{"bounded", KindBounded},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("priority")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestInMemoryService_CreateAndList(t *testing.T) {
	s := newTestService(t)

	for i, kind := range Kinds() {
		info, err := s.CreateQueue(string(kind), QueueOptions{Kind: kind, Capacity: i + 1})
		require.NoError(t, err)
		_, err = uuid.Parse(info.ID)
		require.NoError(t, err)
		assert.Equal(t, kind, info.Kind)
	}

	_, err := s.CreateQueue("simple", QueueOptions{Kind: KindSimple})
	assert.True(t, errors.Is(err, ErrQueueExists))

	_, err = s.CreateQueue("", QueueOptions{Kind: KindSimple})
	assert.True(t, errors.Is(err, ErrInvalidName))

	_, err = s.CreateQueue("zero", QueueOptions{Kind: KindBounded})
	assert.True(t, errors.Is(err, queue.ErrInvalidCapacity))

	list := s.ListQueues()
	require.Len(t, list, len(Kinds()))
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}

	bounded, err := s.Info("bounded")
	require.NoError(t, err)
	assert.Equal(t, 5, bounded.Stats.Capacity)
}

func TestInMemoryService_PushPop(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			_, err := s.CreateQueue(string(kind), QueueOptions{Kind: kind, Capacity: 4})
			require.NoError(t, err)

			for _, item := range []string{"a", "b", "c"} {
				require.NoError(t, s.PushItem(ctx, string(kind), item))
			}

			h, err := s.GetQueue(string(kind))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, h.Items())

			for _, want := range []string{"a", "b", "c"} {
				got, err := s.PopItem(ctx, string(kind))
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			stats, err := s.QueueStats(string(kind))
			require.NoError(t, err)
			assert.Equal(t, uint64(3), stats.Pushed)
			assert.Equal(t, uint64(3), stats.Popped)
		})
	}
}

func TestInMemoryService_PopEmpty(t *testing.T) {
	s := newTestService(t)

	for _, kind := range Kinds() {
		_, err := s.CreateQueue(string(kind), QueueOptions{Kind: kind, Capacity: 1})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// 非阻塞类型立即失败
	for _, kind := range []Kind{KindSimple, KindTwoLock, KindBlocking} {
		_, err := s.PopItem(ctx, string(kind))
		assert.True(t, errors.Is(err, queue.ErrEmptyQueue), "%s: %v", kind, err)
	}

	// 阻塞类型等到截止时间
	for _, kind := range []Kind{KindTimed, KindBounded} {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := s.PopItem(ctx, string(kind))
		cancel()
		assert.True(t, errors.Is(err, queue.ErrTimeout), "%s: %v", kind, err)
	}
}

func TestInMemoryService_BoundedPushTimeout(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateQueue("jobs", QueueOptions{Kind: KindBounded, Capacity: 1})
	require.NoError(t, err)

	require.NoError(t, s.PushItem(context.Background(), "jobs", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = s.PushItem(ctx, "jobs", "second")
	assert.True(t, errors.Is(err, queue.ErrTimeout))

	h, err := s.GetQueue("jobs")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, h.Items())
}

func TestInMemoryService_BlockingHandoff(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateQueue("b", QueueOptions{Kind: KindBlocking, WakePolicy: queue.WakeOne})
	require.NoError(t, err)

	got := make(chan string, 1)
	go func() {
		// Background 永不结束，出队挂起直到有元素
		item, _ := s.PopItem(context.Background(), "b")
		got <- item
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.PushItem(context.Background(), "b", "hello"))

	select {
	case item := <-got:
		assert.Equal(t, "hello", item)
	case <-time.After(time.Second):
		t.Fatal("blocking pop did not return")
	}
}

func TestInMemoryService_DeleteAndClose(t *testing.T) {
	s := NewInMemoryService()

	_, err := s.CreateQueue("q", QueueOptions{Kind: KindSimple})
	require.NoError(t, err)

	require.NoError(t, s.DeleteQueue("q"))
	assert.True(t, errors.Is(s.DeleteQueue("q"), ErrQueueNotFound))
	_, err = s.QueueStats("q")
	assert.True(t, errors.Is(err, ErrQueueNotFound))

	_, err = s.CreateQueue("q", QueueOptions{Kind: KindSimple})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Empty(t, s.ListQueues())

	_, err = s.GetQueue("q")
	assert.True(t, errors.Is(err, ErrServiceClosed))
	_, err = s.CreateQueue("again", QueueOptions{Kind: KindSimple})
	assert.True(t, errors.Is(err, ErrServiceClosed))
}

func TestSerializeQueueData(t *testing.T) {
	s := newTestService(t)
	info, err := s.CreateQueue("jobs", QueueOptions{Kind: KindBounded, Capacity: 4})
	require.NoError(t, err)
	require.NoError(t, s.PushItem(context.Background(), "jobs", "x"))

	info, err = s.Info("jobs")
	require.NoError(t, err)
	out, err := SerializeQueueData(NewQueueData(info, []string{"x"}))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "jobs", decoded[0]["name"])
	assert.Equal(t, "bounded", decoded[0]["kind"])
	assert.Equal(t, info.ID, decoded[0]["id"])
	stats := decoded[0]["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["size"])
	assert.Equal(t, 0.25, stats["utilization"])

	empty, err := SerializeQueueData()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestFormatting(t *testing.T) {
	stats := queue.Stats{
		CreatedAt:       time.Now(),
		Capacity:        2,
		Size:            1,
		Pushed:          3,
		Popped:          2,
		PopTimeouts:     1,
		Wakeups:         4,
		SpuriousWakeups: 1,
	}
	out := FormatQueueStats(stats)
	assert.Contains(t, out, "Capacity: 2 (50.0% utilized)")
	assert.Contains(t, out, "Operations: 3 pushed, 2 popped")
	assert.Contains(t, out, "Timeouts: 0 push, 1 pop")
	assert.Contains(t, out, "Wakeups: 4 (1 spurious)")
	assert.NotContains(t, out, "Blocks:")

	info := FormatQueueInfo(QueueInfo{Name: "q", Kind: KindTimed, CreatedAt: time.Now(), Stats: stats})
	assert.Contains(t, info, "Kind: timed (wake all)")
	assert.Contains(t, info, "Size: 1/2")

	assert.Equal(t, []string{"a", "b"}, ParseItems(" a, ,b,"))
	assert.Nil(t, ParseItems(""))
	assert.Equal(t, "a,b", FormatItems([]string{"a", "b"}))
}
