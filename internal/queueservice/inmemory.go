package queueservice

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fyerfyer/syncq/queue"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InMemoryService 实现了Service接口的内存存储版本
type InMemoryService struct {
	// 队列名称到队列实例的映射
	queues map[string]*queueEntry
	// 保护映射的互斥锁
	mu     sync.RWMutex
	closed bool
	logger *zap.Logger
}

// queueEntry 包含队列及其元数据
type queueEntry struct {
	id        string
	h         Handle
	kind      Kind
	wake      queue.WakePolicy
	createdAt time.Time
}

func (e *queueEntry) info(name string) QueueInfo {
	return QueueInfo{
		ID:         e.id,
		Name:       name,
		Kind:       e.kind,
		WakePolicy: e.wake,
		CreatedAt:  e.createdAt,
		Stats:      e.h.Stats(),
	}
}

// ServiceOption 定义服务的配置选项
type ServiceOption func(*InMemoryService)

// WithLogger 设置服务及其队列使用的日志记录器
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *InMemoryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewInMemoryService 创建一个新的内存队列服务
func NewInMemoryService(options ...ServiceOption) *InMemoryService {
	s := &InMemoryService{
		queues: make(map[string]*queueEntry),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CreateQueue 创建一个新队列
func (s *InMemoryService) CreateQueue(name string, opts QueueOptions) (QueueInfo, error) {
	if name == "" {
		return QueueInfo{}, ErrInvalidName
	}

	queueOpts := []queue.Option{
		queue.WithWakePolicy(opts.WakePolicy),
		queue.WithLogger(s.logger.With(zap.String("queue", name))),
	}
	if opts.InitialSize > 0 {
		queueOpts = append(queueOpts, queue.WithInitialSize(opts.InitialSize))
	}

	h, err := newHandle(opts.Kind, opts.Capacity, queueOpts)
	if err != nil {
		return QueueInfo{}, errors.Wrapf(err, "create queue %q (kind %q, capacity %d)",
			name, opts.Kind, opts.Capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return QueueInfo{}, ErrServiceClosed
	}
	if _, exists := s.queues[name]; exists {
		return QueueInfo{}, errors.Wrapf(ErrQueueExists, "create queue %q", name)
	}

	entry := &queueEntry{
		id:        uuid.NewString(),
		h:         h,
		kind:      opts.Kind,
		wake:      opts.WakePolicy,
		createdAt: time.Now(),
	}
	s.queues[name] = entry

	s.logger.Info("queue created",
		zap.String("queue", name),
		zap.String("id", entry.id),
		zap.String("kind", string(opts.Kind)),
		zap.Int("capacity", opts.Capacity),
		zap.Stringer("wake", opts.WakePolicy))

	return entry.info(name), nil
}

// GetQueue 获取指定名称的队列
func (s *InMemoryService) GetQueue(name string) (Handle, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	return entry.h, nil
}

func (s *InMemoryService) entry(name string) (*queueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrServiceClosed
	}
	entry, exists := s.queues[name]
	if !exists {
		return nil, errors.Wrapf(ErrQueueNotFound, "queue %q", name)
	}
	return entry, nil
}

// ListQueues 按名称顺序列出所有队列
func (s *InMemoryService) ListQueues() []QueueInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]QueueInfo, 0, len(s.queues))
	for name, entry := range s.queues {
		result = append(result, entry.info(name))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Info 返回单个队列的信息
func (s *InMemoryService) Info(name string) (QueueInfo, error) {
	entry, err := s.entry(name)
	if err != nil {
		return QueueInfo{}, err
	}
	return entry.info(name), nil
}

// PushItem 向指定队列添加项目
func (s *InMemoryService) PushItem(ctx context.Context, queueName string, item string) error {
	h, err := s.GetQueue(queueName)
	if err != nil {
		return err
	}
	if err := h.Push(ctx, item); err != nil {
		s.logger.Warn("push failed", zap.String("queue", queueName), zap.Error(err))
		return errors.Wrapf(err, "push to queue %q", queueName)
	}
	return nil
}

// PopItem 从指定队列获取项目
func (s *InMemoryService) PopItem(ctx context.Context, queueName string) (string, error) {
	h, err := s.GetQueue(queueName)
	if err != nil {
		return "", err
	}
	item, err := h.Pop(ctx)
	if err != nil {
		// 空队列是正常情况，不记录告警
		if !errors.Is(err, queue.ErrEmptyQueue) {
			s.logger.Warn("pop failed", zap.String("queue", queueName), zap.Error(err))
		}
		return "", errors.Wrapf(err, "pop from queue %q", queueName)
	}
	return item, nil
}

// QueueStats 获取队列统计信息
func (s *InMemoryService) QueueStats(queueName string) (queue.Stats, error) {
	h, err := s.GetQueue(queueName)
	if err != nil {
		return queue.Stats{}, err
	}
	return h.Stats(), nil
}

// DeleteQueue 删除队列
// 队列上仍在等待的调用方不受影响，它们持有的是队列本身而非名称
func (s *InMemoryService) DeleteQueue(queueName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	entry, exists := s.queues[queueName]
	if !exists {
		return errors.Wrapf(ErrQueueNotFound, "queue %q", queueName)
	}
	delete(s.queues, queueName)

	s.logger.Info("queue deleted",
		zap.String("queue", queueName),
		zap.String("id", entry.id),
		zap.Int("remaining", entry.h.Len()))
	return nil
}

// Close 删除所有队列
func (s *InMemoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("queue service closed", zap.Int("queues", len(s.queues)))
	s.queues = make(map[string]*queueEntry)
	return nil
}
