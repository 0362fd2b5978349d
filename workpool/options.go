package workpool

import (
	"time"

	"github.com/fyerfyer/syncq/queue"
	"go.uber.org/zap"
)

// WorkPoolOption 是用于配置工作池的函数选项
type WorkPoolOption func(*WorkPoolConfig)

// WorkPoolConfig 包含工作池的所有配置选项
type WorkPoolConfig struct {
	// 工作协程数量，固定不变
	workers int

	// 任务队列容量，队列满时提交方挂起
	queueCapacity int

	// 任务队列的唤醒策略
	wakePolicy queue.WakePolicy

	// 任务默认执行超时
	defaultTaskTimeout time.Duration

	logger *zap.Logger
}

// DefaultConfig 返回工作池的默认配置
func DefaultConfig() WorkPoolConfig {
	return WorkPoolConfig{
		workers:            4,
		queueCapacity:      1000,
		wakePolicy:         queue.WakeOne, // 每个任务只需要一个工作协程
		defaultTaskTimeout: 0,             // 默认无超时
		logger:             zap.NewNop(),
	}
}

// WithWorkers 设置工作协程数量
func WithWorkers(count int) WorkPoolOption {
	return func(config *WorkPoolConfig) {
		if count > 0 {
			config.workers = count
		}
	}
}

// WithQueueCapacity 设置任务队列容量
func WithQueueCapacity(capacity int) WorkPoolOption {
	return func(config *WorkPoolConfig) {
		config.queueCapacity = capacity
	}
}

// WithWakePolicy 设置任务队列的唤醒策略
func WithWakePolicy(policy queue.WakePolicy) WorkPoolOption {
	return func(config *WorkPoolConfig) {
		config.wakePolicy = policy
	}
}

// WithDefaultTaskTimeout 设置任务的默认超时时间
func WithDefaultTaskTimeout(timeout time.Duration) WorkPoolOption {
	return func(config *WorkPoolConfig) {
		if timeout >= 0 {
			config.defaultTaskTimeout = timeout
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) WorkPoolOption {
	return func(config *WorkPoolConfig) {
		if logger != nil {
			config.logger = logger
		}
	}
}
