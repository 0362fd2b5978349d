package workpool

import (
	"context"
	"sync"
	"time"

	"github.com/fyerfyer/syncq/queue"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNotRunning 表示工作池未处于运行状态
	ErrNotRunning = errors.New("work pool is not running")

	// ErrAlreadyStarted 表示工作池已经启动过
	ErrAlreadyStarted = errors.New("work pool already started")
)

// WorkPoolStatus 工作池的状态
type WorkPoolStatus int

const (
	// StatusIdle 空闲状态
	StatusIdle WorkPoolStatus = iota
	// StatusRunning 运行状态
	StatusRunning
	// StatusShuttingDown 正在关闭
	StatusShuttingDown
	// StatusStopped 已停止
	StatusStopped
)

// String 返回工作池状态的字符串表示
func (s WorkPoolStatus) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusShuttingDown:
		return "ShuttingDown"
	case StatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// WorkPool 管理固定数量的工作协程，通过有界阻塞队列向它们分发任务
//
// 队列已满时提交方挂起，队列为空时工作协程挂起，两侧都不轮询。
// 关闭时在队列尾部为每个工作协程追加一个停止标记，
// 由于队列先进先出，标记之前的任务都会先被执行。
type WorkPool struct {
	config WorkPoolConfig
	logger *zap.Logger

	// 任务队列，nil 元素是停止标记
	tasks *queue.BoundedBlockingQueue[*taskHandle]

	// 状态控制
	status     WorkPoolStatus
	statusLock sync.RWMutex

	// 正在提交中的调用，关闭时先等待它们返回
	inflight sync.WaitGroup
	workerWg sync.WaitGroup
	stopped  chan struct{}

	metrics *metrics

	// 任务上下文，关闭超时时取消所有任务
	ctx    context.Context
	cancel context.CancelFunc

	// 工作协程上下文，取消后阻塞在出队上的工作协程立即退出
	workerCtx   context.Context
	stopWorkers context.CancelFunc
}

// New 创建一个新的工作池
func New(options ...WorkPoolOption) (*WorkPool, error) {
	config := DefaultConfig()
	for _, option := range options {
		option(&config)
	}

	tasks, err := queue.NewBoundedBlockingQueue[*taskHandle](config.queueCapacity,
		queue.WithWakePolicy(config.wakePolicy),
		queue.WithLogger(config.logger))
	if err != nil {
		return nil, errors.Wrapf(err, "task queue capacity %d", config.queueCapacity)
	}

	ctx, cancel := context.WithCancel(context.Background())
	workerCtx, stopWorkers := context.WithCancel(context.Background())

	return &WorkPool{
		config:      config,
		logger:      config.logger,
		tasks:       tasks,
		status:      StatusIdle,
		stopped:     make(chan struct{}),
		metrics:     &metrics{},
		ctx:         ctx,
		cancel:      cancel,
		workerCtx:   workerCtx,
		stopWorkers: stopWorkers,
	}, nil
}

// Start 启动工作池，开始处理任务
func (wp *WorkPool) Start() error {
	wp.statusLock.Lock()
	defer wp.statusLock.Unlock()

	if wp.status != StatusIdle {
		return errors.Wrapf(ErrAlreadyStarted, "status %s", wp.status)
	}
	wp.status = StatusRunning

	for i := 0; i < wp.config.workers; i++ {
		wp.workerWg.Add(1)
		wp.metrics.total.Add(1)
		go wp.runWorker(i)
	}

	wp.logger.Info("work pool started",
		zap.Int("workers", wp.config.workers),
		zap.Int("queueCapacity", wp.config.queueCapacity),
		zap.Stringer("wake", wp.config.wakePolicy))
	return nil
}

// Shutdown 优雅关闭工作池
// 已提交的任务全部执行完毕后返回 nil；ctx 先结束时取消所有任务并返回 ctx 的错误
func (wp *WorkPool) Shutdown(ctx context.Context) error {
	wp.statusLock.Lock()
	switch wp.status {
	case StatusIdle:
		wp.status = StatusStopped
		wp.statusLock.Unlock()
		wp.cancel()
		wp.stopWorkers()
		close(wp.stopped)
		return nil
	case StatusShuttingDown, StatusStopped:
		wp.statusLock.Unlock()
		return nil
	}
	wp.status = StatusShuttingDown
	wp.statusLock.Unlock()

	wp.logger.Info("work pool shutting down, waiting for queued tasks",
		zap.Int("queued", wp.tasks.Len()))

	go wp.drain()

	select {
	case <-wp.stopped:
		wp.logger.Info("work pool shutdown complete")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.stopWorkers()
		wp.logger.Error("work pool shutdown deadline exceeded, tasks canceled",
			zap.Int("queued", wp.tasks.Len()),
			zap.Int32("active", wp.metrics.active.Load()))
		return errors.Wrap(ctx.Err(), "work pool shutdown")
	}
}

// drain 在队列尾部追加停止标记，等待工作协程退出后清理剩余任务
func (wp *WorkPool) drain() {
	wp.inflight.Wait()

	for i := 0; i < wp.config.workers; i++ {
		if err := wp.tasks.PushContext(wp.workerCtx, nil); err != nil {
			break
		}
	}
	wp.workerWg.Wait()

	// 只有关闭超时后队列里才可能还有任务
	for {
		h, err := wp.tasks.TryPop()
		if err != nil {
			break
		}
		if h != nil && h.Cancel() == nil {
			wp.metrics.taskSkipped()
		}
	}

	wp.statusLock.Lock()
	wp.status = StatusStopped
	wp.statusLock.Unlock()

	wp.cancel()
	wp.stopWorkers()
	close(wp.stopped)
}

// Submit 提交一个任务，任务队列已满时挂起直到有空间
func (wp *WorkPool) Submit(task Task, options ...TaskOption) (TaskHandle, error) {
	return wp.submit(task, options, func(h *taskHandle) error {
		return wp.tasks.PushContext(context.Background(), h)
	})
}

// SubmitContext 提交一个任务，任务队列已满时挂起直到有空间或 ctx 结束
func (wp *WorkPool) SubmitContext(ctx context.Context, task Task, options ...TaskOption) (TaskHandle, error) {
	return wp.submit(task, options, func(h *taskHandle) error {
		return wp.tasks.PushContext(ctx, h)
	})
}

// SubmitTimeout 提交一个任务，timeout 内未能入队时返回 queue.ErrTimeout
func (wp *WorkPool) SubmitTimeout(task Task, timeout time.Duration, options ...TaskOption) (TaskHandle, error) {
	return wp.submit(task, options, func(h *taskHandle) error {
		return wp.tasks.PushTimeout(h, timeout)
	})
}

// TrySubmit 提交一个任务，任务队列已满时立即返回 queue.ErrQueueFull
func (wp *WorkPool) TrySubmit(task Task, options ...TaskOption) (TaskHandle, error) {
	return wp.submit(task, options, wp.tasks.TryPush)
}

func (wp *WorkPool) submit(task Task, options []TaskOption, push func(*taskHandle) error) (TaskHandle, error) {
	wp.statusLock.RLock()
	if wp.status != StatusRunning {
		status := wp.status
		wp.statusLock.RUnlock()
		return nil, errors.Wrapf(ErrNotRunning, "status %s", status)
	}
	wp.inflight.Add(1)
	wp.statusLock.RUnlock()
	defer wp.inflight.Done()

	config := taskConfig{timeout: wp.config.defaultTaskTimeout}
	for _, option := range options {
		option(&config)
	}
	handle := newTaskHandle(wp.ctx, uuid.NewString(), task, config)

	if err := push(handle); err != nil {
		handle.cancel()
		wp.metrics.rejected.Add(1)
		wp.logger.Warn("task rejected", zap.String("task", handle.id), zap.Error(err))
		return nil, errors.Wrap(err, "submit task")
	}

	wp.metrics.submitted.Add(1)
	wp.logger.Debug("task submitted", zap.String("task", handle.id))
	return handle, nil
}

// Status 返回工作池的当前状态
func (wp *WorkPool) Status() WorkPoolStatus {
	wp.statusLock.RLock()
	defer wp.statusLock.RUnlock()
	return wp.status
}

// GetMetrics 返回工作池的指标快照
func (wp *WorkPool) GetMetrics() Metrics {
	return wp.metrics.snapshot(wp.tasks.Stats())
}

// WorkerCount 返回当前工作协程数量
func (wp *WorkPool) WorkerCount() int {
	return int(wp.metrics.total.Load())
}

// QueueSize 返回当前队列中等待的任务数量
func (wp *WorkPool) QueueSize() int {
	return wp.tasks.Len()
}

// QueueCapacity 返回任务队列容量
func (wp *WorkPool) QueueCapacity() int {
	return wp.tasks.Cap()
}

// runWorker 工作协程主循环
func (wp *WorkPool) runWorker(id int) {
	defer func() {
		wp.metrics.total.Add(-1)
		wp.workerWg.Done()
	}()

	logger := wp.logger.With(zap.Int("worker", id))
	for {
		h, err := wp.tasks.PopContext(wp.workerCtx)
		if err != nil {
			logger.Debug("worker stopped", zap.Error(err))
			return
		}
		if h == nil {
			logger.Debug("worker received stop marker")
			return
		}
		wp.execute(logger, h)
	}
}

// execute 执行单个任务，任务中的 panic 转换为失败结果
func (wp *WorkPool) execute(logger *zap.Logger, h *taskHandle) {
	if !h.start() {
		wp.metrics.taskSkipped()
		return
	}
	wp.metrics.taskStarted(h.waitTime())

	result, err := func() (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("task panicked: %v", r)
			}
		}()
		return h.run()
	}()

	status := h.finish(result, err)
	wp.metrics.taskFinished(status, h.executionTime())

	if err != nil {
		logger.Debug("task finished with error",
			zap.String("task", h.id),
			zap.Stringer("status", status),
			zap.Duration("elapsed", h.executionTime()),
			zap.Error(err))
		return
	}
	logger.Debug("task completed",
		zap.String("task", h.id),
		zap.Duration("elapsed", h.executionTime()))
}
