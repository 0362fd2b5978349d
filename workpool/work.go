package workpool

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// TaskStatus 表示任务的当前状态
type TaskStatus int

const (
	// TaskStatusPending 表示任务正在队列中等待执行
	TaskStatusPending TaskStatus = iota
	// TaskStatusRunning 表示任务正在执行中
	TaskStatusRunning
	// TaskStatusCompleted 表示任务已成功完成
	TaskStatusCompleted
	// TaskStatusFailed 表示任务执行失败
	TaskStatusFailed
	// TaskStatusCanceled 表示任务被取消
	TaskStatusCanceled
)

// String 返回任务状态的字符串表示
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusRunning:
		return "Running"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusFailed:
		return "Failed"
	case TaskStatusCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

func (s TaskStatus) terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed || s == TaskStatusCanceled
}

// Task 是工作池中执行的任务接口
type Task interface {
	// Execute 执行任务并返回结果或错误
	Execute(ctx context.Context) (any, error)
}

// TaskFunc 是一个实现了Task接口的函数类型
type TaskFunc func(ctx context.Context) (any, error)

// Execute 实现Task接口
func (f TaskFunc) Execute(ctx context.Context) (any, error) {
	return f(ctx)
}

// TaskOption 是用于配置任务的函数选项
type TaskOption func(*taskConfig)

type taskConfig struct {
	timeout time.Duration
}

// WithTimeout 设置任务的执行超时时间，从任务开始执行时计时
func WithTimeout(timeout time.Duration) TaskOption {
	return func(tc *taskConfig) {
		tc.timeout = timeout
	}
}

// TaskHandle 表示已提交到工作池的任务，可用于检查状态和获取结果
type TaskHandle interface {
	// ID 返回任务的唯一标识符
	ID() string
	// Status 返回任务的当前状态
	Status() TaskStatus
	// Result 返回任务的结果，如果任务尚未完成则会阻塞
	Result() (any, error)
	// Cancel 取消任务，排队中的任务不会再被执行
	Cancel() error
	// Wait 等待任务完成
	Wait(ctx context.Context) error
}

// ErrTaskCanceled 是被取消任务的结果错误
var ErrTaskCanceled = errors.New("task canceled")

// taskHandle 代表一个已提交的任务，也是任务队列中的元素
type taskHandle struct {
	id          string
	task        Task
	config      taskConfig
	ctx         context.Context
	cancel      context.CancelFunc
	submittedAt time.Time

	mu        sync.RWMutex
	status    TaskStatus
	result    any
	err       error
	startTime time.Time
	endTime   time.Time
	done      chan struct{}
}

// newTaskHandle 创建一个新的任务句柄，parent 结束时任务随之取消
func newTaskHandle(parent context.Context, id string, task Task, config taskConfig) *taskHandle {
	ctx, cancel := context.WithCancel(parent)
	return &taskHandle{
		id:          id,
		task:        task,
		config:      config,
		ctx:         ctx,
		cancel:      cancel,
		submittedAt: time.Now(),
		status:      TaskStatusPending,
		done:        make(chan struct{}),
	}
}

// ID 返回任务的唯一标识符
func (h *taskHandle) ID() string {
	return h.id
}

// Status 返回任务的当前状态
func (h *taskHandle) Status() TaskStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Result 返回任务的结果，如果任务尚未完成则会阻塞
func (h *taskHandle) Result() (any, error) {
	<-h.done
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result, h.err
}

// Cancel 取消任务
func (h *taskHandle) Cancel() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status.terminal() {
		return errors.Errorf("task already in terminal state: %s", h.status)
	}

	// 运行中的任务通过 ctx 通知，由 finish 记录最终状态
	h.cancel()
	if h.status == TaskStatusPending {
		h.finishLocked(nil, ErrTaskCanceled, TaskStatusCanceled)
	}
	return nil
}

// Wait 等待任务完成
func (h *taskHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// start 将排队中的任务标记为运行中，已取消的任务返回 false
func (h *taskHandle) start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != TaskStatusPending {
		return false
	}
	h.status = TaskStatusRunning
	h.startTime = time.Now()
	return true
}

// run 在工作协程中执行任务
func (h *taskHandle) run() (any, error) {
	ctx := h.ctx
	if h.config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.timeout)
		defer cancel()
	}
	return h.task.Execute(ctx)
}

// finish 记录执行结果并返回最终状态
func (h *taskHandle) finish(result any, err error) TaskStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := TaskStatusCompleted
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		status = TaskStatusCanceled
	case err != nil:
		status = TaskStatusFailed
	}
	h.finishLocked(result, err, status)
	return status
}

func (h *taskHandle) finishLocked(result any, err error, status TaskStatus) {
	if h.status.terminal() {
		return
	}
	h.endTime = time.Now()
	h.result = result
	h.err = err
	h.status = status
	h.cancel()
	close(h.done)
}

// waitTime 返回任务在队列中等待的时间
func (h *taskHandle) waitTime() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.startTime.IsZero() {
		return time.Since(h.submittedAt)
	}
	return h.startTime.Sub(h.submittedAt)
}

// executionTime 返回任务的执行时间
func (h *taskHandle) executionTime() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.startTime.IsZero() {
		return 0
	}
	if h.endTime.IsZero() {
		return time.Since(h.startTime)
	}
	return h.endTime.Sub(h.startTime)
}
