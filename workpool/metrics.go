package workpool

import (
	"sync/atomic"
	"time"

	"github.com/fyerfyer/syncq/queue"
)

// Metrics 是工作池运行时指标的快照
type Metrics struct {
	// 任务相关指标
	SubmittedTasks uint64        // 成功入队的任务数
	RejectedTasks  uint64        // 因超时或取消未能入队的任务数
	CompletedTasks uint64        // 已完成任务数
	FailedTasks    uint64        // 失败任务数
	CanceledTasks  uint64        // 取消任务数
	QueuedTasks    int           // 当前排队任务数
	AvgWaitTime    time.Duration // 平均排队时间
	AvgProcessTime time.Duration // 平均处理时间

	// 工作协程状态
	ActiveWorkers int32
	TotalWorkers  int32

	// 任务队列的统计信息
	Queue queue.Stats
}

// WorkerUtilization 计算工作协程的利用率 (0.0-1.0)
func (m Metrics) WorkerUtilization() float64 {
	if m.TotalWorkers == 0 {
		return 0
	}
	return float64(m.ActiveWorkers) / float64(m.TotalWorkers)
}

// TaskSuccessRate 计算任务成功率 (0.0-1.0)
func (m Metrics) TaskSuccessRate() float64 {
	total := m.CompletedTasks + m.FailedTasks
	if total == 0 {
		return 1
	}
	return float64(m.CompletedTasks) / float64(total)
}

// metrics 收集工作池指标，所有字段原子访问
type metrics struct {
	submitted atomic.Uint64
	rejected  atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	canceled  atomic.Uint64

	started          atomic.Uint64
	totalWaitTime    atomic.Int64
	totalProcessTime atomic.Int64

	active atomic.Int32
	total  atomic.Int32
}

func (m *metrics) taskStarted(wait time.Duration) {
	m.started.Add(1)
	m.totalWaitTime.Add(int64(wait))
	m.active.Add(1)
}

func (m *metrics) taskFinished(status TaskStatus, processing time.Duration) {
	m.active.Add(-1)
	switch status {
	case TaskStatusCompleted:
		m.completed.Add(1)
	case TaskStatusFailed:
		m.failed.Add(1)
	default:
		m.canceled.Add(1)
		return
	}
	m.totalProcessTime.Add(int64(processing))
}

// taskSkipped 记录出队时已被取消、未执行的任务
func (m *metrics) taskSkipped() {
	m.canceled.Add(1)
}

func (m *metrics) snapshot(stats queue.Stats) Metrics {
	snap := Metrics{
		SubmittedTasks: m.submitted.Load(),
		RejectedTasks:  m.rejected.Load(),
		CompletedTasks: m.completed.Load(),
		FailedTasks:    m.failed.Load(),
		CanceledTasks:  m.canceled.Load(),
		QueuedTasks:    stats.Size,
		ActiveWorkers:  m.active.Load(),
		TotalWorkers:   m.total.Load(),
		Queue:          stats,
	}

	if started := m.started.Load(); started > 0 {
		snap.AvgWaitTime = time.Duration(m.totalWaitTime.Load() / int64(started))
	}
	if processed := snap.CompletedTasks + snap.FailedTasks; processed > 0 {
		snap.AvgProcessTime = time.Duration(m.totalProcessTime.Load() / int64(processed))
	}
	return snap
}
