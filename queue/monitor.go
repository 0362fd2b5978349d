package queue

import "context"

// monitor 把一把锁和它的等待条件封装在一起
// 条件只能通过 newCondition 创建，因此不可能与其他锁配对
type monitor struct {
	mu     *lock
	policy WakePolicy
	stats  *counters
}

func newMonitor(policy WakePolicy, stats *counters) *monitor {
	return &monitor{
		mu:     newLock(),
		policy: policy,
		stats:  stats,
	}
}

func (m *monitor) newCondition() *condition {
	return newCondition(m.mu)
}

// await 在持有锁时调用，挂起直到 ready 返回 true 或 ctx 结束
// 每次唤醒后都重新检查 ready，返回时总是持有锁
func (m *monitor) await(ctx context.Context, c *condition, ready func() bool) error {
	for !ready() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.wait(ctx); err != nil {
			continue
		}
		m.stats.wakeups.Add(1)
		if !ready() {
			m.stats.spurious.Add(1)
		}
	}
	return nil
}

// wake 在条件由假变真时调用
func (m *monitor) wake(c *condition) {
	if m.policy == WakeOne {
		c.signal()
		return
	}
	c.broadcast()
}

// relay 在消费后条件仍然成立时调用
// WakeAll 下所有等待者已被唤醒，无需再次通知
func (m *monitor) relay(c *condition) {
	if m.policy == WakeOne {
		c.signal()
	}
}
