package queue

import (
	"context"
	"sync"
)

// condition 是绑定到某把 lock 上的等待条件
// 与 sync.Cond 相比支持按上下文截止时间放弃等待
type condition struct {
	l *lock

	// mu 只保护等待者列表，通知方无需持有 l
	mu      sync.Mutex
	waiters []chan struct{}
}

func newCondition(l *lock) *condition {
	return &condition{l: l}
}

// wait 必须在持有 l 时调用
// 登记等待者后释放 l，被通知或 ctx 结束后重新获得 l 再返回
// 返回 nil 只表示被唤醒，不代表条件成立，调用方必须重新检查
func (c *condition) wait(ctx context.Context) error {
	ch := make(chan struct{})

	// 在释放 l 之前登记，之后的通知不会丢失
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	c.l.Unlock()

	var err error
	select {
	case <-ch:
	case <-ctx.Done():
		// 若已被通知方移出列表，按唤醒处理，避免吞掉 signal
		if c.remove(ch) {
			err = ctx.Err()
		}
	}

	c.l.Lock()
	return err
}

// remove 将等待者移出列表，返回是否仍在列表中
func (c *condition) remove(ch chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// signal 唤醒等待最久的一个等待者，没有等待者时什么也不做
func (c *condition) signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) == 0 {
		return
	}
	close(c.waiters[0])
	c.waiters[0] = nil
	c.waiters = c.waiters[1:]
}

// broadcast 唤醒所有等待者，没有等待者时什么也不做
func (c *condition) broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

// waiting 返回当前登记的等待者数量
func (c *condition) waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
