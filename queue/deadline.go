package queue

import (
	"context"
	"time"
)

// Deadline 是操作必须放弃等待的绝对时间点
// 在调用开始时计算一次，同时用于获取锁和等待条件两个阶段
type Deadline struct {
	at time.Time
}

// NewDeadline 根据相对超时时间创建截止时间
func NewDeadline(timeout time.Duration) Deadline {
	return Deadline{at: time.Now().Add(timeout)}
}

// Remaining 返回距离截止还剩的时间，已过期时返回0
func (d Deadline) Remaining() time.Duration {
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}

// Expired 返回截止时间是否已到
func (d Deadline) Expired() bool {
	return !time.Now().Before(d.at)
}

// Context 返回在截止时间结束的上下文
func (d Deadline) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithDeadline(parent, d.at)
}

// deadlineOf 返回 ctx 携带的截止时间
func deadlineOf(ctx context.Context) (Deadline, bool) {
	at, ok := ctx.Deadline()
	return Deadline{at: at}, ok
}

// checkDeadline 在获得锁之后调用，判断截止时间是否已经在抢锁过程中耗尽
// ctx 的定时器可能略晚于截止时间触发，因此同时比较墙钟
func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d, ok := deadlineOf(ctx); ok && d.Expired() {
		return context.DeadlineExceeded
	}
	return nil
}
