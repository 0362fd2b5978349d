package queue

import (
	"context"
	"errors"
)

var (
	// ErrEmptyQueue 表示非阻塞出队时队列为空
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrQueueFull 表示非阻塞入队时有界队列已满
	ErrQueueFull = errors.New("queue is full")

	// ErrTimeout 表示限时操作未能在给定时间内完成（获取锁或等待条件）
	ErrTimeout = errors.New("operation timeout")

	// ErrCanceled 表示操作在完成前被上下文取消
	ErrCanceled = errors.New("operation canceled")

	// ErrInvalidCapacity 表示指定的队列容量无效
	ErrInvalidCapacity = errors.New("invalid queue capacity")
)

// contextErr 将上下文错误映射为队列错误
func contextErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	default:
		return err
	}
}
