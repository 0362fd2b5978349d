package queueservice

import (
	"context"
	"strings"
	"time"

	"github.com/fyerfyer/syncq/queue"
	"github.com/pkg/errors"
)

var (
	// ErrQueueNotFound 表示请求的队列不存在
	ErrQueueNotFound = errors.New("queue not found")

	// ErrQueueExists 表示队列已存在
	ErrQueueExists = errors.New("queue already exists")

	// ErrInvalidName 表示队列名称为空
	ErrInvalidName = errors.New("invalid queue name")

	// ErrUnknownKind 表示不支持的队列类型
	ErrUnknownKind = errors.New("unknown queue kind")

	// ErrServiceClosed 表示服务已关闭
	ErrServiceClosed = errors.New("queue service closed")
)

// Kind 定义队列类型
type Kind string

const (
	// KindSimple 单锁非阻塞队列
	KindSimple Kind = "simple"
	// KindTwoLock 双锁非阻塞队列
	KindTwoLock Kind = "twolock"
	// KindBlocking 无界阻塞队列
	KindBlocking Kind = "blocking"
	// KindTimed 支持超时的无界阻塞队列
	KindTimed Kind = "timed"
	// KindBounded 有界阻塞队列
	KindBounded Kind = "bounded"
)

// Kinds 返回所有支持的队列类型
func Kinds() []Kind {
	return []Kind{KindSimple, KindTwoLock, KindBlocking, KindTimed, KindBounded}
}

// ParseKind 解析队列类型，接受简写
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "s":
		return KindSimple, nil
	case "twolock", "two-lock", "tl":
		return KindTwoLock, nil
	case "blocking", "b":
		return KindBlocking, nil
	case "timed", "t":
		return KindTimed, nil
	case "bounded", "bb":
		return KindBounded, nil
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
}

// Blocking 返回该类型的出队是否可能挂起
func (k Kind) Blocking() bool {
	return k == KindBlocking || k == KindTimed || k == KindBounded
}

// QueueOptions 表示创建队列时的选项
type QueueOptions struct {
	// 队列类型
	Kind Kind
	// 队列容量，仅 bounded 类型使用
	Capacity int
	// 唤醒策略
	WakePolicy queue.WakePolicy
	// 环形缓冲区初始大小，0 使用默认值
	InitialSize int
}

// QueueInfo 包含队列的基本信息
type QueueInfo struct {
	// 队列唯一标识
	ID string
	// 队列名称
	Name string
	// 队列类型
	Kind Kind
	// 唤醒策略
	WakePolicy queue.WakePolicy
	// 创建时间
	CreatedAt time.Time
	// 队列状态
	Stats queue.Stats
}

// Handle 是各类队列的统一外观
//
// Push 和 Pop 以 ctx 的截止时间作为超时预算：
// timed 和 bounded 类型在截止前等待；blocking 类型只在 ctx 永不结束时等待，
// 否则退化为非阻塞出队；simple 和 twolock 类型从不等待。
type Handle interface {
	Push(ctx context.Context, item string) error
	Pop(ctx context.Context) (string, error)
	Len() int
	Items() []string
	Stats() queue.Stats
}

// Service 定义队列服务接口
type Service interface {
	// CreateQueue 创建一个新队列
	CreateQueue(name string, opts QueueOptions) (QueueInfo, error)

	// GetQueue 获取指定名称的队列
	GetQueue(name string) (Handle, error)

	// ListQueues 按名称顺序列出所有队列
	ListQueues() []QueueInfo

	// Info 返回单个队列的信息
	Info(name string) (QueueInfo, error)

	// PushItem 向指定队列添加项目
	PushItem(ctx context.Context, queueName string, item string) error

	// PopItem 从指定队列获取项目
	PopItem(ctx context.Context, queueName string) (string, error)

	// QueueStats 获取队列统计信息
	QueueStats(queueName string) (queue.Stats, error)

	// DeleteQueue 删除队列
	DeleteQueue(queueName string) error

	// Close 删除所有队列，之后的操作返回 ErrServiceClosed
	Close() error
}
