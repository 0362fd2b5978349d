package queue

import "go.uber.org/zap"

// WakePolicy 决定条件满足时唤醒等待者的方式
type WakePolicy int

const (
	// WakeAll 唤醒所有等待者，每个等待者自行重新检查条件
	WakeAll WakePolicy = iota

	// WakeOne 只唤醒等待最久的一个，消费后若条件仍成立则继续传递唤醒
	WakeOne
)

// String 返回唤醒策略的字符串表示
func (p WakePolicy) String() string {
	switch p {
	case WakeAll:
		return "all"
	case WakeOne:
		return "one"
	default:
		return "unknown"
	}
}

// ParseWakePolicy 将字符串解析为唤醒策略
func ParseWakePolicy(s string) (WakePolicy, bool) {
	switch s {
	case "all", "broadcast", "":
		return WakeAll, true
	case "one", "signal":
		return WakeOne, true
	default:
		return WakeAll, false
	}
}

// Options 定义队列的配置选项
type Options struct {
	// 底层环形缓冲区的初始大小，无界队列会按需翻倍扩容
	InitialSize int

	// 唤醒策略，默认 WakeAll
	WakePolicy WakePolicy

	// 日志记录器，默认不输出
	Logger *zap.Logger

	// 事件监听器列表
	EventListeners []EventListener
}

// Option 函数类型用于设置队列选项
type Option func(*Options)

// DefaultOptions 返回默认的队列选项
func DefaultOptions() *Options {
	return &Options{
		InitialSize: 16,
		WakePolicy:  WakeAll,
		Logger:      zap.NewNop(),
	}
}

func buildOptions(options []Option) *Options {
	opts := DefaultOptions()
	for _, opt := range options {
		opt(opts)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

// WithInitialSize 设置底层缓冲区的初始大小
func WithInitialSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.InitialSize = size
		}
	}
}

// WithWakePolicy 设置唤醒策略
func WithWakePolicy(policy WakePolicy) Option {
	return func(o *Options) {
		o.WakePolicy = policy
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEventListener 添加事件监听器
func WithEventListener(listener EventListener) Option {
	return func(o *Options) {
		o.EventListeners = append(o.EventListeners, listener)
	}
}
