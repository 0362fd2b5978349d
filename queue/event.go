package queue

// EventType 表示队列事件的类型
type EventType int

const (
	// EventPush 元素入队事件
	EventPush EventType = iota

	// EventPop 元素出队事件
	EventPop

	// EventFull 有界队列变满事件
	EventFull

	// EventEmpty 队列变空事件
	EventEmpty

	// EventTimeout 限时操作超时事件
	EventTimeout
)

// String 返回事件类型的字符串表示
func (t EventType) String() string {
	switch t {
	case EventPush:
		return "push"
	case EventPop:
		return "pop"
	case EventFull:
		return "full"
	case EventEmpty:
		return "empty"
	case EventTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// OpState 表示限时操作所处的阶段
type OpState int

const (
	// StateNone 用于不属于限时操作的事件
	StateNone OpState = iota
	StateAcquiringLock
	StateWaiting
)

// String 返回操作阶段的字符串表示
func (s OpState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateAcquiringLock:
		return "acquiring-lock"
	case StateWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Event 表示队列中发生的事件
type Event struct {
	// 事件类型
	Type EventType

	// 事件发生时队列中的元素数量
	Size int

	// 与事件相关联的元素（如果有）
	Item any

	// 超时事件发生时操作所处的阶段
	State OpState

	// 与事件相关联的错误（如果有）
	Err error
}

// EventListener 是接收队列事件的函数
// 监听器在队列锁释放之后被调用，可以安全地访问队列
type EventListener func(Event)

// EventEmitter 提供事件通知功能，监听器列表在构造后不可变
type EventEmitter struct {
	listeners []EventListener
}

// NewEventEmitter 创建一个新的事件发射器
func NewEventEmitter(listeners []EventListener) *EventEmitter {
	cp := make([]EventListener, len(listeners))
	copy(cp, listeners)
	return &EventEmitter{listeners: cp}
}

// Emit 发送事件给所有监听器
func (e *EventEmitter) Emit(evt Event) {
	for _, listener := range e.listeners {
		listener(evt)
	}
}

// enabled 返回是否存在监听器，用于跳过无用的事件构造
func (e *EventEmitter) enabled() bool {
	return len(e.listeners) > 0
}
