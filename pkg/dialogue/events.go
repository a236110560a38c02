package dialogue

// DialogueStartEvent 对话开始
type DialogueStartEvent struct{}

// PresentLineEvent 一行台词已就绪
type PresentLineEvent struct {
	Line Line
}

// PresentOptionsEvent 一组选项已就绪（包含不可用选项）
type PresentOptionsEvent struct {
	Options []DialogueOption
}

// DialogueCompleteEvent 对话结束
type DialogueCompleteEvent struct{}

// Events 单一类型的帧内事件队列
//
// 事件只在写入它的那一帧内有效：写入方 Send，读取方 Read（不消费），
// 需要"消费"语义的系统调用 Clear。EventBus.EndFrame 在帧末清空所有队列。
type Events[T any] struct {
	pending []T
}

// Send 追加一个事件
func (e *Events[T]) Send(event T) {
	e.pending = append(e.pending, event)
}

// Read 返回本帧所有事件（按写入顺序）
func (e *Events[T]) Read() []T {
	return e.pending
}

// IsEmpty 本帧是否没有事件
func (e *Events[T]) IsEmpty() bool {
	return len(e.pending) == 0
}

// Len 本帧事件数量
func (e *Events[T]) Len() int {
	return len(e.pending)
}

// Clear 清空队列
func (e *Events[T]) Clear() {
	e.pending = e.pending[:0]
}

// EventBus 运行时与视图之间共享的帧内事件总线
type EventBus struct {
	DialogueStarted  Events[DialogueStartEvent]
	LineReady        Events[PresentLineEvent]
	OptionsReady     Events[PresentOptionsEvent]
	DialogueComplete Events[DialogueCompleteEvent]
}

// NewEventBus 创建事件总线
func NewEventBus() *EventBus {
	return &EventBus{}
}

// EndFrame 帧末清空所有事件
func (b *EventBus) EndFrame() {
	b.DialogueStarted.Clear()
	b.LineReady.Clear()
	b.OptionsReady.Clear()
	b.DialogueComplete.Clear()
}
