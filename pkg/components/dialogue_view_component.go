package components

import (
	"github.com/decker502/yarnview/pkg/dialogue"
)

// UIRootComponent 标记对话界面的根面板
// 根面板在第一次收到对话开始事件之前保持隐藏
type UIRootComponent struct{}

// DialogueLogComponent 标记承载所有对话文本的日志列表（可滚动的移动面板）
//
// 布局:
//
//	root
//	└── scroll_view            面板背景
//	    └── viewport           ClipY = true，高度固定
//	        └── dialogue_log   DialogueLogComponent，Top = Position
//	            ├── 文本条目...
//	            └── options    UIOptionsComponent（仅在选择期间存在）
type DialogueLogComponent struct {
	// Position 当前滚动位置（像素）
	// 恒定满足 -maxScroll <= Position <= 0，
	// 其中 maxScroll = max(0, 内容高度 - 视口高度)
	Position float64
}

// UIOptionsComponent 标记选项按钮组（选项按钮的父节点）
type UIOptionsComponent struct{}

// OptionButtonComponent 一个可点击的选项条目
type OptionButtonComponent struct {
	// OptionID 运行时分配的选项标识
	OptionID dialogue.OptionID

	// Text 选项原文（去掉角色名），玩家选择后回显到日志
	Text string

	// Index 选项在显示顺序中的位置（从 1 开始），与数字快捷键对应
	Index int
}

// OptionLabelComponent 标记选项按钮内的文本节点
type OptionLabelComponent struct{}

// SelectionPhase 选项选择状态机的阶段
type SelectionPhase int

const (
	// SelectionInactive 没有待选择的选项
	SelectionInactive SelectionPhase = iota

	// SelectionPresenting 选项已就绪（或已显示），等待玩家输入
	SelectionPresenting

	// SelectionResolving 本帧已提交选择，等待拆除
	SelectionResolving
)

// String 返回 SelectionPhase 的字符串表示
func (p SelectionPhase) String() string {
	switch p {
	case SelectionInactive:
		return "Inactive"
	case SelectionPresenting:
		return "Presenting"
	case SelectionResolving:
		return "Resolving"
	default:
		return "Unknown"
	}
}

// OptionSelectionState 选项选择状态（全局唯一，由 DialogueViewModule 持有）
//
// 生命周期:
//  1. 收到选项就绪事件 → Presenting，WidgetsPending = true
//  2. 下一次选项控件创建步骤消费 WidgetsPending，生成按钮
//  3. 玩家选择 → Resolving；同帧拆除步骤 → Inactive
//  4. 对话结束事件在任何阶段都会强制回到 Inactive
//
// 状态转换逻辑在 systems.OptionSelectionSystem 中实现。
type OptionSelectionState struct {
	// Phase 当前阶段
	Phase SelectionPhase

	// Options 可用选项（已过滤，保持运行时顺序），仅在 Presenting/Resolving 期间有效
	Options []dialogue.DialogueOption

	// WidgetsPending 刚进入 Presenting，选项控件尚未创建
	WidgetsPending bool

	// SelectedID Resolving 阶段记录的已选选项
	SelectedID dialogue.OptionID

	// SelectionMade 本帧已提交选择，拆除步骤据此移除选项
	// 拆除后仍保持到帧末，同一次点击不会再被当作"继续"
	SelectionMade bool
}

// IsPending 是否有尚未完成的选择（Presenting 或 Resolving）
// 存在待选择时，通用的"继续"输入被屏蔽
func (s *OptionSelectionState) IsPending() bool {
	return s.Phase != SelectionInactive
}

// BlocksContinue 本帧是否屏蔽"继续"输入
func (s *OptionSelectionState) BlocksContinue() bool {
	return s.IsPending() || s.SelectionMade
}

// EndFrame 清除帧内标记
func (s *OptionSelectionState) EndFrame() {
	s.SelectionMade = false
}

// Reset 回到 Inactive
func (s *OptionSelectionState) Reset() {
	s.Phase = SelectionInactive
	s.Options = nil
	s.WidgetsPending = false
	s.SelectedID = 0
}
