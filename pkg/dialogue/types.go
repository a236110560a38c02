// Package dialogue 定义对话视图与对话脚本运行时之间的契约
//
// 运行时（Runner）只通过事件（开始、台词、选项、结束）向视图推送内容，
// 视图只通过 StartNode / Continue / SelectOption 向运行时回送指令。
// 视图不持有任何运行时内部状态（节点图、变量等）。
package dialogue

import (
	"regexp"
	"strings"
)

// OptionID 选项的不透明标识符，由运行时分配
type OptionID int

// characterNamePattern 匹配 "Name: text" 形式的角色前缀
// 角色名不能包含冒号，冒号后的空白会被一并去掉
var characterNamePattern = regexp.MustCompile(`^([^:\n]+?):\s*`)

// Line 运行时产出的一行本地化文本
type Line struct {
	// ID 行标识（脚本中的 line id，可为空）
	ID string
	// Text 完整文本，包含可能的 "Name: " 前缀
	Text string
}

// NewLine 创建一行文本
func NewLine(id, text string) Line {
	return Line{ID: id, Text: text}
}

// CharacterName 返回行首的角色名
// 没有角色前缀时返回 ("", false)
func (l Line) CharacterName() (string, bool) {
	match := characterNamePattern.FindStringSubmatch(l.Text)
	if match == nil {
		return "", false
	}
	name := strings.TrimSpace(match[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// TextWithoutCharacterName 返回去掉角色前缀后的文本
func (l Line) TextWithoutCharacterName() string {
	if _, ok := l.CharacterName(); !ok {
		return l.Text
	}
	return characterNamePattern.ReplaceAllString(l.Text, "")
}

// DialogueOption 运行时提供的一个可选分支
// 从 PresentOptionsEvent 中原样获得，捕获后不再修改
type DialogueOption struct {
	ID          OptionID
	Line        Line
	IsAvailable bool
}

// AvailableOptions 过滤出可用选项，保持运行时给出的顺序
// 返回新切片，不修改入参
func AvailableOptions(options []DialogueOption) []DialogueOption {
	available := make([]DialogueOption, 0, len(options))
	for _, option := range options {
		if option.IsAvailable {
			available = append(available, option)
		}
	}
	return available
}

// Runner 对话运行时的一个会话实例
//
// 实现方必须满足:
//   - Update 每帧调用一次，在视图系统之前执行，事件写入构造时传入的 EventBus
//   - Continue 只登记"下一次 Update 时推进"，同一帧内多次调用等价于一次
//   - SelectOption 对未提供或不可用的 id 返回错误
type Runner interface {
	// StartNode 从指定节点开始对话
	StartNode(name string) error
	// Update 运行时自身的每帧更新
	Update(deltaTime float64) error
	// Continue 请求在下一次 Update 时推进到下一拍
	Continue()
	// SelectOption 选择当前提供的选项
	SelectOption(id OptionID) error
	// IsRunning 对话是否正在进行
	IsRunning() bool
	// IsWaitingForOptionSelection 是否正在等待玩家选择
	IsWaitingForOptionSelection() bool
}
