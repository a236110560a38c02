package entities

import (
	"log"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/utils"
)

// DialogueViewTree 对话界面的固定节点句柄
// 在场景搭建时解析一次，之后各系统直接持有，不再每帧按组件查询
type DialogueViewTree struct {
	Root        ecs.EntityID // 根面板，收到对话开始事件前隐藏
	ScrollView  ecs.EntityID // 面板背景
	Viewport    ecs.EntityID // 裁剪区域
	DialogueLog ecs.EntityID // 移动面板，所有对话条目的父节点
}

// NewDialogueViewTree 创建对话界面的节点树
//
// 参数：
//   - em: 实体管理器
//   - cfg: 界面配置（面板宽度、背景色）
//
// 返回：
//   - *DialogueViewTree: 固定节点句柄
func NewDialogueViewTree(em *ecs.EntityManager, cfg *config.DialogueViewConfig) *DialogueViewTree {
	colors := cfg.MustColors()

	root := NewUINode(em, ecs.InvalidEntity, "root", components.UILayoutComponent{
		FillHeight: true,
	})
	ecs.AddComponent(em, root, &components.UIRootComponent{})
	// 对话开始之前不显示
	MustGetComponent[*components.UIVisibilityComponent](em, root, "root").Visible = false

	scrollView := NewUINode(em, root, "scroll_view", components.UILayoutComponent{
		WidthPercent: cfg.PanelWidthPercent,
		AlignEnd:     true,
		FillHeight:   true,
	})
	ecs.AddComponent(em, scrollView, &components.UIBackgroundComponent{Color: colors.Background})

	viewport := NewUINode(em, scrollView, "list_w_hidden_overflow", components.UILayoutComponent{
		FillHeight: true,
		ClipY:      true,
	})

	dialogueLog := NewUINode(em, viewport, "moving_panel", components.UILayoutComponent{})
	ecs.AddComponent(em, dialogueLog, &components.DialogueLogComponent{Position: 0})

	log.Printf("[DialogueViewFactory] Created dialogue view tree (root=%d, log=%d, panel=%.0f%%)",
		root, dialogueLog, cfg.PanelWidthPercent)

	return &DialogueViewTree{
		Root:        root,
		ScrollView:  scrollView,
		Viewport:    viewport,
		DialogueLog: dialogueLog,
	}
}

// NewTextEntry 在 parent 末尾追加一个文本条目
func NewTextEntry(em *ecs.EntityManager, parent ecs.EntityID, text string, cfg *config.DialogueViewConfig) ecs.EntityID {
	id := NewUINode(em, parent, "text_entry", components.UILayoutComponent{
		PaddingY:       cfg.EntryPaddingY,
		MarginXPercent: cfg.EntryMarginPercent,
	})
	ecs.AddComponent(em, id, &components.UITextComponent{
		Text:  text,
		Color: cfg.MustColors().Text,
	})
	return id
}

// NewOptionsGroup 在日志末尾创建选项按钮组
func NewOptionsGroup(em *ecs.EntityManager, dialogueLog ecs.EntityID) ecs.EntityID {
	id := NewUINode(em, dialogueLog, "options", components.UILayoutComponent{})
	ecs.AddComponent(em, id, &components.UIOptionsComponent{})
	return id
}

// NewOptionButton 在选项组中创建一个可点击的选项
//
// 参数：
//   - index: 显示序号（从 1 开始）
//   - option: 运行时提供的选项
//
// 返回：
//   - ecs.EntityID: 按钮实体（标签文本是它唯一的子节点）
func NewOptionButton(em *ecs.EntityManager, group ecs.EntityID, index int, option dialogue.DialogueOption, cfg *config.DialogueViewConfig) ecs.EntityID {
	body := option.Line.TextWithoutCharacterName()

	button := NewUINode(em, group, "option_button", components.UILayoutComponent{
		PaddingY:       cfg.EntryPaddingY,
		MarginXPercent: cfg.EntryMarginPercent,
	})
	ecs.AddComponent(em, button, &components.OptionButtonComponent{
		OptionID: option.ID,
		Text:     body,
		Index:    index,
	})
	ecs.AddComponent(em, button, &components.UIComponent{State: components.UINormal})

	label := NewUINode(em, button, "option_label", components.UILayoutComponent{})
	ecs.AddComponent(em, label, &components.UITextComponent{
		Text:  utils.FormatOptionLabel(index, body),
		Color: cfg.MustColors().Option,
	})
	ecs.AddComponent(em, label, &components.OptionLabelComponent{})

	return button
}

// OptionLabel 返回按钮的标签文本组件
func OptionLabel(em *ecs.EntityManager, button ecs.EntityID) *components.UITextComponent {
	label, ok := LastChild(em, button)
	if !ok {
		panic("[DialogueView] option button has no label")
	}
	return MustGetComponent[*components.UITextComponent](em, label, "option label")
}
