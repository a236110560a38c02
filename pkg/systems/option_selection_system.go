package systems

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/hajimehoshi/ebiten/v2"
)

// OptionSelectionSystem 选项选择状态机
//
// 每帧调用顺序（由 DialogueViewModule 保证）：
//
//	CreateWidgets → ResolveInput → Teardown → ... → CaptureOptions
//
// 状态转换：
//   - CaptureOptions：Inactive → Presenting（有可用选项且有运行中的 Runner）
//   - ResolveInput：Presenting → Resolving（快捷键或指针选中一个选项）
//   - Teardown：Resolving 或收到对话结束事件 → Inactive
type OptionSelectionSystem struct {
	entityManager *ecs.EntityManager
	tree          *entities.DialogueViewTree
	bus           *dialogue.EventBus
	config        *config.DialogueViewConfig
	colors        config.DialogueColors
	input         DialogueInput
	runners       []dialogue.Runner
	state         *components.OptionSelectionState
	metrics       *observe.Metrics
}

// NewOptionSelectionSystem 创建选项选择系统
func NewOptionSelectionSystem(
	em *ecs.EntityManager,
	tree *entities.DialogueViewTree,
	bus *dialogue.EventBus,
	cfg *config.DialogueViewConfig,
	input DialogueInput,
	runners []dialogue.Runner,
	state *components.OptionSelectionState,
	metrics *observe.Metrics,
) *OptionSelectionSystem {
	return &OptionSelectionSystem{
		entityManager: em,
		tree:          tree,
		bus:           bus,
		config:        cfg,
		colors:        cfg.MustColors(),
		input:         input,
		runners:       runners,
		state:         state,
		metrics:       metrics,
	}
}

// CaptureOptions 接收本帧的选项就绪事件
// 同一帧有多个事件时以最后一个为准
func (s *OptionSelectionSystem) CaptureOptions() {
	events := s.bus.OptionsReady.Read()
	if len(events) == 0 {
		return
	}
	ev := events[len(events)-1]

	if !anyRunning(s.runners) {
		log.Printf("[OptionSelectionSystem] WARNING: options ready but no dialogue runner is running, ignoring %d options", len(ev.Options))
		return
	}

	available := dialogue.AvailableOptions(ev.Options)
	if len(available) == 0 {
		log.Printf("[OptionSelectionSystem] WARNING: none of the %d offered options is available in node %s, dialogue cannot advance",
			len(ev.Options), currentNodes(s.runners))
		s.metrics.RecordEmptyOptionSet(context.Background(), len(ev.Options))
		return
	}

	if s.state.IsPending() {
		log.Printf("[OptionSelectionSystem] WARNING: new options arrived while %s, replacing previous options", s.state.Phase)
		s.despawnWidgets()
	}

	s.state.Phase = components.SelectionPresenting
	s.state.Options = available
	s.state.WidgetsPending = true
	s.state.SelectedID = 0

	log.Printf("[OptionSelectionSystem] Presenting %d options (%d offered)", len(available), len(ev.Options))
	s.metrics.RecordOptionSet(context.Background(), len(available))
}

// CreateWidgets 进入 Presenting 后的第一帧生成选项按钮
func (s *OptionSelectionSystem) CreateWidgets() {
	if s.state.Phase != components.SelectionPresenting || !s.state.WidgetsPending {
		return
	}
	s.state.WidgetsPending = false

	group := entities.NewOptionsGroup(s.entityManager, s.tree.DialogueLog)
	for i, option := range s.state.Options {
		entities.NewOptionButton(s.entityManager, group, i+1, option, s.config)
	}
}

// ResolveInput 把本帧的输入解析为一个选择并提交给所有 Runner
//
// 优先级：数字快捷键 > 指针按下 > 悬停（只改变外观）。
// 指针按下会高亮条目并以玩家身份回显，快捷键不写日志。
// 本帧收到对话结束事件时不处理，由 Teardown 直接拆除。
// Runner 拒绝选择说明对话状态不同步，返回错误。
func (s *OptionSelectionSystem) ResolveInput() error {
	if s.state.Phase != components.SelectionPresenting || !s.bus.DialogueComplete.IsEmpty() {
		return nil
	}

	var (
		selected dialogue.OptionID
		hasValue bool
		source   string
		echoText string
	)

	// 1. 快捷键：按显示位置选择，多个键同时按下时位置靠前的优先
	for i, keys := range OptionHotkeys {
		if i >= len(s.state.Options) || i >= config.MaxOptionHotkeys {
			break
		}
		if s.input.IsKeyJustPressed(keys[0]) || s.input.IsKeyJustPressed(keys[1]) {
			option := s.state.Options[i]
			selected, hasValue, source = option.ID, true, observe.SelectionSourceHotkey
			break
		}
	}

	// 2. 指针：只处理本帧状态变化的按钮
	buttons := ecs.GetEntitiesWith2[*components.OptionButtonComponent, *components.UIComponent](s.entityManager)
	anyChanged := false
	pointerOverOption := false
	for _, id := range buttons {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		ui, _ := ecs.GetComponent[*components.UIComponent](s.entityManager, id)
		if ui.State == components.UIHovered || ui.State == components.UIPressed {
			pointerOverOption = true
		}
		if !ui.Changed {
			continue
		}
		anyChanged = true

		button, _ := ecs.GetComponent[*components.OptionButtonComponent](s.entityManager, id)
		label := entities.OptionLabel(s.entityManager, id)

		switch {
		case ui.State == components.UIPressed && !hasValue:
			selected, hasValue, source = button.OptionID, true, observe.SelectionSourcePointer
			echoText = button.Text
			label.Color = s.colors.OptionSelected
		case ui.State == components.UIHovered:
			label.Color = s.colors.OptionHover
		default:
			label.Color = s.colors.Option
		}
	}

	if anyChanged {
		if pointerOverOption && !hasValue {
			s.input.SetCursorShape(ebiten.CursorShapePointer)
		} else {
			s.input.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}

	if !hasValue {
		return nil
	}

	// 只有指针选择回显到日志
	if source == observe.SelectionSourcePointer {
		WriteDialogueLine(s.entityManager, s.tree, s.config, s.config.PlayerSpeakerName, echoText)
	}
	return s.commit(selected, source)
}

// commit 把选择转发给所有 Runner
func (s *OptionSelectionSystem) commit(id dialogue.OptionID, source string) error {
	log.Printf("[OptionSelectionSystem] Selected option %d via %s", id, source)

	for i, runner := range s.runners {
		if err := runner.SelectOption(id); err != nil {
			return fmt.Errorf("dialogue runner %d rejected option %d: %w", i, id, err)
		}
	}

	s.state.Phase = components.SelectionResolving
	s.state.SelectedID = id
	s.state.SelectionMade = true
	s.metrics.RecordSelection(context.Background(), source)
	return nil
}

// Teardown 本帧已选择或对话结束时移除选项并回到 Inactive
// 什么都不存在时是空操作
func (s *OptionSelectionSystem) Teardown() {
	completed := !s.bus.DialogueComplete.IsEmpty()
	if !s.state.SelectionMade && !completed {
		return
	}

	hadWidgets := s.despawnWidgets()
	wasPending := s.state.IsPending()
	s.state.Reset()

	if !hadWidgets && !wasPending {
		return
	}

	reason := observe.TeardownReasonSelected
	if !s.state.SelectionMade {
		reason = observe.TeardownReasonComplete
	}
	log.Printf("[OptionSelectionSystem] Options removed (%s)", reason)
	s.input.SetCursorShape(ebiten.CursorShapeDefault)
	s.metrics.RecordTeardown(context.Background(), reason)
}

// despawnWidgets 移除所有选项按钮组，返回是否移除了任何东西
func (s *OptionSelectionSystem) despawnWidgets() bool {
	removed := false
	for _, group := range ecs.GetEntitiesWith1[*components.UIOptionsComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(group) {
			continue
		}
		entities.DespawnRecursive(s.entityManager, group)
		removed = true
	}
	return removed
}

// State 返回选择状态（只读使用）
func (s *OptionSelectionSystem) State() *components.OptionSelectionState {
	return s.state
}

// nodeReporter Runner 可选实现，用于在日志中定位脚本节点
type nodeReporter interface {
	CurrentNode() string
}

// currentNodes 返回运行中 Runner 的当前节点名，逗号分隔；无法获取时返回 "<unknown>"
func currentNodes(runners []dialogue.Runner) string {
	var names []string
	for _, r := range runners {
		nr, ok := r.(nodeReporter)
		if !ok || !r.IsRunning() || nr.CurrentNode() == "" {
			continue
		}
		names = append(names, strconv.Quote(nr.CurrentNode()))
	}
	if len(names) == 0 {
		return "<unknown>"
	}
	return strings.Join(names, ", ")
}

func anyRunning(runners []dialogue.Runner) bool {
	for _, r := range runners {
		if r.IsRunning() {
			return true
		}
	}
	return false
}
