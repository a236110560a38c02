package modules

import (
	"fmt"
	"log"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/decker502/yarnview/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DialogueViewModule 对话界面模块
// 封装对话界面的全部功能：
//   - 节点树（根面板、滚动视口、日志列表）的创建
//   - 对话行写入日志、选项的显示与选择、继续输入
//   - 日志的手动滚动和自动滚动到最新内容
//   - 布局与渲染
//
// 每帧 Update 的固定顺序：
//
//	Runner.Update
//	→ 指针交互
//	→ [选项控件创建 → 选项输入解析/提交 → 选项拆除]
//	→ [显示面板 → 写入对话行 → 接收选项 → 继续 → 手动滚动 → 布局 → 滚动到最新]
//	→ 清理实体、清空事件
type DialogueViewModule struct {
	entityManager *ecs.EntityManager
	bus           *dialogue.EventBus
	runners       []dialogue.Runner
	tree          *entities.DialogueViewTree
	state         *components.OptionSelectionState

	interactionSystem     *systems.UIInteractionSystem
	optionSelectionSystem *systems.OptionSelectionSystem
	linePresenterSystem   *systems.LinePresenterSystem
	continueSystem        *systems.ContinueSystem
	logScrollSystem       *systems.LogScrollSystem
	layoutSystem          *systems.DialogueLayoutSystem
	renderSystem          *systems.DialogueRenderSystem

	// measureByFace 文本测量跟随字体（未注入自定义 Measurer）
	measureByFace bool
}

// DialogueViewOptions 创建模块的可选依赖
type DialogueViewOptions struct {
	// Config 界面配置（nil 使用默认配置）
	Config *config.DialogueViewConfig

	// Face 渲染字体（nil 时只布局不绘制文本）
	Face text.Face

	// Measurer 文本测量（nil 时基于 Face 测量）
	Measurer systems.TextMeasurer

	// Input 输入（nil 使用 Ebitengine 输入）
	Input systems.DialogueInput

	// Metrics 指标（nil 使用全局 MeterProvider）
	Metrics *observe.Metrics

	// WindowWidth, WindowHeight 逻辑屏幕尺寸（0 使用默认值）
	WindowWidth, WindowHeight int
}

// NewDialogueViewModule 创建对话界面模块
//
// 参数:
//   - em: EntityManager 实例
//   - bus: 帧事件总线（Runner 向它发送事件）
//   - runners: 驱动对话的 Runner（至少一个）
//   - opts: 可选依赖
//
// 返回:
//   - *DialogueViewModule: 新创建的模块实例
//   - error: 参数不合法
func NewDialogueViewModule(em *ecs.EntityManager, bus *dialogue.EventBus, runners []dialogue.Runner, opts DialogueViewOptions) (*DialogueViewModule, error) {
	if em == nil || bus == nil {
		return nil, fmt.Errorf("entity manager and event bus are required")
	}
	if len(runners) == 0 {
		return nil, fmt.Errorf("at least one dialogue runner is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultDialogueViewConfig()
	}
	if _, err := cfg.ParseColors(); err != nil {
		return nil, fmt.Errorf("invalid dialogue view config: %w", err)
	}

	input := opts.Input
	if input == nil {
		input = systems.DefaultDialogueInput()
	}
	measurer := opts.Measurer
	if measurer == nil {
		if opts.Face == nil {
			return nil, fmt.Errorf("either a font face or a text measurer is required")
		}
		measurer = systems.NewFaceTextMeasurer(opts.Face)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	width, height := opts.WindowWidth, opts.WindowHeight
	if width == 0 || height == 0 {
		width, height = config.GameWindowWidth, config.GameWindowHeight
	}

	tree := entities.NewDialogueViewTree(em, cfg)
	state := &components.OptionSelectionState{}

	m := &DialogueViewModule{
		entityManager: em,
		bus:           bus,
		runners:       runners,
		tree:          tree,
		state:         state,

		interactionSystem:     systems.NewUIInteractionSystem(em, tree.Root, input),
		optionSelectionSystem: systems.NewOptionSelectionSystem(em, tree, bus, cfg, input, runners, state, metrics),
		linePresenterSystem:   systems.NewLinePresenterSystem(em, tree, bus, cfg, metrics),
		continueSystem:        systems.NewContinueSystem(input, runners, state, metrics),
		logScrollSystem:       systems.NewLogScrollSystem(em, tree, input, metrics, cfg.ScrollLinePixels),
		layoutSystem:          systems.NewDialogueLayoutSystem(em, tree.Root, measurer, cfg.LineHeight, float64(width), float64(height)),
		renderSystem:          systems.NewDialogueRenderSystem(em, tree.Root, opts.Face, cfg.LineHeight),
		measureByFace:         opts.Measurer == nil,
	}

	log.Printf("[DialogueViewModule] Initialized with %d runner(s), screen %dx%d", len(runners), width, height)
	return m, nil
}

// Update 推进一帧
// Runner 报错或选择被拒绝（对话状态不同步）时返回错误，调用方应结束游戏循环
func (m *DialogueViewModule) Update(deltaTime float64) error {
	for i, runner := range m.runners {
		if err := runner.Update(deltaTime); err != nil {
			return fmt.Errorf("dialogue runner %d update failed: %w", i, err)
		}
	}

	m.interactionSystem.Update()

	// 选项链
	m.optionSelectionSystem.CreateWidgets()
	if err := m.optionSelectionSystem.ResolveInput(); err != nil {
		return fmt.Errorf("option selection failed: %w", err)
	}
	m.optionSelectionSystem.Teardown()

	// 对话行链
	m.linePresenterSystem.ShowDialogue()
	m.linePresenterSystem.PresentLines()
	m.optionSelectionSystem.CaptureOptions()
	m.continueSystem.Update()
	m.logScrollSystem.HandleScrollInput()
	m.layoutSystem.Update()
	if m.logScrollSystem.ScrollToNewest() {
		// 滚动位置变化后重新布局，本帧绘制即为最新位置
		m.layoutSystem.Update()
	}

	m.entityManager.RemoveMarkedEntities()
	m.state.EndFrame()
	m.bus.EndFrame()
	return nil
}

// Draw 绘制对话界面
func (m *DialogueViewModule) Draw(screen *ebiten.Image) {
	m.renderSystem.Draw(screen)
}

// SetScrollLinePixels 修改滚轮每行的像素数
func (m *DialogueViewModule) SetScrollLinePixels(pixels float64) {
	m.logScrollSystem.SetLinePixels(pixels)
}

// SetFont 替换字体和行高
func (m *DialogueViewModule) SetFont(face text.Face, lineHeight float64) {
	m.renderSystem.SetFace(face, lineHeight)
	m.layoutSystem.SetLineHeight(lineHeight)
	if m.measureByFace && face != nil {
		m.layoutSystem.SetMeasurer(systems.NewFaceTextMeasurer(face))
	}
}

// Tree 返回对话界面的固定节点
func (m *DialogueViewModule) Tree() *entities.DialogueViewTree {
	return m.tree
}

// SelectionState 返回选项选择状态
func (m *DialogueViewModule) SelectionState() *components.OptionSelectionState {
	return m.state
}

// ScrollPosition 返回日志的当前滚动位置
func (m *DialogueViewModule) ScrollPosition() float64 {
	scroll := entities.MustGetComponent[*components.DialogueLogComponent](m.entityManager, m.tree.DialogueLog, "dialogue log")
	return scroll.Position
}

// MaxScroll 返回日志的最大滚动距离
func (m *DialogueViewModule) MaxScroll() float64 {
	return m.logScrollSystem.MaxScroll()
}

// LogTexts 按顺序返回日志中的所有文本条目（不含选项）
func (m *DialogueViewModule) LogTexts() []string {
	node := entities.MustGetComponent[*components.UINodeComponent](m.entityManager, m.tree.DialogueLog, "dialogue log")
	texts := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		if txt, ok := ecs.GetComponent[*components.UITextComponent](m.entityManager, child); ok {
			texts = append(texts, txt.Text)
		}
	}
	return texts
}

// IsVisible 对话面板是否显示
func (m *DialogueViewModule) IsVisible() bool {
	vis := entities.MustGetComponent[*components.UIVisibilityComponent](m.entityManager, m.tree.Root, "root")
	return vis.Visible
}
