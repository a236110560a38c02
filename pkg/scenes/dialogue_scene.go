package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/yarnview/internal/script"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/embedded"
	"github.com/decker502/yarnview/pkg/game"
	"github.com/decker502/yarnview/pkg/modules"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/decker502/yarnview/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// FontSizeStep 每次按 +/- 调整的字号
	FontSizeStep = 2.0
	// ScrollStepPixels 每次按 [/] 调整的滚轮行距
	ScrollStepPixels = 5.0
)

// backdropColor 面板以外区域的底色
var backdropColor = color.RGBA{R: 16, G: 18, B: 24, A: 255}

// 字号调整按键
var (
	fontIncreaseKeys = []ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}
	fontDecreaseKeys = []ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}
)

// 滚轮行距调整按键
const (
	scrollDecreaseKey = ebiten.KeyBracketLeft
	scrollIncreaseKey = ebiten.KeyBracketRight
)

// DialogueSceneOptions 对话场景的创建参数
type DialogueSceneOptions struct {
	// ScriptPath 对话脚本路径（磁盘优先，其次嵌入资源）
	ScriptPath string
	// StartNode 起始节点（为空使用脚本的 start 字段）
	StartNode string
	// ViewConfig 界面配置（nil 使用默认配置），应已应用玩家设置
	ViewConfig *config.DialogueViewConfig
	// Settings 玩家设置（可为 nil，此时字号调整不持久化）
	Settings *game.SettingsManager

	// Input, Measurer, Metrics 测试注入（nil 使用默认实现）
	Input    systems.DialogueInput
	Measurer systems.TextMeasurer
	Metrics  *observe.Metrics
}

// DialogueScene 对话场景
// 持有 ECS、事件总线、脚本运行时和对话界面模块
type DialogueScene struct {
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	viewConfig      *config.DialogueViewConfig
	input           systems.DialogueInput

	entityManager *ecs.EntityManager
	bus           *dialogue.EventBus
	runner        *script.Runner
	dialogueView  *modules.DialogueViewModule

	fontSize         float64
	scrollLinePixels float64
}

// NewDialogueScene 创建对话场景并从起始节点开始对话
//
// 参数:
//   - rm: 资源管理器（字体）
//   - opts: 场景参数
//
// 返回:
//   - *DialogueScene: 场景实例
//   - error: 脚本读取/解析失败、起始节点不存在或界面模块创建失败
func NewDialogueScene(rm *game.ResourceManager, opts DialogueSceneOptions) (*DialogueScene, error) {
	cfg := opts.ViewConfig
	if cfg == nil {
		cfg = config.DefaultDialogueViewConfig()
	}
	scriptPath := opts.ScriptPath
	if scriptPath == "" {
		scriptPath = config.DefaultScriptPath
	}

	data, err := embedded.ReadFileOrDisk(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dialogue script: %w", err)
	}
	sc, err := script.ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue script %s: %w", scriptPath, err)
	}

	startNode := opts.StartNode
	if startNode == "" {
		startNode = sc.Start
	}

	input := opts.Input
	if input == nil {
		input = systems.DefaultDialogueInput()
	}

	em := ecs.NewEntityManager()
	bus := dialogue.NewEventBus()
	runner := script.NewRunner(sc, bus)

	face := rm.LoadDialogueFont(cfg)
	view, err := modules.NewDialogueViewModule(em, bus, []dialogue.Runner{runner}, modules.DialogueViewOptions{
		Config:   cfg,
		Face:     face,
		Measurer: opts.Measurer,
		Input:    input,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dialogue view: %w", err)
	}

	if err := runner.StartNode(startNode); err != nil {
		return nil, fmt.Errorf("failed to start dialogue: %w", err)
	}
	log.Printf("[DialogueScene] Script %s started at node %s", scriptPath, startNode)

	return &DialogueScene{
		resourceManager:  rm,
		settings:         opts.Settings,
		viewConfig:       cfg,
		input:            input,
		entityManager:    em,
		bus:              bus,
		runner:           runner,
		dialogueView:     view,
		fontSize:         cfg.FontSize,
		scrollLinePixels: cfg.ScrollLinePixels,
	}, nil
}

// Update 推进一帧
func (s *DialogueScene) Update(deltaTime float64) error {
	s.handleFontKeys()
	s.handleScrollKeys()
	return s.dialogueView.Update(deltaTime)
}

// Draw 绘制场景
func (s *DialogueScene) Draw(screen *ebiten.Image) {
	screen.Fill(backdropColor)
	s.dialogueView.Draw(screen)
}

// SaveOnExit 保存玩家设置
func (s *DialogueScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[DialogueScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

// DialogueView 返回对话界面模块
func (s *DialogueScene) DialogueView() *modules.DialogueViewModule {
	return s.dialogueView
}

// Runner 返回脚本运行时
func (s *DialogueScene) Runner() *script.Runner {
	return s.runner
}

// FontSize 返回当前字号
func (s *DialogueScene) FontSize() float64 {
	return s.fontSize
}

// ScrollLinePixels 返回当前滚轮行距
func (s *DialogueScene) ScrollLinePixels() float64 {
	return s.scrollLinePixels
}

// handleScrollKeys 处理 [/] 滚轮行距调整
func (s *DialogueScene) handleScrollKeys() {
	delta := 0.0
	if s.input.IsKeyJustPressed(scrollIncreaseKey) {
		delta = ScrollStepPixels
	}
	if s.input.IsKeyJustPressed(scrollDecreaseKey) {
		delta = -ScrollStepPixels
	}
	if delta == 0 {
		return
	}

	pixels := min(max(s.scrollLinePixels+delta, game.MinScrollLinePixels), game.MaxScrollLinePixels)
	if pixels == s.scrollLinePixels {
		return
	}
	s.scrollLinePixels = pixels
	s.dialogueView.SetScrollLinePixels(pixels)
	if s.settings != nil {
		s.settings.SetScrollLinePixels(pixels)
	}
	log.Printf("[DialogueScene] Scroll line pixels changed to %.0f", pixels)
}

// handleFontKeys 处理 +/- 字号调整
func (s *DialogueScene) handleFontKeys() {
	delta := 0.0
	for _, key := range fontIncreaseKeys {
		if s.input.IsKeyJustPressed(key) {
			delta = FontSizeStep
		}
	}
	for _, key := range fontDecreaseKeys {
		if s.input.IsKeyJustPressed(key) {
			delta = -FontSizeStep
		}
	}
	if delta == 0 {
		return
	}
	s.setFontSize(s.fontSize + delta)
}

// setFontSize 切换字号，行高按配置比例缩放
func (s *DialogueScene) setFontSize(size float64) {
	size = min(max(size, game.MinFontSize), game.MaxFontSize)
	if size == s.fontSize {
		return
	}

	cfg := *s.viewConfig
	settings := game.DialogueSettings{FontSize: size}
	settings.ApplyTo(&cfg)

	face := s.resourceManager.LoadDialogueFont(&cfg)
	s.dialogueView.SetFont(face, cfg.LineHeight)
	s.fontSize = size

	if s.settings != nil {
		s.settings.SetFontSize(size)
	}
	log.Printf("[DialogueScene] Font size changed to %.0f (line height %.1f)", size, cfg.LineHeight)
}
