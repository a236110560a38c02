// Package app 提供对话演示应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载界面配置、应用玩家设置、
// 创建场景管理器和对话场景。main.go 的 run 命令调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/embedded"
	"github.com/decker502/yarnview/pkg/game"
	"github.com/decker502/yarnview/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppName gdata 存储使用的应用名
const AppName = "yarnview"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ScriptPath 对话脚本路径，为空使用内置的 hello_world
	ScriptPath string
	// StartNode 起始节点，为空使用 HelloWorld
	StartNode string
	// ConfigPath 界面配置路径，为空使用内置配置
	ConfigPath string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	viewConfig, err := LoadViewConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("界面配置加载失败: %w", err)
	}

	// 玩家设置覆盖配置文件
	settings := game.OpenSettingsManager(AppName)
	settings.GetSettings().ApplyTo(viewConfig)
	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	resourceManager := game.NewResourceManager()

	scriptPath := cfg.ScriptPath
	if scriptPath == "" {
		scriptPath = config.DefaultScriptPath
	}
	startNode := cfg.StartNode
	if startNode == "" {
		startNode = config.DefaultStartNode
	}

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(node string) (game.Scene, error) {
		return scenes.NewDialogueScene(resourceManager, scenes.DialogueSceneOptions{
			ScriptPath: scriptPath,
			StartNode:  node,
			ViewConfig: viewConfig,
			Settings:   settings,
		})
	})

	if err := sceneManager.StartDialogue(startNode); err != nil {
		return nil, fmt.Errorf("对话场景创建失败: %w", err)
	}
	log.Printf("[App] Dialogue %s started at node %s", scriptPath, startNode)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
	}, nil
}

// LoadViewConfig 读取界面配置
// 路径为空时使用内置配置；磁盘文件优先于嵌入资源
func LoadViewConfig(path string) (*config.DialogueViewConfig, error) {
	if path == "" {
		path = config.DefaultDialogueViewConfigPath
	}
	data, err := embedded.ReadFileOrDisk(path)
	if err != nil {
		return nil, err
	}
	viewConfig, err := config.ParseDialogueViewConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue view config %s: %w", path, err)
	}
	return viewConfig, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
// 场景返回的错误（对话状态不同步）会结束游戏循环
func (a *App) Update() error {
	// 关闭窗口时保存设置后正常退出
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	if err := a.sceneManager.Update(deltaTime); err != nil {
		a.sceneManager.SaveOnExit()
		return fmt.Errorf("dialogue scene failed: %w", err)
	}
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear // 使用线性滤波减少锯齿
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 关闭窗口时保存玩家设置
func (a *App) Close() {
	if !a.sceneManager.SaveOnExit() {
		log.Printf("[App] Warning: settings were not saved")
	}
}

