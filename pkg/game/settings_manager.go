package game

import (
	"fmt"
	"log"

	"github.com/decker502/yarnview/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 玩家可调整的取值范围
const (
	MinScrollLinePixels = 1.0
	MaxScrollLinePixels = 200.0
	MinFontSize         = 8.0
	MaxFontSize         = 48.0
)

// DialogueSettings 玩家偏好设置
// 零值表示沿用界面配置文件（dialogue_view.yaml）中的值
type DialogueSettings struct {
	// 滚轮一行对应的像素数
	ScrollLinePixels float64 `yaml:"scrollLinePixels"`

	// 字号
	FontSize float64 `yaml:"fontSize"`

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *DialogueSettings {
	return &DialogueSettings{
		ScrollLinePixels: 0,
		FontSize:         0,
		Fullscreen:       false,
	}
}

// ApplyTo 用设置覆盖界面配置
// 修改字号时按原配置的比例调整行高
func (s *DialogueSettings) ApplyTo(cfg *config.DialogueViewConfig) {
	if s.ScrollLinePixels > 0 {
		cfg.ScrollLinePixels = s.ScrollLinePixels
	}
	if s.FontSize > 0 && cfg.FontSize > 0 {
		ratio := cfg.LineHeight / cfg.FontSize
		cfg.FontSize = s.FontSize
		cfg.LineHeight = s.FontSize * ratio
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *DialogueSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "dialogue"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查（加载失败不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// OpenSettingsManager 打开应用的 gdata 存储并创建设置管理器
// gdata 不可用时降级为仅内存设置
func OpenSettingsManager(appName string) *SettingsManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		manager = nil
	}
	sm, _ := NewSettingsManager(manager)
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loadedSettings DialogueSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	// 文件可能被手动修改过
	if loadedSettings.ScrollLinePixels != 0 {
		loadedSettings.ScrollLinePixels = clamp(loadedSettings.ScrollLinePixels, MinScrollLinePixels, MaxScrollLinePixels)
	}
	if loadedSettings.FontSize != 0 {
		loadedSettings.FontSize = clamp(loadedSettings.FontSize, MinFontSize, MaxFontSize)
	}

	sm.settings = &loadedSettings
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *DialogueSettings {
	return sm.settings
}

// SetScrollLinePixels 设置滚轮每行的像素数
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetScrollLinePixels(pixels float64) {
	sm.settings.ScrollLinePixels = clamp(pixels, MinScrollLinePixels, MaxScrollLinePixels)
}

// SetFontSize 设置字号
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFontSize(size float64) {
	sm.settings.FontSize = clamp(size, MinFontSize, MaxFontSize)
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clamp 将值限制在 [lo, hi] 范围内
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
