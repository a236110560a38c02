package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DialogueViewConfig 对话界面的外观与交互配置
// 从 data/config/dialogue_view.yaml 加载，缺省字段使用默认值
type DialogueViewConfig struct {
	// PanelWidthPercent 对话面板占窗口宽度的百分比（面板贴靠窗口右侧）
	PanelWidthPercent float64 `yaml:"panelWidthPercent"`

	// FontPath 字体文件路径（可选，为空使用内置 Go Regular 字体）
	FontPath string `yaml:"fontPath"`
	// FontSize 字号（像素）
	FontSize float64 `yaml:"fontSize"`
	// LineHeight 行高（像素）
	LineHeight float64 `yaml:"lineHeight"`

	// EntryPaddingY 每个条目上下内边距（像素）
	EntryPaddingY float64 `yaml:"entryPaddingY"`
	// EntryMarginPercent 每个条目左右外边距占日志宽度的百分比
	EntryMarginPercent float64 `yaml:"entryMarginPercent"`

	// ScrollLinePixels 滚轮以"行"为单位时每行对应的像素数
	ScrollLinePixels float64 `yaml:"scrollLinePixels"`

	// PlayerSpeakerName 回显玩家选择时使用的说话人名称
	PlayerSpeakerName string `yaml:"playerSpeakerName"`

	// Colors 颜色配置（#RRGGBB 或 #RRGGBBAA）
	Colors DialogueColorConfig `yaml:"colors"`
}

// DialogueColorConfig 对话界面颜色配置
type DialogueColorConfig struct {
	Background     string `yaml:"background"`     // 面板背景
	Text           string `yaml:"text"`           // 普通文本
	Option         string `yaml:"option"`         // 选项默认颜色
	OptionHover    string `yaml:"optionHover"`    // 选项悬停颜色
	OptionSelected string `yaml:"optionSelected"` // 选项被选中（已提交）颜色
}

// DialogueColors 解析后的颜色
type DialogueColors struct {
	Background     color.RGBA
	Text           color.RGBA
	Option         color.RGBA
	OptionHover    color.RGBA
	OptionSelected color.RGBA
}

// DefaultDialogueViewConfig 返回默认配置
func DefaultDialogueViewConfig() *DialogueViewConfig {
	cfg := &DialogueViewConfig{}
	applyDialogueViewDefaults(cfg)
	return cfg
}

// LoadDialogueViewConfig 从YAML文件加载对话界面配置
// 参数：
//
//	filepath - 配置文件路径
//
// 返回：
//
//	*DialogueViewConfig - 解析后的配置（已填充默认值并校验）
//	error - 文件读取、解析或校验失败
func LoadDialogueViewConfig(filepath string) (*DialogueViewConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue view config file %s: %w", filepath, err)
	}

	cfg, err := ParseDialogueViewConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue view config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseDialogueViewConfig 从 YAML 数据解析对话界面配置
// 用于嵌入资源（embedded.ReadFile）和测试
func ParseDialogueViewConfig(data []byte) (*DialogueViewConfig, error) {
	var cfg DialogueViewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue view config YAML: %w", err)
	}

	applyDialogueViewDefaults(&cfg)

	if err := validateDialogueViewConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDialogueViewDefaults 为缺失的可选字段设置默认值
func applyDialogueViewDefaults(cfg *DialogueViewConfig) {
	if cfg.PanelWidthPercent == 0 {
		cfg.PanelWidthPercent = DefaultPanelWidthPercent
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = DefaultDialogueFontSize
	}
	if cfg.LineHeight == 0 {
		cfg.LineHeight = cfg.FontSize * 1.4
	}
	if cfg.EntryPaddingY == 0 {
		cfg.EntryPaddingY = DefaultEntryPaddingY
	}
	if cfg.EntryMarginPercent == 0 {
		cfg.EntryMarginPercent = DefaultEntryMarginPercent
	}
	if cfg.ScrollLinePixels == 0 {
		cfg.ScrollLinePixels = DefaultScrollLinePixels
	}
	if cfg.PlayerSpeakerName == "" {
		cfg.PlayerSpeakerName = DefaultPlayerSpeakerName
	}

	// 颜色默认值：深灰背景，选项番茄红，悬停白色
	if cfg.Colors.Background == "" {
		cfg.Colors.Background = "#262626"
	}
	if cfg.Colors.Text == "" {
		cfg.Colors.Text = "#FFFFFF"
	}
	if cfg.Colors.Option == "" {
		cfg.Colors.Option = "#FF6347"
	}
	if cfg.Colors.OptionHover == "" {
		cfg.Colors.OptionHover = "#FFFFFF"
	}
	if cfg.Colors.OptionSelected == "" {
		cfg.Colors.OptionSelected = "#FFD700"
	}
}

// validateDialogueViewConfig 验证配置的合法性
func validateDialogueViewConfig(cfg *DialogueViewConfig) error {
	if cfg.PanelWidthPercent <= 0 || cfg.PanelWidthPercent > 100 {
		return fmt.Errorf("panelWidthPercent must be in (0, 100], got %.2f", cfg.PanelWidthPercent)
	}
	if cfg.FontSize < 0 {
		return fmt.Errorf("fontSize must be positive, got %.2f", cfg.FontSize)
	}
	if cfg.LineHeight < cfg.FontSize {
		return fmt.Errorf("lineHeight (%.2f) must not be smaller than fontSize (%.2f)", cfg.LineHeight, cfg.FontSize)
	}
	if cfg.EntryPaddingY < 0 {
		return fmt.Errorf("entryPaddingY must not be negative, got %.2f", cfg.EntryPaddingY)
	}
	if cfg.EntryMarginPercent < 0 || cfg.EntryMarginPercent >= 50 {
		return fmt.Errorf("entryMarginPercent must be in [0, 50), got %.2f", cfg.EntryMarginPercent)
	}
	if cfg.ScrollLinePixels < 0 {
		return fmt.Errorf("scrollLinePixels must be positive, got %.2f", cfg.ScrollLinePixels)
	}

	if _, err := cfg.ParseColors(); err != nil {
		return err
	}
	return nil
}

// ParseColors 解析颜色配置
func (cfg *DialogueViewConfig) ParseColors() (DialogueColors, error) {
	var colors DialogueColors
	fields := []struct {
		name  string
		value string
		dst   *color.RGBA
	}{
		{"background", cfg.Colors.Background, &colors.Background},
		{"text", cfg.Colors.Text, &colors.Text},
		{"option", cfg.Colors.Option, &colors.Option},
		{"optionHover", cfg.Colors.OptionHover, &colors.OptionHover},
		{"optionSelected", cfg.Colors.OptionSelected, &colors.OptionSelected},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.value)
		if err != nil {
			return DialogueColors{}, fmt.Errorf("colors.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return colors, nil
}

// MustColors 返回解析后的颜色，配置必须已通过校验
func (cfg *DialogueViewConfig) MustColors() DialogueColors {
	colors, err := cfg.ParseColors()
	if err != nil {
		panic(fmt.Sprintf("[DialogueViewConfig] invalid colors: %v", err))
	}
	return colors
}

// ParseHexColor 解析 #RRGGBB 或 #RRGGBBAA 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "FF"
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.RGBA{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}
