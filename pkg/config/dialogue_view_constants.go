package config

// 窗口与资源路径
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1024
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 640

	// DefaultDialogueViewConfigPath 默认界面配置（嵌入资源）
	DefaultDialogueViewConfigPath = "data/config/dialogue_view.yaml"
	// DefaultScriptPath 默认对话脚本（嵌入资源）
	DefaultScriptPath = "data/dialogues/hello_world.yaml"
	// DefaultStartNode 默认起始节点
	DefaultStartNode = "HelloWorld"
)

// 对话界面默认值
const (
	DefaultPanelWidthPercent  = 33.0
	DefaultDialogueFontSize   = 16.0
	DefaultEntryPaddingY      = 6.0
	DefaultEntryMarginPercent = 5.0

	// DefaultScrollLinePixels 滚轮一行对应 20 像素
	DefaultScrollLinePixels = 20.0

	// DefaultPlayerSpeakerName 玩家选择回显到日志时的说话人
	DefaultPlayerSpeakerName = "YOU"
)

// MaxOptionHotkeys 数字快捷键 1-9，只覆盖前九个选项
const MaxOptionHotkeys = 9
