package systems

import (
	"github.com/decker502/yarnview/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WheelUnit 滚轮事件的单位
type WheelUnit int

const (
	// WheelUnitLine 以"行"为单位（鼠标滚轮的一格）
	WheelUnitLine WheelUnit = iota
	// WheelUnitPixel 以像素为单位（触控板等精确滚动设备）
	WheelUnitPixel
)

// String 返回 WheelUnit 的字符串表示
func (u WheelUnit) String() string {
	switch u {
	case WheelUnitLine:
		return "line"
	case WheelUnitPixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// WheelEvent 一次滚轮输入，正值表示向上滚动（查看更早的内容）
type WheelEvent struct {
	Unit WheelUnit
	Y    float64
}

// DialogueInput 对话界面输入接口
// 用于依赖注入，支持测试时 mock
type DialogueInput interface {
	// IsKeyJustPressed 按键本帧刚按下
	IsKeyJustPressed(key ebiten.Key) bool
	// IsMouseButtonJustPressed 鼠标按键本帧刚按下
	IsMouseButtonJustPressed(button ebiten.MouseButton) bool
	// AnyTouchJustPressed 本帧出现新的触摸
	AnyTouchJustPressed() bool
	// PointerState 指针（鼠标或第一个触摸点）的位置和按下状态
	PointerState() (pressed bool, x, y int)
	// PointerJustPressed 指针本帧刚按下
	PointerJustPressed() bool
	// WheelEvents 本帧的滚轮事件
	WheelEvents() []WheelEvent
	// SetCursorShape 设置鼠标光标形状
	SetCursorShape(shape ebiten.CursorShapeType)
}

// ebitenDialogueInput Ebitengine 默认实现
type ebitenDialogueInput struct{}

func (e *ebitenDialogueInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func (e *ebitenDialogueInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(button)
}

func (e *ebitenDialogueInput) AnyTouchJustPressed() bool {
	return utils.AnyTouchJustPressed()
}

func (e *ebitenDialogueInput) PointerState() (bool, int, int) {
	return utils.GetPointerState()
}

func (e *ebitenDialogueInput) PointerJustPressed() bool {
	pressed, _, _ := utils.IsPointerJustPressed()
	return pressed
}

func (e *ebitenDialogueInput) WheelEvents() []WheelEvent {
	// Ebitengine 统一以"行"为单位报告滚轮
	dy := utils.GetWheelDelta()
	if dy == 0 {
		return nil
	}
	return []WheelEvent{{Unit: WheelUnitLine, Y: dy}}
}

func (e *ebitenDialogueInput) SetCursorShape(shape ebiten.CursorShapeType) {
	if ebiten.CursorShape() != shape {
		ebiten.SetCursorShape(shape)
	}
}

// defaultDialogueInput 默认输入实例
var defaultDialogueInput DialogueInput = &ebitenDialogueInput{}

// DefaultDialogueInput 返回基于 Ebitengine 的输入实现
func DefaultDialogueInput() DialogueInput {
	return defaultDialogueInput
}

// OptionHotkeys 数字键 1-9 与小键盘 1-9，下标即显示位置 - 1
var OptionHotkeys = [][2]ebiten.Key{
	{ebiten.KeyDigit1, ebiten.KeyNumpad1},
	{ebiten.KeyDigit2, ebiten.KeyNumpad2},
	{ebiten.KeyDigit3, ebiten.KeyNumpad3},
	{ebiten.KeyDigit4, ebiten.KeyNumpad4},
	{ebiten.KeyDigit5, ebiten.KeyNumpad5},
	{ebiten.KeyDigit6, ebiten.KeyNumpad6},
	{ebiten.KeyDigit7, ebiten.KeyNumpad7},
	{ebiten.KeyDigit8, ebiten.KeyNumpad8},
	{ebiten.KeyDigit9, ebiten.KeyNumpad9},
}

// ContinueKeys 推进对话的按键
var ContinueKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyNumpadEnter}

