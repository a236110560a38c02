// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 保存最后一次触摸位置（用于触摸释放时获取位置）
var lastTouchX, lastTouchY int

// GetPointerState 获取指针的完整状态
// 返回：是否按下、X坐标、Y坐标
// 有活动触摸时优先返回第一个触摸点
func GetPointerState() (pressed bool, x, y int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		lastTouchX, lastTouchY = x, y
		return true, x, y
	}

	// 触摸刚结束的这一帧仍然报告最后位置，避免指针跳到鼠标坐标
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return false, lastTouchX, lastTouchY
	}

	x, y = ebiten.CursorPosition()
	pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return pressed, x, y
}

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标）
// 返回是否按下以及按下位置
func IsPointerJustPressed() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		lastTouchX, lastTouchY = x, y
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// AnyTouchJustPressed 本帧是否出现了新的触摸
func AnyTouchJustPressed() bool {
	return len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// GetWheelDelta 返回本帧滚轮的垂直偏移
// ebiten 以"行"为单位报告滚轮（触控板可能是小数）
func GetWheelDelta() float64 {
	_, dy := ebiten.Wheel()
	return dy
}
