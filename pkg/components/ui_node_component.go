package components

import (
	"image/color"

	"github.com/decker502/yarnview/pkg/ecs"
)

// UINodeComponent 保留模式 UI 树中的节点（纯数据）
//
// 子节点顺序即布局顺序，Children 的最后一个元素显示在最下方。
// 树操作（挂载、卸载、递归销毁）由 entities 包完成。
type UINodeComponent struct {
	// Name 节点名称，仅用于日志和调试（如 "root"、"scroll_view"）
	Name string

	// Parent 父节点，根节点为 ecs.InvalidEntity
	Parent ecs.EntityID

	// Children 子节点列表（有序）
	Children []ecs.EntityID
}

// UILayoutComponent 节点的布局输入与测量结果
//
// 输入字段由工厂函数设置，测量字段由 DialogueLayoutSystem 每帧计算。
type UILayoutComponent struct {
	// ===== 输入 =====

	// Top 垂直方向的相对偏移（像素），不影响兄弟节点的排列
	// 日志列表的滚动位置写在这里
	Top float64
	// PaddingY 上下内边距（像素）
	PaddingY float64
	// MarginXPercent 左右外边距，占父节点宽度的百分比
	MarginXPercent float64
	// WidthPercent 宽度占父节点宽度的百分比，0 表示占满
	WidthPercent float64
	// AlignEnd 水平方向靠右对齐
	AlignEnd bool
	// FillHeight 高度等于父节点内容区高度，否则由子节点和文本撑开
	FillHeight bool
	// ClipY 是否裁剪超出自身高度的子节点（滚动视口）
	ClipY bool

	// ===== 测量结果 =====

	// X, Y 屏幕坐标（左上角）
	X, Y float64
	// Width, Height 测量尺寸
	Width, Height float64

	// SizeChanged 本帧测量尺寸是否与上一帧不同
	// 相当于"尺寸变化"查询过滤器，由布局系统设置，滚动系统读取
	SizeChanged bool
}

// UIVisibilityComponent 节点可见性
// 不可见节点及其子树不参与绘制和指针交互
type UIVisibilityComponent struct {
	Visible bool
}

// UITextComponent 文本节点
type UITextComponent struct {
	// Text 完整文本内容
	Text string

	// Color 文本颜色
	Color color.RGBA

	// Lines 按节点宽度换行后的文本行，由布局系统写入，渲染系统读取
	Lines []string
}

// UIBackgroundComponent 节点背景色
type UIBackgroundComponent struct {
	Color color.RGBA
}
