package systems

import (
	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TextMeasurer 文本测量接口
// 用于依赖注入，测试时使用固定宽度的实现
type TextMeasurer interface {
	// MeasureWidth 返回单行文本的像素宽度
	MeasureWidth(s string) float64
}

// faceTextMeasurer 基于 text/v2 字体的实现
type faceTextMeasurer struct {
	measure utils.MeasureFunc
}

// NewFaceTextMeasurer 创建基于字体的文本测量器
func NewFaceTextMeasurer(face text.Face) TextMeasurer {
	return &faceTextMeasurer{measure: utils.FaceMeasure(face)}
}

func (m *faceTextMeasurer) MeasureWidth(s string) float64 {
	return m.measure(s)
}

// DialogueLayoutSystem 对话界面的纵向堆叠布局
//
// 规则：
//   - 宽度 = 父宽度 × WidthPercent（0 表示占满）- 2 × 外边距
//   - AlignEnd 时靠右，否则靠左
//   - FillHeight 节点的高度等于父节点内容区高度，其余节点由文本行和子节点撑开
//   - 子节点自上而下排列，Top 只移动节点自身，不影响兄弟节点
//   - 文本按内容宽度换行，结果写回 UITextComponent.Lines
//
// 尺寸与上一帧不同时设置 UILayoutComponent.SizeChanged。
type DialogueLayoutSystem struct {
	entityManager *ecs.EntityManager
	root          ecs.EntityID
	measurer      TextMeasurer
	lineHeight    float64

	screenWidth  float64
	screenHeight float64
}

// NewDialogueLayoutSystem 创建布局系统
func NewDialogueLayoutSystem(em *ecs.EntityManager, root ecs.EntityID, measurer TextMeasurer, lineHeight, screenWidth, screenHeight float64) *DialogueLayoutSystem {
	return &DialogueLayoutSystem{
		entityManager: em,
		root:          root,
		measurer:      measurer,
		lineHeight:    lineHeight,
		screenWidth:   screenWidth,
		screenHeight:  screenHeight,
	}
}

// SetScreenSize 窗口尺寸变化时调用
func (s *DialogueLayoutSystem) SetScreenSize(width, height float64) {
	s.screenWidth = width
	s.screenHeight = height
}

// SetLineHeight 修改行高（设置面板调整字号时）
func (s *DialogueLayoutSystem) SetLineHeight(lineHeight float64) {
	s.lineHeight = lineHeight
}

// SetMeasurer 替换文本测量（字体变化时）
func (s *DialogueLayoutSystem) SetMeasurer(measurer TextMeasurer) {
	s.measurer = measurer
}

// Update 重新计算整棵树的布局
func (s *DialogueLayoutSystem) Update() {
	s.layoutNode(s.root, 0, s.screenWidth, s.screenHeight, 0)
}

// layoutNode 布局一个节点及其子树，返回节点在父节点中占用的高度
func (s *DialogueLayoutSystem) layoutNode(id ecs.EntityID, parentX, parentWidth, availableHeight, y float64) float64 {
	em := s.entityManager
	if !em.EntityExists(id) || em.IsMarkedForDestroy(id) {
		return 0
	}
	layout := entities.MustGetComponent[*components.UILayoutComponent](em, id, "layout node")

	margin := parentWidth * layout.MarginXPercent / 100
	width := parentWidth
	if layout.WidthPercent > 0 {
		width = parentWidth * layout.WidthPercent / 100
	}
	width = max(0, width-2*margin)

	x := parentX + margin
	if layout.AlignEnd {
		x = parentX + parentWidth - width - margin
	}
	y += layout.Top

	contentHeight := 0.0
	if txt, ok := ecs.GetComponent[*components.UITextComponent](em, id); ok {
		txt.Lines = utils.WrapTextWith(txt.Text, s.measurer.MeasureWidth, width)
		contentHeight += float64(len(txt.Lines)) * s.lineHeight
	}

	innerHeight := max(0, availableHeight-2*layout.PaddingY)
	cursor := y + layout.PaddingY + contentHeight
	if node, ok := ecs.GetComponent[*components.UINodeComponent](em, id); ok {
		for _, child := range node.Children {
			h := s.layoutNode(child, x, width, innerHeight, cursor)
			cursor += h
			contentHeight += h
		}
	}

	height := contentHeight + 2*layout.PaddingY
	if layout.FillHeight {
		height = availableHeight
	}

	layout.SizeChanged = height != layout.Height || width != layout.Width
	layout.X = x
	layout.Y = y
	layout.Width = width
	layout.Height = height

	return height
}
