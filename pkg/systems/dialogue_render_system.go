package systems

import (
	"image"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DialogueRenderSystem 绘制对话界面
//
// 沿 UI 树前序绘制：先背景，再文本行，再子节点。
// 不可见节点跳过整棵子树；ClipY 节点的子树绘制到裁剪后的 SubImage 上。
type DialogueRenderSystem struct {
	entityManager *ecs.EntityManager
	root          ecs.EntityID
	face          text.Face
	lineHeight    float64
}

// NewDialogueRenderSystem 创建对话界面渲染系统
func NewDialogueRenderSystem(em *ecs.EntityManager, root ecs.EntityID, face text.Face, lineHeight float64) *DialogueRenderSystem {
	return &DialogueRenderSystem{
		entityManager: em,
		root:          root,
		face:          face,
		lineHeight:    lineHeight,
	}
}

// SetFace 替换字体（设置变化时）
func (s *DialogueRenderSystem) SetFace(face text.Face, lineHeight float64) {
	s.face = face
	s.lineHeight = lineHeight
}

// Draw 绘制整个对话界面
func (s *DialogueRenderSystem) Draw(screen *ebiten.Image) {
	s.drawNode(screen, s.root)
}

func (s *DialogueRenderSystem) drawNode(dst *ebiten.Image, id ecs.EntityID) {
	em := s.entityManager
	if !em.EntityExists(id) || em.IsMarkedForDestroy(id) {
		return
	}
	if vis, ok := ecs.GetComponent[*components.UIVisibilityComponent](em, id); ok && !vis.Visible {
		return
	}
	layout, ok := ecs.GetComponent[*components.UILayoutComponent](em, id)
	if !ok {
		return
	}

	if bg, ok := ecs.GetComponent[*components.UIBackgroundComponent](em, id); ok {
		vector.DrawFilledRect(dst, float32(layout.X), float32(layout.Y), float32(layout.Width), float32(layout.Height), bg.Color, false)
	}

	if txt, ok := ecs.GetComponent[*components.UITextComponent](em, id); ok && s.face != nil {
		for i, line := range txt.Lines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(layout.X, layout.Y+layout.PaddingY+float64(i)*s.lineHeight)
			op.ColorScale.ScaleWithColor(txt.Color)
			text.Draw(dst, line, s.face, op)
		}
	}

	childDst := dst
	if layout.ClipY {
		// SubImage 保留原坐标系，子节点无需平移
		bounds := dst.Bounds()
		clip := image.Rect(bounds.Min.X, int(layout.Y), bounds.Max.X, int(layout.Y+layout.Height)).Intersect(bounds)
		if clip.Empty() {
			return
		}
		childDst = dst.SubImage(clip).(*ebiten.Image)
	}

	node, ok := ecs.GetComponent[*components.UINodeComponent](em, id)
	if !ok {
		return
	}
	for _, child := range node.Children {
		s.drawNode(childDst, child)
	}
}
