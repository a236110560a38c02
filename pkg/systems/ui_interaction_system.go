package systems

import (
	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
)

// clipRect 轴对齐裁剪矩形
type clipRect struct {
	minX, minY, maxX, maxY float64
}

func (r clipRect) contains(x, y float64) bool {
	return x >= r.minX && x < r.maxX && y >= r.minY && y < r.maxY
}

func (r clipRect) intersect(o clipRect) clipRect {
	return clipRect{
		minX: max(r.minX, o.minX),
		minY: max(r.minY, o.minY),
		maxX: min(r.maxX, o.maxX),
		maxY: min(r.maxY, o.maxY),
	}
}

func layoutRect(l *components.UILayoutComponent) clipRect {
	return clipRect{minX: l.X, minY: l.Y, maxX: l.X + l.Width, maxY: l.Y + l.Height}
}

// UIInteractionSystem 计算可交互节点的指针状态
//
// 职责：
//   - 沿 UI 树遍历，跳过不可见子树，按 ClipY 累积裁剪区域
//   - 指针在节点矩形内（且未被裁剪）时为悬停
//   - 悬停时本帧刚按下，或上一帧已按下且仍按住，为按下
//   - 状态变化时设置 UIComponent.Changed
type UIInteractionSystem struct {
	entityManager *ecs.EntityManager
	root          ecs.EntityID
	input         DialogueInput
}

// NewUIInteractionSystem 创建交互系统
func NewUIInteractionSystem(em *ecs.EntityManager, root ecs.EntityID, input DialogueInput) *UIInteractionSystem {
	return &UIInteractionSystem{
		entityManager: em,
		root:          root,
		input:         input,
	}
}

// Update 更新所有可交互节点的状态
func (s *UIInteractionSystem) Update() {
	held, px, py := s.input.PointerState()
	justPressed := s.input.PointerJustPressed()
	pointerX, pointerY := float64(px), float64(py)

	// 每帧先清除变化标记，被遍历到的节点再重新计算
	for _, id := range ecs.GetEntitiesWith1[*components.UIComponent](s.entityManager) {
		ui, _ := ecs.GetComponent[*components.UIComponent](s.entityManager, id)
		ui.Changed = false
	}

	visited := make(map[ecs.EntityID]bool)
	s.visit(s.root, clipRect{minX: -1e9, minY: -1e9, maxX: 1e9, maxY: 1e9}, func(id ecs.EntityID, clip clipRect) {
		ui, ok := ecs.GetComponent[*components.UIComponent](s.entityManager, id)
		if !ok || ui.State == components.UIDisabled {
			return
		}
		visited[id] = true

		layout := entities.MustGetComponent[*components.UILayoutComponent](s.entityManager, id, "interactive node")
		over := layoutRect(layout).contains(pointerX, pointerY) && clip.contains(pointerX, pointerY)
		s.setState(ui, nextUIState(ui.State, over, justPressed, held))
	})

	// 隐藏或被移出树的节点回到普通状态
	for _, id := range ecs.GetEntitiesWith1[*components.UIComponent](s.entityManager) {
		if visited[id] {
			continue
		}
		ui, _ := ecs.GetComponent[*components.UIComponent](s.entityManager, id)
		if ui.State != components.UIDisabled {
			s.setState(ui, components.UINormal)
		}
	}
}

func (s *UIInteractionSystem) setState(ui *components.UIComponent, state components.UIState) {
	if ui.State != state {
		ui.State = state
		ui.Changed = true
	}
}

// nextUIState 交互状态转换
func nextUIState(prev components.UIState, over, justPressed, held bool) components.UIState {
	switch {
	case over && (justPressed || (prev == components.UIPressed && held)):
		return components.UIPressed
	case over:
		return components.UIHovered
	default:
		return components.UINormal
	}
}

func (s *UIInteractionSystem) visit(id ecs.EntityID, clip clipRect, fn func(ecs.EntityID, clipRect)) {
	em := s.entityManager
	if !em.EntityExists(id) || em.IsMarkedForDestroy(id) {
		return
	}
	if vis, ok := ecs.GetComponent[*components.UIVisibilityComponent](em, id); ok && !vis.Visible {
		return
	}

	fn(id, clip)

	layout, ok := ecs.GetComponent[*components.UILayoutComponent](em, id)
	if ok && layout.ClipY {
		rect := layoutRect(layout)
		clip = clip.intersect(clipRect{minX: clip.minX, minY: rect.minY, maxX: clip.maxX, maxY: rect.maxY})
	}

	node, ok := ecs.GetComponent[*components.UINodeComponent](em, id)
	if !ok {
		return
	}
	for _, child := range node.Children {
		s.visit(child, clip, fn)
	}
}
