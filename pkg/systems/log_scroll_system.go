package systems

import (
	"context"
	"log"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/observe"
)

// LogScrollSystem 对话日志的滚动
//
// 滚动位置 Position 恒定满足 -maxScroll <= Position <= 0，
// maxScroll = max(0, 日志内容高度 - 视口高度)。
// Position 同步写入日志列表的 UILayoutComponent.Top。
type LogScrollSystem struct {
	entityManager *ecs.EntityManager
	tree          *entities.DialogueViewTree
	input         DialogueInput
	metrics       *observe.Metrics

	// linePixels 滚轮以"行"为单位时每行对应的像素数
	linePixels float64
}

// NewLogScrollSystem 创建日志滚动系统
func NewLogScrollSystem(em *ecs.EntityManager, tree *entities.DialogueViewTree, input DialogueInput, metrics *observe.Metrics, linePixels float64) *LogScrollSystem {
	return &LogScrollSystem{
		entityManager: em,
		tree:          tree,
		input:         input,
		metrics:       metrics,
		linePixels:    linePixels,
	}
}

// SetLinePixels 修改每行滚动的像素数
func (s *LogScrollSystem) SetLinePixels(pixels float64) {
	s.linePixels = pixels
}

// MaxScroll 返回当前可滚动的最大距离（使用最近一次布局的尺寸）
func (s *LogScrollSystem) MaxScroll() float64 {
	list := entities.MustGetComponent[*components.UILayoutComponent](s.entityManager, s.tree.DialogueLog, "dialogue log")
	viewport := entities.MustGetComponent[*components.UILayoutComponent](s.entityManager, s.tree.Viewport, "viewport")
	return max(0, list.Height-viewport.Height)
}

// HandleScrollInput 处理本帧的滚轮事件
func (s *LogScrollSystem) HandleScrollInput() {
	events := s.input.WheelEvents()
	if len(events) == 0 {
		return
	}

	scroll := entities.MustGetComponent[*components.DialogueLogComponent](s.entityManager, s.tree.DialogueLog, "dialogue log")
	maxScroll := s.MaxScroll()

	for _, ev := range events {
		dy := ev.Y
		if ev.Unit == WheelUnitLine {
			dy *= s.linePixels
		}
		scroll.Position = clampScroll(scroll.Position+dy, maxScroll)
		s.metrics.RecordScroll(context.Background(), ev.Unit.String())
	}

	s.applyPosition(scroll.Position)
}

// ScrollToNewest 日志内容尺寸变化时滚动到最底部
// 必须在布局之后执行；返回滚动位置是否改变
func (s *LogScrollSystem) ScrollToNewest() bool {
	list := entities.MustGetComponent[*components.UILayoutComponent](s.entityManager, s.tree.DialogueLog, "dialogue log")
	if !list.SizeChanged {
		return false
	}

	scroll := entities.MustGetComponent[*components.DialogueLogComponent](s.entityManager, s.tree.DialogueLog, "dialogue log")
	newest := -s.MaxScroll()
	if scroll.Position == newest {
		return false
	}

	log.Printf("[LogScrollSystem] Content resized to %.0f, scrolling to newest (%.0f)", list.Height, newest)
	scroll.Position = newest
	s.applyPosition(newest)
	return true
}

func (s *LogScrollSystem) applyPosition(position float64) {
	list := entities.MustGetComponent[*components.UILayoutComponent](s.entityManager, s.tree.DialogueLog, "dialogue log")
	list.Top = position
}

// clampScroll 把滚动位置限制在 [-maxScroll, 0]
func clampScroll(position, maxScroll float64) float64 {
	if position > 0 {
		return 0
	}
	if position < -maxScroll {
		return -maxScroll
	}
	return position
}
