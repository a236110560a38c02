package systems

import (
	"context"
	"log"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/decker502/yarnview/pkg/utils"
)

// LinePresenterSystem 显示对话面板并把对话行写入日志
type LinePresenterSystem struct {
	entityManager *ecs.EntityManager
	tree          *entities.DialogueViewTree
	bus           *dialogue.EventBus
	config        *config.DialogueViewConfig
	metrics       *observe.Metrics
}

// NewLinePresenterSystem 创建对话行显示系统
func NewLinePresenterSystem(em *ecs.EntityManager, tree *entities.DialogueViewTree, bus *dialogue.EventBus, cfg *config.DialogueViewConfig, metrics *observe.Metrics) *LinePresenterSystem {
	return &LinePresenterSystem{
		entityManager: em,
		tree:          tree,
		bus:           bus,
		config:        cfg,
		metrics:       metrics,
	}
}

// ShowDialogue 收到对话开始事件时显示根面板（重复调用无副作用）
func (s *LinePresenterSystem) ShowDialogue() {
	if s.bus.DialogueStarted.IsEmpty() {
		return
	}

	vis := entities.MustGetComponent[*components.UIVisibilityComponent](s.entityManager, s.tree.Root, "root")
	if !vis.Visible {
		log.Printf("[LinePresenterSystem] Dialogue started, showing dialogue view")
		vis.Visible = true
	}
}

// PresentLines 按到达顺序把本帧的对话行写入日志
func (s *LinePresenterSystem) PresentLines() {
	for _, ev := range s.bus.LineReady.Read() {
		speaker, _ := ev.Line.CharacterName()
		s.WriteLine(speaker, ev.Line.TextWithoutCharacterName())
		s.metrics.RecordLine(context.Background(), speaker != "")
	}
}

// WriteLine 在日志末尾追加一个条目，speaker 为空时不显示说话人
func (s *LinePresenterSystem) WriteLine(speaker, body string) ecs.EntityID {
	return WriteDialogueLine(s.entityManager, s.tree, s.config, speaker, body)
}

// WriteDialogueLine 在日志末尾追加一个条目
// 选项系统回显玩家选择时也使用这个函数
func WriteDialogueLine(em *ecs.EntityManager, tree *entities.DialogueViewTree, cfg *config.DialogueViewConfig, speaker, body string) ecs.EntityID {
	return entities.NewTextEntry(em, tree.DialogueLog, utils.FormatDialogueLine(speaker, body), cfg)
}
