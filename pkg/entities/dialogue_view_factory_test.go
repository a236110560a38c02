package entities

import (
	"strings"
	"testing"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
)

func TestNewDialogueViewTree_Structure(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultDialogueViewConfig()

	tree := NewDialogueViewTree(em, cfg)

	// 根面板初始隐藏
	vis := MustGetComponent[*components.UIVisibilityComponent](em, tree.Root, "root")
	if vis.Visible {
		t.Error("Root should be hidden before the dialogue starts")
	}

	// 父子关系：root → scroll_view → viewport → moving_panel
	chain := []ecs.EntityID{tree.Root, tree.ScrollView, tree.Viewport, tree.DialogueLog}
	for i := 1; i < len(chain); i++ {
		node := MustGetComponent[*components.UINodeComponent](em, chain[i], "node")
		if node.Parent != chain[i-1] {
			t.Errorf("Node %d parent = %d, want %d", chain[i], node.Parent, chain[i-1])
		}
	}

	viewportLayout := MustGetComponent[*components.UILayoutComponent](em, tree.Viewport, "viewport")
	if !viewportLayout.ClipY {
		t.Error("Viewport should clip vertically")
	}

	panelLayout := MustGetComponent[*components.UILayoutComponent](em, tree.ScrollView, "scroll view")
	if panelLayout.WidthPercent != cfg.PanelWidthPercent {
		t.Errorf("Panel WidthPercent = %v, want %v", panelLayout.WidthPercent, cfg.PanelWidthPercent)
	}
}

func TestMustGetComponent_PanicsWhenMissing(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected a panic for a missing dialogue view")
		}
		if msg, _ := r.(string); !strings.HasPrefix(msg, "[DialogueView]") {
			t.Errorf("Panic message %q should start with [DialogueView]", msg)
		}
	}()

	MustGetComponent[*components.DialogueLogComponent](em, id, "dialogue log")
}

func TestNewTextEntry_AppendsLast(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultDialogueViewConfig()
	tree := NewDialogueViewTree(em, cfg)

	first := NewTextEntry(em, tree.DialogueLog, "KIM - Hello.", cfg)
	second := NewTextEntry(em, tree.DialogueLog, "Bye.", cfg)

	node := MustGetComponent[*components.UINodeComponent](em, tree.DialogueLog, "log")
	if len(node.Children) != 2 || node.Children[0] != first || node.Children[1] != second {
		t.Fatalf("Children = %v, want [%d %d]", node.Children, first, second)
	}

	last, _ := LastChild(em, tree.DialogueLog)
	text := MustGetComponent[*components.UITextComponent](em, last, "entry")
	if text.Text != "Bye." {
		t.Errorf("Last entry text = %q, want %q", text.Text, "Bye.")
	}
}

func TestNewOptionButton(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultDialogueViewConfig()
	tree := NewDialogueViewTree(em, cfg)
	group := NewOptionsGroup(em, tree.DialogueLog)

	option := dialogue.DialogueOption{ID: 7, Line: dialogue.NewLine("l1", "Kim: Sure thing"), IsAvailable: true}
	button := NewOptionButton(em, group, 2, option, cfg)

	btn := MustGetComponent[*components.OptionButtonComponent](em, button, "button")
	if btn.OptionID != 7 || btn.Index != 2 {
		t.Errorf("Button = %+v, want OptionID 7, Index 2", btn)
	}
	if btn.Text != "Sure thing" {
		t.Errorf("Button text = %q, want character name stripped", btn.Text)
	}

	label := OptionLabel(em, button)
	if label.Text != "2: Sure thing" {
		t.Errorf("Label = %q, want %q", label.Text, "2: Sure thing")
	}
	if label.Color != cfg.MustColors().Option {
		t.Errorf("Label color = %v, want option color", label.Color)
	}
}

func TestDespawnRecursive(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultDialogueViewConfig()
	tree := NewDialogueViewTree(em, cfg)

	entry := NewTextEntry(em, tree.DialogueLog, "line", cfg)
	group := NewOptionsGroup(em, tree.DialogueLog)
	b1 := NewOptionButton(em, group, 1, dialogue.DialogueOption{ID: 0, Line: dialogue.NewLine("", "A"), IsAvailable: true}, cfg)
	b2 := NewOptionButton(em, group, 2, dialogue.DialogueOption{ID: 1, Line: dialogue.NewLine("", "B"), IsAvailable: true}, cfg)

	DespawnRecursive(em, group)

	node := MustGetComponent[*components.UINodeComponent](em, tree.DialogueLog, "log")
	if len(node.Children) != 1 || node.Children[0] != entry {
		t.Errorf("Log children after despawn = %v, want [%d]", node.Children, entry)
	}

	for _, id := range []ecs.EntityID{group, b1, b2} {
		if !em.IsMarkedForDestroy(id) {
			t.Errorf("Entity %d should be marked for destroy", id)
		}
	}

	// 按钮 + 标签 + 组
	if removed := em.RemoveMarkedEntities(); removed != 5 {
		t.Errorf("RemoveMarkedEntities = %d, want 5", removed)
	}
	if len(ecs.GetEntitiesWith1[*components.OptionButtonComponent](em)) != 0 {
		t.Error("No option button should remain")
	}
}

func TestVisitTree_Order(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultDialogueViewConfig()
	tree := NewDialogueViewTree(em, cfg)
	a := NewTextEntry(em, tree.DialogueLog, "a", cfg)
	b := NewTextEntry(em, tree.DialogueLog, "b", cfg)

	var visited []ecs.EntityID
	VisitTree(em, tree.Root, func(id ecs.EntityID, depth int) bool {
		visited = append(visited, id)
		return true
	})

	want := []ecs.EntityID{tree.Root, tree.ScrollView, tree.Viewport, tree.DialogueLog, a, b}
	if len(visited) != len(want) {
		t.Fatalf("Visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %d, want %d", i, visited[i], want[i])
		}
	}
}
