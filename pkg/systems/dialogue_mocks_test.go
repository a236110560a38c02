package systems

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/ecs"
	"github.com/decker502/yarnview/pkg/entities"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/hajimehoshi/ebiten/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// mockDialogueInput 用于测试的 mock 输入
// 边沿状态（刚按下）需要测试自己在每帧之间调用 clearEdges
type mockDialogueInput struct {
	keys               map[ebiten.Key]bool
	mouseJustPressed   bool
	touchJustPressed   bool
	pointerPressed     bool
	pointerJustPressed bool
	pointerX, pointerY int
	wheel              []WheelEvent

	cursor     ebiten.CursorShapeType
	cursorSets int
}

func newMockDialogueInput() *mockDialogueInput {
	return &mockDialogueInput{
		keys:     make(map[ebiten.Key]bool),
		pointerX: -1000,
		pointerY: -1000,
	}
}

func (m *mockDialogueInput) IsKeyJustPressed(key ebiten.Key) bool {
	return m.keys[key]
}

func (m *mockDialogueInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return button == ebiten.MouseButtonLeft && m.mouseJustPressed
}

func (m *mockDialogueInput) AnyTouchJustPressed() bool {
	return m.touchJustPressed
}

func (m *mockDialogueInput) PointerState() (bool, int, int) {
	return m.pointerPressed, m.pointerX, m.pointerY
}

func (m *mockDialogueInput) PointerJustPressed() bool {
	return m.pointerJustPressed
}

func (m *mockDialogueInput) WheelEvents() []WheelEvent {
	return m.wheel
}

func (m *mockDialogueInput) SetCursorShape(shape ebiten.CursorShapeType) {
	m.cursor = shape
	m.cursorSets++
}

func (m *mockDialogueInput) pressKey(key ebiten.Key) {
	m.keys[key] = true
}

// click 模拟在 (x, y) 处按下鼠标左键
func (m *mockDialogueInput) click(x, y int) {
	m.pointerX, m.pointerY = x, y
	m.pointerPressed = true
	m.pointerJustPressed = true
	m.mouseJustPressed = true
}

func (m *mockDialogueInput) clearEdges() {
	m.keys = make(map[ebiten.Key]bool)
	m.mouseJustPressed = false
	m.touchJustPressed = false
	m.pointerJustPressed = false
	m.pointerPressed = false
	m.wheel = nil
}

// fakeRunner 记录调用的 Runner
type fakeRunner struct {
	running   bool
	waiting   bool
	continues int
	selected  []dialogue.OptionID
	selectErr error
	node      string
}

func (r *fakeRunner) StartNode(name string) error    { r.running = true; return nil }
func (r *fakeRunner) Update(deltaTime float64) error { return nil }
func (r *fakeRunner) IsRunning() bool                { return r.running }
func (r *fakeRunner) IsWaitingForOptionSelection() bool {
	return r.waiting
}

func (r *fakeRunner) CurrentNode() string { return r.node }

func (r *fakeRunner) Continue() {
	r.continues++
}

func (r *fakeRunner) SelectOption(id dialogue.OptionID) error {
	if r.selectErr != nil {
		return r.selectErr
	}
	r.selected = append(r.selected, id)
	r.waiting = false
	return nil
}

// fixedMeasurer 每个字符 8 像素
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 8
}

// testMetrics 返回基于 ManualReader 的指标
func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

// dialogueFixture 一套完整的对话界面系统（不含渲染）
type dialogueFixture struct {
	em     *ecs.EntityManager
	bus    *dialogue.EventBus
	cfg    *config.DialogueViewConfig
	tree   *entities.DialogueViewTree
	state  *components.OptionSelectionState
	input  *mockDialogueInput
	runner *fakeRunner

	interaction *UIInteractionSystem
	options     *OptionSelectionSystem
	lines       *LinePresenterSystem
	cont        *ContinueSystem
	scroll      *LogScrollSystem
	layout      *DialogueLayoutSystem
}

// newDialogueFixture 屏幕 400x200，面板占 50%（x ∈ [200, 400)），行高 20
func newDialogueFixture(t *testing.T) *dialogueFixture {
	t.Helper()

	cfg := config.DefaultDialogueViewConfig()
	cfg.PanelWidthPercent = 50
	cfg.FontSize = 16
	cfg.LineHeight = 20
	cfg.EntryPaddingY = 0
	cfg.EntryMarginPercent = 0

	f := &dialogueFixture{
		em:     ecs.NewEntityManager(),
		bus:    dialogue.NewEventBus(),
		cfg:    cfg,
		state:  &components.OptionSelectionState{},
		input:  newMockDialogueInput(),
		runner: &fakeRunner{running: true},
	}
	f.tree = entities.NewDialogueViewTree(f.em, cfg)

	metrics := testMetrics(t)
	runners := []dialogue.Runner{f.runner}
	f.interaction = NewUIInteractionSystem(f.em, f.tree.Root, f.input)
	f.options = NewOptionSelectionSystem(f.em, f.tree, f.bus, cfg, f.input, runners, f.state, metrics)
	f.lines = NewLinePresenterSystem(f.em, f.tree, f.bus, cfg, metrics)
	f.cont = NewContinueSystem(f.input, runners, f.state, metrics)
	f.scroll = NewLogScrollSystem(f.em, f.tree, f.input, metrics, cfg.ScrollLinePixels)
	f.layout = NewDialogueLayoutSystem(f.em, f.tree.Root, fixedMeasurer{}, cfg.LineHeight, 400, 200)
	return f
}

// tick 按模块的固定顺序执行一帧，然后清空事件和输入边沿
func (f *dialogueFixture) tick(t *testing.T) error {
	t.Helper()

	f.interaction.Update()
	f.options.CreateWidgets()
	if err := f.options.ResolveInput(); err != nil {
		return err
	}
	f.options.Teardown()

	f.lines.ShowDialogue()
	f.lines.PresentLines()
	f.options.CaptureOptions()
	f.cont.Update()
	f.scroll.HandleScrollInput()
	f.layout.Update()
	if f.scroll.ScrollToNewest() {
		f.layout.Update()
	}

	f.em.RemoveMarkedEntities()
	f.state.EndFrame()
	f.bus.EndFrame()
	f.input.clearEdges()
	return nil
}

func (f *dialogueFixture) mustTick(t *testing.T) {
	t.Helper()
	if err := f.tick(t); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
}

// logTexts 日志中的文本条目
func (f *dialogueFixture) logTexts() []string {
	node := entities.MustGetComponent[*components.UINodeComponent](f.em, f.tree.DialogueLog, "log")
	var texts []string
	for _, child := range node.Children {
		if txt, ok := ecs.GetComponent[*components.UITextComponent](f.em, child); ok {
			texts = append(texts, txt.Text)
		}
	}
	return texts
}

// optionButtons 当前存活的选项按钮（按创建顺序）
func (f *dialogueFixture) optionButtons() []ecs.EntityID {
	var alive []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.OptionButtonComponent](f.em) {
		if !f.em.IsMarkedForDestroy(id) {
			alive = append(alive, id)
		}
	}
	return alive
}

func (f *dialogueFixture) scrollPosition() float64 {
	return entities.MustGetComponent[*components.DialogueLogComponent](f.em, f.tree.DialogueLog, "log").Position
}

func opt(id int, text string, available bool) dialogue.DialogueOption {
	return dialogue.DialogueOption{ID: dialogue.OptionID(id), Line: dialogue.NewLine("", text), IsAvailable: available}
}
