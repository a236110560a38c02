package scenes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/game"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/decker502/yarnview/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const shortScript = `
start: Greeting
nodes:
  - title: Greeting
    steps:
      - line: "Kim: Hello."
      - line: "Kim: Bye."
      - stop: true
  - title: Other
    steps:
      - line: "Somewhere else."
`

// sceneInput 场景测试用的 mock 输入，只支持按键
type sceneInput struct {
	keys map[ebiten.Key]bool
}

func (m *sceneInput) IsKeyJustPressed(key ebiten.Key) bool                    { return m.keys[key] }
func (m *sceneInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool { return false }
func (m *sceneInput) AnyTouchJustPressed() bool                               { return false }
func (m *sceneInput) PointerState() (bool, int, int)                          { return false, -1, -1 }
func (m *sceneInput) PointerJustPressed() bool                                { return false }
func (m *sceneInput) WheelEvents() []systems.WheelEvent                       { return nil }
func (m *sceneInput) SetCursorShape(shape ebiten.CursorShapeType)             {}

// runeMeasurer 每个字符 8 像素
type runeMeasurer struct{}

func (runeMeasurer) MeasureWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) * 8 }

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func newTestScene(t *testing.T, startNode string, settings *game.SettingsManager) (*DialogueScene, *sceneInput) {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	input := &sceneInput{keys: map[ebiten.Key]bool{}}
	scene, err := NewDialogueScene(game.NewResourceManager(), DialogueSceneOptions{
		ScriptPath: writeScript(t, shortScript),
		StartNode:  startNode,
		ViewConfig: config.DefaultDialogueViewConfig(),
		Settings:   settings,
		Input:      input,
		Measurer:   runeMeasurer{},
		Metrics:    metrics,
	})
	if err != nil {
		t.Fatalf("NewDialogueScene failed: %v", err)
	}
	return scene, input
}

// frame 按下指定按键推进一帧
func frame(t *testing.T, scene *DialogueScene, input *sceneInput, keys ...ebiten.Key) {
	t.Helper()
	input.keys = map[ebiten.Key]bool{}
	for _, k := range keys {
		input.keys[k] = true
	}
	if err := scene.Update(1.0 / 60.0); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestDialogueScene_RunsScript(t *testing.T) {
	tests := []struct {
		name      string
		startNode string
		wantFirst string
	}{
		{"使用脚本默认起始节点", "", "KIM - Hello."},
		{"指定起始节点", "Other", "Somewhere else."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, input := newTestScene(t, tt.startNode, nil)

			frame(t, scene, input)

			view := scene.DialogueView()
			if !view.IsVisible() {
				t.Error("Dialogue view should be visible after the first frame")
			}
			texts := view.LogTexts()
			if len(texts) != 1 || texts[0] != tt.wantFirst {
				t.Errorf("LogTexts = %v, want [%q]", texts, tt.wantFirst)
			}
		})
	}
}

func TestDialogueScene_ContinueToEnd(t *testing.T) {
	scene, input := newTestScene(t, "", nil)

	frame(t, scene, input)
	frame(t, scene, input, ebiten.KeySpace)
	frame(t, scene, input)

	texts := scene.DialogueView().LogTexts()
	if strings.Join(texts, "|") != "KIM - Hello.|KIM - Bye." {
		t.Errorf("LogTexts = %v", texts)
	}

	frame(t, scene, input, ebiten.KeySpace)
	frame(t, scene, input)
	if scene.Runner().IsRunning() {
		t.Error("Runner should stop after the last line")
	}
}

func TestDialogueScene_FontKeys(t *testing.T) {
	settings, _ := game.NewSettingsManager(nil)
	scene, input := newTestScene(t, "", settings)
	base := scene.FontSize()

	frame(t, scene, input, ebiten.KeyEqual)
	if scene.FontSize() != base+FontSizeStep {
		t.Errorf("FontSize after + = %v, want %v", scene.FontSize(), base+FontSizeStep)
	}
	if settings.GetSettings().FontSize != base+FontSizeStep {
		t.Errorf("Settings FontSize = %v, want %v", settings.GetSettings().FontSize, base+FontSizeStep)
	}

	frame(t, scene, input, ebiten.KeyMinus)
	frame(t, scene, input, ebiten.KeyMinus)
	if scene.FontSize() != base-FontSizeStep {
		t.Errorf("FontSize after two - = %v, want %v", scene.FontSize(), base-FontSizeStep)
	}

	if !scene.SaveOnExit() {
		t.Error("SaveOnExit in degraded mode should succeed")
	}
}

func TestDialogueScene_ScrollKeys(t *testing.T) {
	settings, _ := game.NewSettingsManager(nil)
	scene, input := newTestScene(t, "", settings)
	base := scene.ScrollLinePixels()

	frame(t, scene, input, ebiten.KeyBracketRight)
	if scene.ScrollLinePixels() != base+ScrollStepPixels {
		t.Errorf("ScrollLinePixels after ] = %v, want %v", scene.ScrollLinePixels(), base+ScrollStepPixels)
	}
	if settings.GetSettings().ScrollLinePixels != base+ScrollStepPixels {
		t.Errorf("Settings ScrollLinePixels = %v, want %v", settings.GetSettings().ScrollLinePixels, base+ScrollStepPixels)
	}

	for i := 0; i < 10; i++ {
		frame(t, scene, input, ebiten.KeyBracketLeft)
	}
	if scene.ScrollLinePixels() != game.MinScrollLinePixels {
		t.Errorf("ScrollLinePixels should clamp to %v, got %v", game.MinScrollLinePixels, scene.ScrollLinePixels())
	}
}

func TestNewDialogueScene_Errors(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		startNode string
	}{
		{"脚本语法错误", "nodes: [", ""},
		{"起始节点不存在", shortScript, "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDialogueScene(game.NewResourceManager(), DialogueSceneOptions{
				ScriptPath: writeScript(t, tt.script),
				StartNode:  tt.startNode,
				Input:      &sceneInput{},
				Measurer:   runeMeasurer{},
			})
			if err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
