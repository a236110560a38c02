package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	updateErr    error
	saved        bool
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) error {
	m.updateCalled = true
	m.deltaTime = deltaTime
	return m.updateErr
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// SaveOnExit records that the scene was asked to save.
func (m *MockScene) SaveOnExit() bool {
	m.saved = true
	return true
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.currentScene != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	if err := sm.Update(deltaTime); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerUpdateError verifies that scene errors propagate.
func TestSceneManagerUpdateError(t *testing.T) {
	sentinel := errors.New("desync")
	sm := NewSceneManager()
	sm.SwitchTo(&MockScene{updateErr: sentinel})

	if err := sm.Update(0.016); !errors.Is(err, sentinel) {
		t.Errorf("Update error = %v, want %v", err, sentinel)
	}
}

// TestSceneManagerUpdateNoScene verifies that Update handles nil scene gracefully.
func TestSceneManagerUpdateNoScene(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Update(0.016); err != nil {
		t.Errorf("Update without scene returned %v", err)
	}
}

// TestSceneManagerDraw verifies that Draw calls the current scene's Draw method.
func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	screen := ebiten.NewImage(800, 600)
	sm.Draw(screen)

	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerStartDialogue verifies that the factory result becomes the active scene.
func TestSceneManagerStartDialogue(t *testing.T) {
	tests := []struct {
		name       string
		factory    SceneFactory
		wantErr    bool
		wantSwitch bool
	}{
		{"未设置工厂", nil, true, false},
		{"工厂创建成功", func(string) (Scene, error) { return &MockScene{}, nil }, false, true},
		{"工厂返回错误", func(string) (Scene, error) { return nil, errors.New("missing node") }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSceneManager()
			sm.SetSceneFactory(tt.factory)

			err := sm.StartDialogue("HelloWorld")
			if (err != nil) != tt.wantErr {
				t.Fatalf("StartDialogue error = %v, wantErr %v", err, tt.wantErr)
			}
			if (sm.GetCurrentScene() != nil) != tt.wantSwitch {
				t.Errorf("current scene = %v, want switched = %v", sm.GetCurrentScene(), tt.wantSwitch)
			}
		})
	}
}

// TestSceneManagerSaveOnExit verifies Saveable scenes are notified.
func TestSceneManagerSaveOnExit(t *testing.T) {
	sm := NewSceneManager()
	if !sm.SaveOnExit() {
		t.Error("SaveOnExit without scene should succeed")
	}

	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)
	if !sm.SaveOnExit() || !mockScene.saved {
		t.Error("SaveOnExit should reach the current scene")
	}
}
