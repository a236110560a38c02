package systems

import (
	"context"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/dialogue"
	"github.com/decker502/yarnview/pkg/observe"
	"github.com/hajimehoshi/ebiten/v2"
)

// ContinueSystem 把通用的"继续"输入转发给 Runner
//
// 空格、回车、小键盘回车、鼠标左键或新的触摸都视为继续。
// 有待选择的选项（或本帧刚做出选择）时整体忽略；
// 只转发给正在运行且不在等待选项的 Runner。
type ContinueSystem struct {
	input   DialogueInput
	runners []dialogue.Runner
	state   *components.OptionSelectionState
	metrics *observe.Metrics
}

// NewContinueSystem 创建继续系统
func NewContinueSystem(input DialogueInput, runners []dialogue.Runner, state *components.OptionSelectionState, metrics *observe.Metrics) *ContinueSystem {
	return &ContinueSystem{
		input:   input,
		runners: runners,
		state:   state,
		metrics: metrics,
	}
}

// Update 检测继续输入
func (s *ContinueSystem) Update() {
	if s.state.BlocksContinue() || !s.continueRequested() {
		return
	}

	continued := 0
	for _, runner := range s.runners {
		if runner.IsRunning() && !runner.IsWaitingForOptionSelection() {
			runner.Continue()
			continued++
		}
	}
	if continued > 0 {
		s.metrics.RecordContinue(context.Background(), continued)
	}
}

func (s *ContinueSystem) continueRequested() bool {
	for _, key := range ContinueKeys {
		if s.input.IsKeyJustPressed(key) {
			return true
		}
	}
	return s.input.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || s.input.AnyTouchJustPressed()
}
