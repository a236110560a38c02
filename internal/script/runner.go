package script

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/yarnview/pkg/dialogue"
)

var (
	// ErrNodeNotFound is returned when a node title does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNotWaitingForOption is returned by SelectOption when no options
	// are currently offered.
	ErrNotWaitingForOption = errors.New("runner is not waiting for an option selection")

	// ErrInvalidOptionID is returned by SelectOption for an id that was not
	// offered or is unavailable.
	ErrInvalidOptionID = errors.New("option id was not offered or is unavailable")

	// ErrRunawayScript is returned when a single update executes more
	// non-presenting steps than maxStepsPerUpdate, e.g. a jump cycle with
	// no line in it.
	ErrRunawayScript = errors.New("script executed too many steps without presenting content")
)

// maxStepsPerUpdate bounds set/jump chains executed in one update.
const maxStepsPerUpdate = 10000

// Runner executes a Script and implements dialogue.Runner.
//
// Commands are deferred the same way a frame-driven runtime expects:
// StartNode, Continue and SelectOption only record intent, and the next
// Update performs the work and sends events.
type Runner struct {
	script    *Script
	events    *dialogue.EventBus
	variables map[string]bool

	running bool
	waiting bool

	node *Node
	pc   int

	pendingStart    bool
	pendingContinue bool

	offered     []dialogue.DialogueOption
	offeredJump map[dialogue.OptionID]string
}

// NewRunner creates a runner that writes its events into bus.
func NewRunner(s *Script, bus *dialogue.EventBus) *Runner {
	variables := make(map[string]bool, len(s.Variables))
	for name, value := range s.Variables {
		variables[name] = value
	}
	return &Runner{
		script:    s,
		events:    bus,
		variables: variables,
	}
}

// StartNode starts (or restarts) the dialogue at the given node. The
// DialogueStartEvent and the first beat are sent by the next Update.
func (r *Runner) StartNode(name string) error {
	node, ok := r.script.Node(name)
	if !ok {
		return fmt.Errorf("start %q: %w", name, ErrNodeNotFound)
	}
	if r.running {
		log.Printf("[ScriptRunner] Restarting while running, previous node %q abandoned", r.node.Title)
	}
	r.node = node
	r.pc = 0
	r.running = true
	r.waiting = false
	r.offered = nil
	r.offeredJump = nil
	r.pendingStart = true
	r.pendingContinue = false
	return nil
}

// Update performs any pending start or continue.
func (r *Runner) Update(deltaTime float64) error {
	switch {
	case r.pendingStart:
		r.pendingStart = false
		r.pendingContinue = false
		r.events.DialogueStarted.Send(dialogue.DialogueStartEvent{})
		return r.advance()
	case r.pendingContinue:
		r.pendingContinue = false
		return r.advance()
	}
	return nil
}

// Continue requests the next beat on the next Update. It is ignored while
// the runner is stopped or waiting for an option selection.
func (r *Runner) Continue() {
	if !r.running || r.waiting {
		return
	}
	r.pendingContinue = true
}

// SelectOption selects one of the currently offered options and schedules
// the dialogue to continue on the next Update.
func (r *Runner) SelectOption(id dialogue.OptionID) error {
	if !r.running || !r.waiting {
		return fmt.Errorf("select option %d: %w", id, ErrNotWaitingForOption)
	}

	valid := false
	for _, option := range r.offered {
		if option.ID == id && option.IsAvailable {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("select option %d: %w", id, ErrInvalidOptionID)
	}

	if target := r.offeredJump[id]; target != "" {
		node, _ := r.script.Node(target)
		r.node = node
		r.pc = 0
	}

	r.waiting = false
	r.offered = nil
	r.offeredJump = nil
	r.pendingContinue = true
	return nil
}

// IsRunning reports whether a dialogue is in progress.
func (r *Runner) IsRunning() bool {
	return r.running
}

// IsWaitingForOptionSelection reports whether options are on offer.
func (r *Runner) IsWaitingForOptionSelection() bool {
	return r.waiting
}

// Variable returns the current value of a variable.
func (r *Runner) Variable(name string) bool {
	return r.variables[name]
}

// CurrentNode returns the title of the node being executed, or "".
func (r *Runner) CurrentNode() string {
	if r.node == nil {
		return ""
	}
	return r.node.Title
}

// advance executes steps until a line or options step presents content,
// or the dialogue ends.
func (r *Runner) advance() error {
	for executed := 0; executed < maxStepsPerUpdate; executed++ {
		if r.node == nil || r.pc >= len(r.node.Steps) {
			r.complete()
			return nil
		}

		step := r.node.Steps[r.pc]
		r.pc++

		switch step.Kind() {
		case StepLine:
			r.events.LineReady.Send(dialogue.PresentLineEvent{
				Line: dialogue.NewLine(step.ID, step.Line),
			})
			return nil

		case StepOptions:
			r.offerOptions(step.Options)
			return nil

		case StepSet:
			r.variables[step.Set] = step.Value

		case StepJump:
			node, ok := r.script.Node(step.Jump)
			if !ok {
				return fmt.Errorf("jump from %q to %q: %w", r.node.Title, step.Jump, ErrNodeNotFound)
			}
			r.node = node
			r.pc = 0

		case StepStop:
			r.complete()
			return nil

		default:
			return fmt.Errorf("node %q step %d: invalid step", r.node.Title, r.pc-1)
		}
	}

	return fmt.Errorf("node %q: %w", r.CurrentNode(), ErrRunawayScript)
}

// offerOptions sends the options (available or not) and waits.
// Option ids are the option's index within the step.
func (r *Runner) offerOptions(options []Option) {
	r.offered = make([]dialogue.DialogueOption, 0, len(options))
	r.offeredJump = make(map[dialogue.OptionID]string, len(options))

	for i, option := range options {
		id := dialogue.OptionID(i)
		r.offered = append(r.offered, dialogue.DialogueOption{
			ID:          id,
			Line:        dialogue.NewLine("", option.Text),
			IsAvailable: r.evaluate(option.If),
		})
		r.offeredJump[id] = option.Jump
	}

	r.waiting = true

	// The event carries a copy so the view can filter it freely.
	event := dialogue.PresentOptionsEvent{
		Options: append([]dialogue.DialogueOption(nil), r.offered...),
	}
	r.events.OptionsReady.Send(event)
}

func (r *Runner) evaluate(cond string) bool {
	if cond == "" {
		return true
	}
	name, negated := parseCondition(cond)
	value := r.variables[name]
	if negated {
		return !value
	}
	return value
}

func (r *Runner) complete() {
	r.running = false
	r.waiting = false
	r.node = nil
	r.pc = 0
	r.offered = nil
	r.offeredJump = nil
	r.pendingContinue = false
	r.events.DialogueComplete.Send(dialogue.DialogueCompleteEvent{})
}

var _ dialogue.Runner = (*Runner)(nil)
