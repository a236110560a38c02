// Package script provides a small YAML node-graph dialogue runtime.
//
// A script is a list of titled nodes. Each node is a sequence of steps:
// a line to present, a set of options to offer, a variable assignment,
// a jump to another node, or a stop. The runtime implements
// dialogue.Runner so it can drive the dialogue view directly.
package script

import "strings"

// Script is the root structure of a dialogue script file.
type Script struct {
	// Title is a human-readable name for the script (optional)
	Title string `yaml:"title"`

	// Start is the node used when no explicit node is requested (optional)
	Start string `yaml:"start"`

	// Variables holds the initial value of every boolean variable
	Variables map[string]bool `yaml:"variables"`

	// Nodes is the list of dialogue nodes, addressed by title
	Nodes []Node `yaml:"nodes"`

	nodeIndex map[string]int
}

// Node is a single titled sequence of steps.
type Node struct {
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps"`
}

// Step is one beat of a node. Exactly one of Line, Options, Set, Jump or
// Stop must be present.
type Step struct {
	// Line is the text to present, optionally prefixed with "Name: "
	Line string `yaml:"line,omitempty"`

	// ID is the line identifier forwarded to the view (optional)
	ID string `yaml:"id,omitempty"`

	// Options offers a choice to the player
	Options []Option `yaml:"options,omitempty"`

	// Set assigns Value to the named variable
	Set   string `yaml:"set,omitempty"`
	Value bool   `yaml:"value,omitempty"`

	// Jump moves execution to the start of another node
	Jump string `yaml:"jump,omitempty"`

	// Stop ends the dialogue
	Stop bool `yaml:"stop,omitempty"`
}

// Option is one branch of an options step.
type Option struct {
	// Text is the option text, optionally prefixed with "Name: "
	Text string `yaml:"text"`

	// If is a condition gating availability: "$var", "var" or "!$var".
	// An empty condition is always true.
	If string `yaml:"if,omitempty"`

	// Jump is the node entered when this option is selected. When empty,
	// execution continues with the step after the options step.
	Jump string `yaml:"jump,omitempty"`
}

// StepKind identifies which field of a Step is in use.
type StepKind int

const (
	StepInvalid StepKind = iota
	StepLine
	StepOptions
	StepSet
	StepJump
	StepStop
)

// String returns the YAML key of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepLine:
		return "line"
	case StepOptions:
		return "options"
	case StepSet:
		return "set"
	case StepJump:
		return "jump"
	case StepStop:
		return "stop"
	default:
		return "invalid"
	}
}

// Kind reports which kind of step this is, or StepInvalid when zero or
// more than one kind is populated.
func (s Step) Kind() StepKind {
	kind := StepInvalid
	count := 0
	if s.Line != "" {
		kind = StepLine
		count++
	}
	if len(s.Options) > 0 {
		kind = StepOptions
		count++
	}
	if s.Set != "" {
		kind = StepSet
		count++
	}
	if s.Jump != "" {
		kind = StepJump
		count++
	}
	if s.Stop {
		kind = StepStop
		count++
	}
	if count != 1 {
		return StepInvalid
	}
	return kind
}

// Node returns the node with the given title.
func (s *Script) Node(title string) (*Node, bool) {
	if s.nodeIndex == nil {
		s.buildIndex()
	}
	i, ok := s.nodeIndex[title]
	if !ok {
		return nil, false
	}
	return &s.Nodes[i], true
}

// NodeTitles returns every node title in file order.
func (s *Script) NodeTitles() []string {
	titles := make([]string, 0, len(s.Nodes))
	for _, node := range s.Nodes {
		titles = append(titles, node.Title)
	}
	return titles
}

func (s *Script) buildIndex() {
	s.nodeIndex = make(map[string]int, len(s.Nodes))
	for i, node := range s.Nodes {
		if _, exists := s.nodeIndex[node.Title]; !exists {
			s.nodeIndex[node.Title] = i
		}
	}
}

// parseCondition splits a condition into its variable name and whether it
// is negated.
func parseCondition(cond string) (name string, negated bool) {
	cond = strings.TrimSpace(cond)
	if strings.HasPrefix(cond, "!") {
		negated = true
		cond = strings.TrimSpace(cond[1:])
	}
	return strings.TrimPrefix(cond, "$"), negated
}
