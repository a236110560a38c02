package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseScript parses and validates a YAML dialogue script.
//
// Parameters:
//   - data: raw YAML content
//
// Returns:
//   - *Script: the parsed script with its node index built
//   - error: a parse or validation error
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script YAML: %w", err)
	}

	if s.Variables == nil {
		s.Variables = make(map[string]bool)
	}
	if s.Start == "" && len(s.Nodes) > 0 {
		s.Start = s.Nodes[0].Title
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}

	s.buildIndex()
	return &s, nil
}

// LoadScriptFile reads and parses a dialogue script from disk.
//
// Example:
//
//	s, err := LoadScriptFile("data/dialogues/hello_world.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to load script: %v", err)
//	}
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file '%s': %w", path, err)
	}

	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("invalid script '%s': %w", path, err)
	}
	return s, nil
}

// Validate checks node titles, step shapes and jump targets.
func Validate(s *Script) error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("script has no nodes")
	}

	titles := make(map[string]bool, len(s.Nodes))
	for i, node := range s.Nodes {
		if node.Title == "" {
			return fmt.Errorf("node %d has no title", i)
		}
		if titles[node.Title] {
			return fmt.Errorf("duplicate node title %q", node.Title)
		}
		titles[node.Title] = true
	}

	if s.Start != "" && !titles[s.Start] {
		return fmt.Errorf("start node %q: %w", s.Start, ErrNodeNotFound)
	}

	for _, node := range s.Nodes {
		for j, step := range node.Steps {
			switch step.Kind() {
			case StepInvalid:
				return fmt.Errorf("node %q step %d: exactly one of line/options/set/jump/stop is required", node.Title, j)
			case StepJump:
				if !titles[step.Jump] {
					return fmt.Errorf("node %q step %d: jump to %q: %w", node.Title, j, step.Jump, ErrNodeNotFound)
				}
			case StepOptions:
				for k, option := range step.Options {
					if option.Text == "" {
						return fmt.Errorf("node %q step %d option %d: text is required", node.Title, j, k)
					}
					if option.Jump != "" && !titles[option.Jump] {
						return fmt.Errorf("node %q step %d option %d: jump to %q: %w", node.Title, j, k, option.Jump, ErrNodeNotFound)
					}
				}
			}
		}
	}

	return nil
}
