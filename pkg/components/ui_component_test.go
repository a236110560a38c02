package components

import "testing"

// TestUIState tests that UIState constants are defined correctly.
func TestUIState(t *testing.T) {
	tests := []struct {
		name  string
		state UIState
		value int
		str   string
	}{
		{"UINormal should be 0", UINormal, 0, "Normal"},
		{"UIHovered should be 1", UIHovered, 1, "Hovered"},
		{"UIPressed should be 2", UIPressed, 2, "Pressed"},
		{"UIDisabled should be 3", UIDisabled, 3, "Disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.state) != tt.value {
				t.Errorf("Expected %s to be %d, got %d", tt.name, tt.value, int(tt.state))
			}
			if tt.state.String() != tt.str {
				t.Errorf("Expected String() = %q, got %q", tt.str, tt.state.String())
			}
		})
	}

	if UIState(99).String() != "Unknown" {
		t.Error("Out-of-range state should print as Unknown")
	}
}

// TestSelectionPhaseString tests the selection phase names used in logs.
func TestSelectionPhaseString(t *testing.T) {
	phases := map[SelectionPhase]string{
		SelectionInactive:   "Inactive",
		SelectionPresenting: "Presenting",
		SelectionResolving:  "Resolving",
		SelectionPhase(-1):  "Unknown",
	}
	for phase, want := range phases {
		if got := phase.String(); got != want {
			t.Errorf("SelectionPhase(%d).String() = %q, want %q", int(phase), got, want)
		}
	}
}
