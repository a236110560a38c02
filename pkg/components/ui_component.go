package components

// UIState represents the current pointer interaction state of a UI element.
type UIState int

const (
	// UINormal indicates the pointer is not over the element.
	UINormal UIState = iota
	// UIHovered indicates the pointer is hovering over the element.
	UIHovered
	// UIPressed indicates the element was pressed and the pointer is still held on it.
	UIPressed
	// UIDisabled indicates the element ignores pointer input.
	UIDisabled
)

// String returns a readable name for the state.
func (s UIState) String() string {
	switch s {
	case UINormal:
		return "Normal"
	case UIHovered:
		return "Hovered"
	case UIPressed:
		return "Pressed"
	case UIDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// UIComponent marks an entity as an interactive UI element and tracks its
// interaction state.
//
// Changed is set by UIInteractionSystem for exactly the frame in which State
// moved to a new value, so a transition into UIPressed is a "just pressed"
// edge that fires once per press.
type UIComponent struct {
	// State is the current interaction state of the UI element.
	State UIState
	// Changed reports whether State changed during the current frame.
	Changed bool
}
