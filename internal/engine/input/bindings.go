package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a logical control, bound to a physical key by name.
type Action string

// Actions.
const (
	ActionForward         Action = "forward"
	ActionBackward        Action = "backward"
	ActionStrafeLeft      Action = "strafe_left"
	ActionStrafeRight     Action = "strafe_right"
	ActionSprint          Action = "sprint"
	ActionRollLeft        Action = "roll_left"
	ActionRollRight       Action = "roll_right"
	ActionLook            Action = "look"
	ActionDebugPrint      Action = "debug_print"
	ActionToggleWireframe Action = "toggle_wireframe"
	ActionReloadShaders   Action = "reload_shaders"
	ActionScreenshot      Action = "screenshot"
	ActionQuit            Action = "quit"
)

// Actions lists every known action.
var Actions = []Action{
	ActionForward,
	ActionBackward,
	ActionStrafeLeft,
	ActionStrafeRight,
	ActionSprint,
	ActionRollLeft,
	ActionRollRight,
	ActionLook,
	ActionDebugPrint,
	ActionToggleWireframe,
	ActionReloadShaders,
	ActionScreenshot,
	ActionQuit,
}

// Mouse button key names. Every other key name is backend-defined
// (SDL key names, which the GLFW backend maps to its own key codes).
const (
	MouseLeft   = "Mouse Left"
	MouseRight  = "Mouse Right"
	MouseMiddle = "Mouse Middle"
)

// ParseAction converts a config name to an Action.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Bindings maps actions to key names.
type Bindings map[Action]string

// DefaultBindings returns the LearnOpenGL control scheme.
func DefaultBindings() Bindings {
	return Bindings{
		ActionForward:         "W",
		ActionBackward:        "S",
		ActionStrafeLeft:      "A",
		ActionStrafeRight:     "D",
		ActionSprint:          "Left Shift",
		ActionRollLeft:        "Q",
		ActionRollRight:       "E",
		ActionLook:            MouseRight,
		ActionDebugPrint:      "P",
		ActionToggleWireframe: "F1",
		ActionReloadShaders:   "F5",
		ActionScreenshot:      "F2",
		ActionQuit:            "Escape",
	}
}

// Key returns the key name bound to a.
func (b Bindings) Key(a Action) (string, bool) {
	k, ok := b[a]
	return k, ok && k != ""
}

// Lookup returns the actions bound to key, compared case-insensitively,
// in a stable order.
func (b Bindings) Lookup(key string) []Action {
	var out []Action
	for a, k := range b {
		if strings.EqualFold(k, key) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsMouse reports whether key names a mouse button.
func IsMouse(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "mouse ")
}
