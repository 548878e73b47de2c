package window

import (
	"fmt"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwKeys maps lowercase SDL-style key names to GLFW keys, so one
// bindings file works with both backends.
var glfwKeys = buildGLFWKeys()

// glfwKeyNames is the reverse of glfwKeys with the canonical spelling.
var glfwKeyNames = map[glfw.Key]string{}

func buildGLFWKeys() map[string]glfw.Key {
	keys := make(map[string]glfw.Key)
	add := func(name string, k glfw.Key) {
		keys[strings.ToLower(name)] = k
		if _, ok := glfwKeyNames[k]; !ok {
			glfwKeyNames[k] = name
		}
	}

	for i := 0; i < 26; i++ {
		add(string(rune('A'+i)), glfw.KeyA+glfw.Key(i))
	}
	for i := 0; i < 10; i++ {
		add(string(rune('0'+i)), glfw.Key0+glfw.Key(i))
		add(fmt.Sprintf("Keypad %d", i), glfw.KeyKP0+glfw.Key(i))
	}
	for i := 0; i < 12; i++ {
		add(fmt.Sprintf("F%d", i+1), glfw.KeyF1+glfw.Key(i))
	}

	named := []struct {
		name string
		key  glfw.Key
	}{
		{"Space", glfw.KeySpace},
		{"Escape", glfw.KeyEscape},
		{"Return", glfw.KeyEnter},
		{"Enter", glfw.KeyEnter},
		{"Tab", glfw.KeyTab},
		{"Backspace", glfw.KeyBackspace},
		{"Insert", glfw.KeyInsert},
		{"Delete", glfw.KeyDelete},
		{"Home", glfw.KeyHome},
		{"End", glfw.KeyEnd},
		{"PageUp", glfw.KeyPageUp},
		{"PageDown", glfw.KeyPageDown},
		{"Up", glfw.KeyUp},
		{"Down", glfw.KeyDown},
		{"Left", glfw.KeyLeft},
		{"Right", glfw.KeyRight},
		{"Left Shift", glfw.KeyLeftShift},
		{"Right Shift", glfw.KeyRightShift},
		{"Left Ctrl", glfw.KeyLeftControl},
		{"Right Ctrl", glfw.KeyRightControl},
		{"Left Alt", glfw.KeyLeftAlt},
		{"Right Alt", glfw.KeyRightAlt},
		{"-", glfw.KeyMinus},
		{"=", glfw.KeyEqual},
		{",", glfw.KeyComma},
		{".", glfw.KeyPeriod},
		{"/", glfw.KeySlash},
		{";", glfw.KeySemicolon},
		{"'", glfw.KeyApostrophe},
		{"[", glfw.KeyLeftBracket},
		{"]", glfw.KeyRightBracket},
		{"\\", glfw.KeyBackslash},
		{"`", glfw.KeyGraveAccent},
	}
	for _, n := range named {
		add(n.name, n.key)
	}
	return keys
}

// glfwKey returns the GLFW key for a key name, ignoring case.
func glfwKey(name string) (glfw.Key, bool) {
	k, ok := glfwKeys[strings.ToLower(name)]
	return k, ok
}

// glfwKeyName returns the binding name of a GLFW key.
func glfwKeyName(k glfw.Key) (string, bool) {
	name, ok := glfwKeyNames[k]
	return name, ok
}
