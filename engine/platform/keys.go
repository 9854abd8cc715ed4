package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anima2d/engine/core"
)

var keymap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
}

var reverseKeymap = make(map[core.KeyCode]glfw.Key)

func init() {
	// digits and letters share their ASCII codes in both tables
	for key := glfw.Key0; key <= glfw.Key9; key++ {
		keymap[key] = core.KEY_0 + core.KeyCode(key-glfw.Key0)
	}
	for key := glfw.KeyA; key <= glfw.KeyZ; key++ {
		keymap[key] = core.KEY_A + core.KeyCode(key-glfw.KeyA)
	}
	for key := glfw.KeyF1; key <= glfw.KeyF12; key++ {
		keymap[key] = core.KEY_F1 + core.KeyCode(key-glfw.KeyF1)
	}
	for glfwKey, code := range keymap {
		reverseKeymap[code] = glfwKey
	}
}

func fromGLFWKey(key glfw.Key) (core.KeyCode, bool) {
	code, ok := keymap[key]
	return code, ok
}

func toGLFWKey(code core.KeyCode) (glfw.Key, bool) {
	key, ok := reverseKeymap[code]
	return key, ok
}
