package core

import "fmt"

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_0         KeyCode = 0x30
	KEY_1         KeyCode = 0x31
	KEY_2         KeyCode = 0x32
	KEY_3         KeyCode = 0x33
	KEY_4         KeyCode = 0x34
	KEY_5         KeyCode = 0x35
	KEY_6         KeyCode = 0x36
	KEY_7         KeyCode = 0x37
	KEY_8         KeyCode = 0x38
	KEY_9         KeyCode = 0x39
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_F5        KeyCode = 0x74
	KEY_F6        KeyCode = 0x75
	KEY_F7        KeyCode = 0x76
	KEY_F8        KeyCode = 0x77
	KEY_F9        KeyCode = 0x78
	KEY_F10       KeyCode = 0x79
	KEY_F11       KeyCode = 0x7A
	KEY_F12       KeyCode = 0x7B
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3

	KEYS_MAX_KEYS KeyCode = 0xFF
)

// KeyState is the state of a key as reported by the window layer.
type KeyState uint8

const (
	KeyStateRelease KeyState = iota
	KeyStatePress
	KeyStateRepeat
)

func (s KeyState) String() string {
	switch s {
	case KeyStateRelease:
		return "release"
	case KeyStatePress:
		return "press"
	case KeyStateRepeat:
		return "repeat"
	}
	return fmt.Sprintf("KeyState(%d)", uint8(s))
}

// ParseKeyState converts a raw window-layer action code. Unknown codes are
// reported, never guessed.
func ParseKeyState(action int) (KeyState, error) {
	switch KeyState(action) {
	case KeyStateRelease, KeyStatePress, KeyStateRepeat:
		if action >= 0 {
			return KeyState(action), nil
		}
	}
	return 0, fmt.Errorf("action %d: %w", action, ErrUnknownKeyState)
}

// IsDown reports whether the key is held, including auto-repeat.
func (s KeyState) IsDown() bool {
	return s == KeyStatePress || s == KeyStateRepeat
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS + 1]bool
}

// Input holds the current and previous keyboard states. The window layer feeds
// it through ProcessKey and the engine rolls it over once per frame.
type Input struct {
	current  KeyboardState
	previous KeyboardState
	events   *EventBus
}

func NewInput(events *EventBus) *Input {
	return &Input{events: events}
}

// Update copies the current state into the previous one.
func (in *Input) Update() {
	in.previous = in.current
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.current.Keys[key]
}

func (in *Input) IsKeyUp(key KeyCode) bool {
	return !in.current.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.previous.Keys[key]
}

// IsKeyPressed is true only on the frame the key went down.
func (in *Input) IsKeyPressed(key KeyCode) bool {
	return in.current.Keys[key] && !in.previous.Keys[key]
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if in.current.Keys[key] == pressed {
		return
	}
	in.current.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	if in.events != nil {
		in.events.Fire(EventContext{
			Type: code,
			Data: &KeyEvent{KeyCode: key},
		})
	}
}
