package core

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Framebuffer resized. Data: *ResizeEvent
	EVENT_CODE_RESIZED EventCode = 0x08

	// A watched asset changed on disk. Data: *AssetEvent
	EVENT_CODE_ASSET_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type KeyEvent struct {
	KeyCode KeyCode
}

type ResizeEvent struct {
	Width  int
	Height int
}

type AssetEvent struct {
	Path    string
	Removed bool
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously on the calling goroutine. Everything
// in the render loop runs on the main thread, so no locking is done here.
type EventBus struct {
	registered map[EventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

// Register a listener for the given code. A listener can only be registered
// once per code; duplicates return false.
func (eb *EventBus) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	for _, e := range eb.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func (eb *EventBus) Unregister(code EventCode, listener interface{}) bool {
	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire sends the event to the listeners of its code in registration order.
// Once a handler returns true the event is considered handled and is not
// passed to the remaining listeners.
func (eb *EventBus) Fire(context EventContext) bool {
	for _, e := range eb.registered[context.Type] {
		if e.callback(context) {
			return true
		}
	}
	return false
}

func (eb *EventBus) Shutdown() {
	for code := range eb.registered {
		delete(eb.registered, code)
	}
}
