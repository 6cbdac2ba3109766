// Package input routes discrete user events to registered handlers and
// renders the key help table. Dispatch is single-threaded: events are
// delivered one at a time from the thread that owns the window.
package input

// Kind discriminates event variants.
type Kind int

const (
	KeyPress Kind = iota
	MousePress
	MouseRelease
	MouseDrag
	MouseMove
	Scroll
)

// Key codes follow the GLFW/raylib convention: printable keys are their
// uppercase ASCII value, specials sit above 255.
type Key int32

const (
	KeyNone         Key = 0
	KeySpace        Key = 32
	KeyMinus        Key = 45
	KeyEqual        Key = 61
	KeyB            Key = 66
	KeyH            Key = 72
	KeyM            Key = 77
	KeyQ            Key = 81
	KeyR            Key = 82
	KeyS            Key = 83
	KeyV            Key = 86
	KeyLeftBracket  Key = 91
	KeyRightBracket Key = 93
	KeyEscape       Key = 256
	KeyEnter        Key = 257
	KeyTab          Key = 258
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
)

// Mod is a bitmask of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Button identifies a mouse button, numbered like raylib.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

// Event is a single discrete input occurrence. Fields beyond Kind are
// populated as relevant: Key/Mods for key presses, Button and cursor
// position for mouse events, DX/DY for drags, ScrollY for wheel motion.
type Event struct {
	Kind    Kind
	Key     Key
	Mods    Mod
	Button  Button
	X, Y    float64
	DX, DY  float64
	ScrollY float64
}
