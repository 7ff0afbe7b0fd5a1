package input

import "github.com/hoshinonyaruko/snake-canvas/structs"

// Kind is what a key press asks the driver to do.
type Kind int

const (
	Turn Kind = iota + 1
	Pause
	Step
	Quit
)

// Command is one decoded key press.
type Command struct {
	Kind    Kind
	Heading structs.Heading // only for Turn
}

// Key codes use the browser keyCode numbering so both front ends share one table.
const (
	KeySpace = 32
	KeyLeft  = 37
	KeyUp    = 38
	KeyRight = 39
	KeyDown  = 40
	KeyA     = 65
	KeyD     = 68
	KeyN     = 78
	KeyP     = 80
	KeyQ     = 81
	KeyS     = 83
	KeyW     = 87
)

// ParseKey maps a key code to a command. Unknown codes report ok=false.
func ParseKey(code int) (cmd Command, ok bool) {
	switch code {
	case KeyUp, KeyW:
		return TurnTo(structs.Up), true
	case KeyDown, KeyS:
		return TurnTo(structs.Down), true
	case KeyLeft, KeyA:
		return TurnTo(structs.Left), true
	case KeyRight, KeyD:
		return TurnTo(structs.Right), true
	case KeyP, KeySpace:
		return Command{Kind: Pause}, true
	case KeyN:
		return Command{Kind: Step}, true
	case KeyQ:
		return Command{Kind: Quit}, true
	}
	return Command{}, false
}

// ParseRemoteKey is ParseKey for keys arriving over HTTP or websocket.
// Quit belongs to the terminal only; a page must not stop the game loop.
func ParseRemoteKey(code int) (Command, bool) {
	cmd, ok := ParseKey(code)
	if !ok || cmd.Kind == Quit {
		return Command{}, false
	}
	return cmd, true
}

// TurnTo builds a Turn command.
func TurnTo(h structs.Heading) Command {
	return Command{Kind: Turn, Heading: h}
}

// Queue is a buffered command channel shared by producers that must never
// block on a busy driver. A full queue drops the press.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue holding up to size commands.
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues cmd and reports whether it was accepted.
func (q *Queue) Push(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// PushKey decodes code and enqueues it. Unknown codes are ignored.
func (q *Queue) PushKey(code int) bool {
	cmd, ok := ParseKey(code)
	if !ok {
		return false
	}
	return q.Push(cmd)
}

// PushRemoteKey is PushKey restricted to ParseRemoteKey.
func (q *Queue) PushRemoteKey(code int) bool {
	cmd, ok := ParseRemoteKey(code)
	if !ok {
		return false
	}
	return q.Push(cmd)
}

// Commands implements loop.Source.
func (q *Queue) Commands() <-chan Command {
	return q.ch
}
