// Package term is the terminal front end: a tcell screen that draws the
// board and turns key presses into driver commands.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

var (
	styleBoard  = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSnake  = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Terminal wraps a tcell screen. It is both a loop.Renderer and a loop.Source.
type Terminal struct {
	screen tcell.Screen
	cmds   chan input.Command
}

// Open initializes the real terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return New(screen), nil
}

// New wraps an already initialized screen.
func New(screen tcell.Screen) *Terminal {
	screen.SetStyle(styleBoard)
	screen.HideCursor()
	return &Terminal{
		screen: screen,
		cmds:   make(chan input.Command, 16),
	}
}

// Start polls key events until the screen is finalized, then closes Commands.
func (t *Terminal) Start() {
	go func() {
		defer close(t.cmds)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				code, ok := KeyCode(ev)
				if !ok {
					continue
				}
				cmd, ok := input.ParseKey(code)
				if !ok {
					continue
				}
				select {
				case t.cmds <- cmd:
				default:
					// driver busy, drop the press
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}()
}

// Commands implements loop.Source.
func (t *Terminal) Commands() <-chan input.Command {
	return t.cmds
}

// Close restores the terminal; the polling goroutine then exits.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// KeyCode maps a tcell key event onto the shared browser key code table.
func KeyCode(ev *tcell.EventKey) (int, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyUp, true
	case tcell.KeyDown:
		return input.KeyDown, true
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.KeyQ, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return input.KeyW, true
		case 'a', 'A':
			return input.KeyA, true
		case 's', 'S':
			return input.KeyS, true
		case 'd', 'D':
			return input.KeyD, true
		case 'p', 'P':
			return input.KeyP, true
		case ' ':
			return input.KeySpace, true
		case 'n', 'N':
			return input.KeyN, true
		case 'q', 'Q':
			return input.KeyQ, true
		}
	}
	return 0, false
}

// Render implements loop.Renderer. Each cell is two columns wide so the
// board looks square.
func (t *Terminal) Render(snap structs.Snapshot) error {
	s := t.screen
	s.Clear()

	size := snap.GridSize
	right, bottom := size*2+1, size+1
	for x := 0; x <= right; x++ {
		s.SetContent(x, 0, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := 0; y <= bottom; y++ {
		s.SetContent(0, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(0, 0, '┌', nil, styleBorder)
	s.SetContent(right, 0, '┐', nil, styleBorder)
	s.SetContent(0, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)

	if snap.Food.In(size) {
		t.cell(snap.Food, '●', styleFood)
	}
	for _, seg := range snap.Snake {
		if seg.In(size) {
			t.cell(seg, '█', styleSnake)
		}
	}

	status := fmt.Sprintf("score %d  best %d  rounds %d  %s", snap.Score, snap.Best, snap.Rounds, snap.Heading)
	if snap.Paused {
		status += "  [PAUSED]"
	}
	drawText(s, 0, bottom+1, status, styleText)
	drawText(s, 0, bottom+2, "arrows/wasd move  p pause  n step  q quit", styleBorder)

	s.Show()
	return nil
}

func (t *Terminal) cell(p structs.Position, r rune, style tcell.Style) {
	x, y := p.X*2+1, p.Y+1
	t.screen.SetContent(x, y, r, nil, style)
	t.screen.SetContent(x+1, y, r, nil, style)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
