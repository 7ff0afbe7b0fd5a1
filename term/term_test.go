package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

func TestKeyCode(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want int
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), input.KeyUp},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), input.KeyDown},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), input.KeyLeft},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), input.KeyRight},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), input.KeyQ},
		{tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), input.KeyP},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), input.KeySpace},
		{tcell.NewEventKey(tcell.KeyRune, 'N', tcell.ModNone), input.KeyN},
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), input.KeyA},
	}
	for _, c := range cases {
		got, ok := KeyCode(c.ev)
		if !ok || got != c.want {
			t.Errorf("KeyCode(%v) = %d, %v; want %d", c.ev.Name(), got, ok, c.want)
		}
	}
	if _, ok := KeyCode(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)); ok {
		t.Error("unmapped rune should be ignored")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 40)
	return New(screen), screen
}

func TestStartForwardsCommands(t *testing.T) {
	term, screen := newSimTerminal(t)
	term.Start()

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)

	select {
	case cmd := <-term.Commands():
		if cmd != input.TurnTo(structs.Left) {
			t.Fatalf("cmd = %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no command forwarded")
	}

	term.Close()
	select {
	case _, ok := <-term.Commands():
		if ok {
			t.Fatal("unexpected command after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("commands not closed after Fini")
	}
}

func TestRender(t *testing.T) {
	term, screen := newSimTerminal(t)
	defer screen.Fini()
	snap := structs.Snapshot{
		State: structs.State{
			Snake: []structs.Position{{X: 1, Y: 1}, {X: -1, Y: 1}},
			Food:  structs.Position{X: 3, Y: 2},
		},
		GridSize: 10,
		Paused:   true,
	}
	if err := term.Render(snap); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestSilentSoundIgnoresOutcomes(t *testing.T) {
	s := &Sound{}
	s.Observe(structs.Snapshot{}, structs.Outcome{Ate: true, Collided: true})
	s.Close()
}
