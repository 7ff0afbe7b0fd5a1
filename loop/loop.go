// Package loop drives the simulation at a fixed interval and fans the
// resulting snapshots out to renderers.
package loop

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/snake"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

// Renderer draws a snapshot. Its error never affects the simulation.
type Renderer interface {
	Render(snap structs.Snapshot) error
}

// Source delivers decoded key presses.
type Source interface {
	Commands() <-chan input.Command
}

// Observer is told about every executed step.
type Observer interface {
	Observe(snap structs.Snapshot, out structs.Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(snap structs.Snapshot, out structs.Outcome)

func (f ObserverFunc) Observe(snap structs.Snapshot, out structs.Outcome) { f(snap, out) }

// Options wires a driver.
type Options struct {
	Board     *snake.Board
	Source    Source
	Renderers []Renderer
	Observers []Observer
	// Interval is consulted before every tick; nil means DefaultInterval.
	Interval func() time.Duration
}

// DefaultInterval matches the half-second pace of the classic game.
const DefaultInterval = 500 * time.Millisecond

// Driver owns the game state. All methods must be called from the goroutine
// running Run, or before Run starts.
type Driver struct {
	board     *snake.Board
	state     *structs.State
	source    Source
	renderers []Renderer
	observers []Observer
	interval  func() time.Duration

	paused bool
	best   int
	rounds int
}

// New creates a driver with a freshly initialized state.
func New(opts Options) (*Driver, error) {
	if opts.Board == nil {
		return nil, errors.New("loop: board is required")
	}
	interval := opts.Interval
	if interval == nil {
		interval = func() time.Duration { return DefaultInterval }
	}
	return &Driver{
		board:     opts.Board,
		state:     opts.Board.NewState(),
		source:    opts.Source,
		renderers: opts.Renderers,
		observers: opts.Observers,
		interval:  interval,
	}, nil
}

// Run renders once, then ticks until ctx is done, the source closes, or a
// Quit command arrives. The next tick is armed only after the current one
// has finished.
func (d *Driver) Run(ctx context.Context) error {
	var cmds <-chan input.Command
	if d.source != nil {
		cmds = d.source.Commands()
	}

	d.render()
	timer := time.NewTimer(d.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			if !d.Handle(cmd) {
				return nil
			}
		case <-timer.C:
			d.Tick()
			timer.Reset(d.nextInterval())
		}
	}
}

func (d *Driver) nextInterval() time.Duration {
	iv := d.interval()
	if iv <= 0 {
		return DefaultInterval
	}
	return iv
}

// Handle applies one command. It returns false when the driver should stop.
func (d *Driver) Handle(cmd input.Command) bool {
	switch cmd.Kind {
	case input.Turn:
		// 只记录方向，下一次 Tick 时生效
		snake.SetHeading(d.state, cmd.Heading)
	case input.Pause:
		d.paused = !d.paused
		d.render()
	case input.Step:
		d.step()
		d.render()
	case input.Quit:
		return false
	}
	return true
}

// Tick is one timer firing: step unless paused, then render.
func (d *Driver) Tick() {
	if !d.paused {
		d.step()
	}
	d.render()
}

func (d *Driver) step() {
	out := d.board.Step(d.state)
	if out.Ate && d.state.Score > d.best {
		d.best = d.state.Score
	}
	if out.Collided {
		d.rounds++
		if out.FinalScore > d.best {
			d.best = out.FinalScore
		}
	}
	if !out.Moved || len(d.observers) == 0 {
		return
	}
	snap := d.Snapshot()
	for _, o := range d.observers {
		o.Observe(snap, out)
	}
}

func (d *Driver) render() {
	if len(d.renderers) == 0 {
		return
	}
	snap := d.Snapshot()
	for _, r := range d.renderers {
		if err := r.Render(snap); err != nil {
			log.Printf("render: %v", err)
		}
	}
}

// Paused reports the pause state.
func (d *Driver) Paused() bool { return d.paused }

// Snapshot copies the current state for readers outside the loop.
func (d *Driver) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		State:    d.state.Copy(),
		GridSize: d.board.Size(),
		Paused:   d.paused,
		Best:     d.best,
		Rounds:   d.rounds,
	}
}
