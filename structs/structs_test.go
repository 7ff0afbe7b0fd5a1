package structs

import (
	"encoding/json"
	"testing"
)

func TestHeadingDeltaAndOpposite(t *testing.T) {
	cases := []struct {
		h        Heading
		delta    Position
		opposite Heading
	}{
		{Up, Position{0, -1}, Down},
		{Down, Position{0, 1}, Up},
		{Left, Position{-1, 0}, Right},
		{Right, Position{1, 0}, Left},
		{None, Position{}, None},
	}
	for _, c := range cases {
		if got := c.h.Delta(); got != c.delta {
			t.Errorf("%v.Delta() = %v, want %v", c.h, got, c.delta)
		}
		if got := c.h.Opposite(); got != c.opposite {
			t.Errorf("%v.Opposite() = %v, want %v", c.h, got, c.opposite)
		}
		back, ok := ParseHeading(c.h.String())
		if !ok || back != c.h {
			t.Errorf("ParseHeading(%q) = %v, %v", c.h.String(), back, ok)
		}
	}
	if _, ok := ParseHeading("sideways"); ok {
		t.Error("ParseHeading accepted an unknown name")
	}
}

func TestPositionIn(t *testing.T) {
	for _, p := range []Position{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if p.In(10) {
			t.Errorf("%v should be outside a 10 grid", p)
		}
	}
	if !(Position{9, 0}).In(10) || !(Position{0, 0}).In(10) {
		t.Error("border cells should be inside")
	}
}

func TestCopyDoesNotAlias(t *testing.T) {
	s := State{Snake: []Position{{1, 1}, {1, 2}}}
	c := s.Copy()
	c.Snake[0] = Position{9, 9}
	if s.Snake[0] != (Position{1, 1}) {
		t.Fatal("copy shares the snake slice")
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{State: State{Snake: []Position{{5, 5}}, Heading: Left}, GridSize: 25}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["heading"] != "left" {
		t.Errorf("heading = %v, want left", m["heading"])
	}
	if m["grid_size"] != float64(25) {
		t.Errorf("grid_size = %v", m["grid_size"])
	}
}
