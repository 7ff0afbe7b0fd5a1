package structs

// Position 描述网格上的一个坐标位置。
type Position struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Add returns the position shifted by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// In reports whether p lies inside a size x size grid.
func (p Position) In(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

// Heading is the direction applied on the next step.
type Heading int

const (
	None Heading = iota
	Up
	Down
	Left
	Right
)

// Delta returns the unit vector of the heading. Up decreases Y (screen coordinates).
func (h Heading) Delta() Position {
	switch h {
	case Up:
		return Position{X: 0, Y: -1}
	case Down:
		return Position{X: 0, Y: 1}
	case Left:
		return Position{X: -1, Y: 0}
	case Right:
		return Position{X: 1, Y: 0}
	default:
		return Position{}
	}
}

// Opposite returns the reverse heading. None is its own opposite.
func (h Heading) Opposite() Heading {
	switch h {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

func (h Heading) String() string {
	switch h {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// MarshalText keeps the JSON form readable ("up", "none", ...).
func (h Heading) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// ParseHeading is the inverse of String. Unknown names map to None.
func ParseHeading(s string) (Heading, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "none":
		return None, true
	}
	return None, false
}

// State 描述一局游戏的全部可变状态，只由驱动循环持有。
type State struct {
	Snake       []Position `json:"snake"`        // 头部在下标0
	Heading     Heading    `json:"heading"`      // 下一步使用的方向
	LastHeading Heading    `json:"last_heading"` // 最近一次执行移动时的方向
	Food        Position   `json:"food"`
	Score       int        `json:"score"`
	Ticks       int        `json:"ticks"` // 本局已执行的移动次数
}

// Head returns the first segment. The snake is never empty.
func (s *State) Head() Position {
	return s.Snake[0]
}

// Snapshot 是交给渲染器的只读副本。
type Snapshot struct {
	State
	GridSize int  `json:"grid_size"`
	Paused   bool `json:"paused"`
	Best     int  `json:"best"`   // 本进程内最高分
	Rounds   int  `json:"rounds"` // 本进程内已结束的局数
}

// Copy returns a snapshot whose snake slice does not alias the state.
func (s *State) Copy() State {
	c := *s
	c.Snake = append([]Position(nil), s.Snake...)
	return c
}

// Cause 描述一局结束的原因。
type Cause string

const (
	CauseNone Cause = ""
	CauseWall Cause = "wall"
	CauseSelf Cause = "self"
)

// Outcome is what a single step did. Final* fields hold the values seen
// right before a collision reset.
type Outcome struct {
	Moved       bool  `json:"moved"`
	Ate         bool  `json:"ate"`
	Collided    bool  `json:"collided"`
	Cause       Cause `json:"cause,omitempty"`
	FinalScore  int   `json:"final_score"`
	FinalLength int   `json:"final_length"`
	FinalTicks  int   `json:"final_ticks"`
}

// Round 描述一局已结束的游戏，用于记录。
type Round struct {
	ID      string `json:"id"`
	Score   int    `json:"score"`
	Length  int    `json:"length"`
	Ticks   int    `json:"ticks"`
	Cause   Cause  `json:"cause"`
	EndedAt int64  `json:"ended_at"` // 时间戳
}
