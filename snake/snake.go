// 关于蛇的移动、成长、碰撞和重置
package snake

import (
	"fmt"
	"math/rand"

	"github.com/hoshinonyaruko/snake-canvas/structs"
)

// Options 描述一个棋盘的固定参数。
type Options struct {
	GridSize  int
	Start     structs.Position // 蛇的初始位置
	FoodStart structs.Position // 食物的初始位置
	Policy    FoodPolicy
	Rand      *rand.Rand // nil 时使用全局随机源
}

// Board applies the simulation rules to a State it does not own.
type Board struct {
	size      int
	start     structs.Position
	foodStart structs.Position
	policy    FoodPolicy
	rnd       *rand.Rand
}

// NewBoard validates opts and returns a board.
func NewBoard(opts Options) (*Board, error) {
	if opts.GridSize <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %d", opts.GridSize)
	}
	if !opts.Start.In(opts.GridSize) {
		return nil, fmt.Errorf("start position %v outside %dx%d grid", opts.Start, opts.GridSize, opts.GridSize)
	}
	if !opts.FoodStart.In(opts.GridSize) {
		return nil, fmt.Errorf("food start position %v outside %dx%d grid", opts.FoodStart, opts.GridSize, opts.GridSize)
	}
	policy := opts.Policy
	if policy == "" {
		policy = PolicyUniform
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown food policy %q", policy)
	}
	return &Board{
		size:      opts.GridSize,
		start:     opts.Start,
		foodStart: opts.FoodStart,
		policy:    policy,
		rnd:       opts.Rand,
	}, nil
}

// Size returns the grid dimension.
func (b *Board) Size() int { return b.size }

// NewState returns a freshly initialized state, food included.
func (b *Board) NewState() *structs.State {
	s := &structs.State{Food: b.foodStart}
	b.Reset(s)
	return s
}

// Reset restores snake, heading and score to their start values. Food is left as-is.
func (b *Board) Reset(s *structs.State) {
	s.Snake = []structs.Position{b.start}
	s.Heading = structs.None
	s.LastHeading = structs.None
	s.Score = 0
	s.Ticks = 0
}

// SetHeading records h as the heading for the next step. It refuses None and
// the reverse of the heading used on the last executed step.
func SetHeading(s *structs.State, h structs.Heading) bool {
	if h == structs.None {
		return false
	}
	if s.LastHeading != structs.None && h == s.LastHeading.Opposite() {
		return false
	}
	s.Heading = h
	return true
}

// Step advances s by one tick using s.Heading.
func (b *Board) Step(s *structs.State) structs.Outcome {
	var out structs.Outcome
	if s.Heading == structs.None {
		return out
	}
	out.Moved = true

	head := s.Head().Add(s.Heading.Delta())

	if head == s.Food {
		// 吃到食物，尾部保留，长度加一
		s.Score++
		out.Ate = true
	} else {
		s.Snake = s.Snake[:len(s.Snake)-1]
	}

	s.Snake = append(s.Snake, structs.Position{})
	copy(s.Snake[1:], s.Snake[:len(s.Snake)-1])
	s.Snake[0] = head
	s.LastHeading = s.Heading
	s.Ticks++

	if out.Ate {
		s.Food = b.spawnFood(s)
	}

	// 碰撞检测使用移除尾部之后的身体
	if cause := b.collision(s); cause != structs.CauseNone {
		out.Collided = true
		out.Cause = cause
		out.FinalScore = s.Score
		out.FinalLength = len(s.Snake)
		out.FinalTicks = s.Ticks
		b.Reset(s)
	}
	return out
}

func (b *Board) collision(s *structs.State) structs.Cause {
	head := s.Head()
	if !head.In(b.size) {
		return structs.CauseWall
	}
	for _, seg := range s.Snake[1:] {
		if seg == head {
			return structs.CauseSelf
		}
	}
	return structs.CauseNone
}
