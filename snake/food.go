package snake

import (
	"math/rand"

	"github.com/hoshinonyaruko/snake-canvas/structs"
)

// FoodPolicy decides where eaten food reappears.
type FoodPolicy string

const (
	// PolicyUniform picks any cell, the snake's own cells included.
	PolicyUniform FoodPolicy = "uniform"
	// PolicyFree picks uniformly among cells the snake does not cover.
	PolicyFree FoodPolicy = "free"
)

// Valid reports whether p is a known policy.
func (p FoodPolicy) Valid() bool {
	return p == PolicyUniform || p == PolicyFree
}

func (b *Board) intn(n int) int {
	if b.rnd != nil {
		return b.rnd.Intn(n)
	}
	return rand.Intn(n)
}

// GenerateRandomPosition 生成一个随机位置
func (b *Board) GenerateRandomPosition() structs.Position {
	return structs.Position{
		X: b.intn(b.size),
		Y: b.intn(b.size),
	}
}

func (b *Board) spawnFood(s *structs.State) structs.Position {
	if b.policy != PolicyFree {
		return b.GenerateRandomPosition()
	}

	// 收集所有未被蛇占据的格子
	occupied := make(map[structs.Position]bool, len(s.Snake))
	for _, seg := range s.Snake {
		occupied[seg] = true
	}
	free := make([]structs.Position, 0, b.size*b.size)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			p := structs.Position{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		// 棋盘已满
		return b.GenerateRandomPosition()
	}
	return free[b.intn(len(free))]
}
