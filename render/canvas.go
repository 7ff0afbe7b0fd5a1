package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-canvas/memimg"
	"github.com/hoshinonyaruko/snake-canvas/structs"
	"golang.org/x/image/font/basicfont"
)

// StatusHeight is the strip under the grid that carries the score line.
const StatusHeight = 20

// 全局缓存 网格背景只绘制一次
var drawingCache sync.Map

// Canvas draws snapshots with gg and keeps the latest frame for readers.
type Canvas struct {
	cellSize int
	sprites  *memimg.Sprites

	mu    sync.RWMutex
	image image.Image
	frame []byte
	snap  structs.Snapshot
}

// NewCanvas creates a canvas renderer. sprites may be nil.
func NewCanvas(cellSize int, sprites *memimg.Sprites) *Canvas {
	return &Canvas{cellSize: cellSize, sprites: sprites}
}

// Size returns the pixel dimensions for a grid.
func (c *Canvas) Size(gridSize int) (int, int) {
	side := gridSize * c.cellSize
	return side, side + StatusHeight
}

// Render implements loop.Renderer: it draws snap and encodes it as PNG.
func (c *Canvas) Render(snap structs.Snapshot) error {
	img := c.Draw(snap)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	c.mu.Lock()
	c.image = img
	c.frame = buf.Bytes()
	c.snap = snap
	c.mu.Unlock()
	return nil
}

// Frame returns the latest PNG frame, or nil before the first render.
func (c *Canvas) Frame() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// Image returns the latest frame as an image.
func (c *Canvas) Image() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.image
}

// Snapshot returns the state the latest frame was drawn from.
func (c *Canvas) Snapshot() structs.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Draw renders snap into a new image.
func (c *Canvas) Draw(snap structs.Snapshot) image.Image {
	width, height := c.Size(snap.GridSize)
	cell := float64(c.cellSize)

	dc := gg.NewContext(width, height)
	dc.DrawImage(c.background(snap.GridSize), 0, 0)

	// 蛇身 每个格子留出边距
	dc.SetRGB(0, 1, 0)
	for i, seg := range snap.Snake {
		if !seg.In(snap.GridSize) {
			continue
		}
		if i == 0 && c.drawSprite(dc, "head", seg) {
			continue
		}
		dc.DrawRectangle((float64(seg.X)+0.1)*cell, (float64(seg.Y)+0.1)*cell, 0.8*cell, 0.8*cell)
		dc.Fill()
	}

	// 食物 优先使用图片
	if snap.Food.In(snap.GridSize) && !c.drawSprite(dc, "food", snap.Food) {
		dc.SetRGB(1, 0, 0)
		dc.DrawCircle((float64(snap.Food.X)+0.5)*cell, (float64(snap.Food.Y)+0.5)*cell, 0.5*cell)
		dc.Fill()
	}

	c.drawStatus(dc, snap, width, height)
	return dc.Image()
}

func (c *Canvas) drawSprite(dc *gg.Context, name string, p structs.Position) bool {
	if c.sprites == nil {
		return false
	}
	img, found := c.sprites.Get(name)
	if !found {
		return false
	}
	dc.DrawImage(img, p.X*c.cellSize, p.Y*c.cellSize)
	return true
}

func (c *Canvas) drawStatus(dc *gg.Context, snap structs.Snapshot, width, height int) {
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawRectangle(0, float64(height-StatusHeight), float64(width), StatusHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	line := fmt.Sprintf("score %d  best %d  len %d  %s", snap.Score, snap.Best, len(snap.Snake), snap.Heading)
	dc.DrawStringAnchored(line, 4, float64(height)-StatusHeight/2, 0, 0.35)

	if snap.Paused {
		side := float64(width)
		dc.SetRGBA(0, 0, 0, 0.5)
		dc.DrawRectangle(0, 0, side, side)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored("PAUSED", side/2, side/2, 0.5, 0.5)
	}
}

// background returns the cached white grid for a board size.
func (c *Canvas) background(gridSize int) image.Image {
	cacheKey := fmt.Sprintf("%d_%d", gridSize, c.cellSize)
	if cached, ok := drawingCache.Load(cacheKey); ok {
		return cached.(image.Image)
	}

	side := gridSize * c.cellSize
	dc := gg.NewContext(side, side)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, side, side, c.cellSize)
	img := dc.Image()
	drawingCache.Store(cacheKey, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// Scale enlarges img by an integer factor without smoothing the cells.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.NearestNeighbor)
}
