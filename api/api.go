package api

import (
	"bytes"
	"database/sql"
	_ "embed"
	"fmt"
	"image/png"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/render"
	"github.com/hoshinonyaruko/snake-canvas/sqlite"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

//go:embed index.html
var indexPage []byte

const (
	maxScale       = 8
	defaultRounds  = 10
	maxRoundsLimit = 100
)

// Deps are the collaborators the routes read from or write to.
type Deps struct {
	Queue  *input.Queue
	Canvas *render.Canvas
	Hub    *Hub
	DB     *sql.DB
}

// Register mounts every route on router.
func Register(router *gin.Engine, d Deps) {
	// 页面
	router.GET("/", IndexHandler())
	// 最新一帧画面
	router.GET("/frame.png", FrameHandler(d.Canvas))
	// 当前状态
	router.GET("/state", StateHandler(d.Canvas))
	// 处理按键
	router.GET("/key", KeyHandler(d.Queue))
	// 本进程内的对局记录
	router.GET("/rounds", RoundsHandler(d.DB))
	router.GET("/ws", d.Hub.Handler())
}

func IndexHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	}
}

func KeyHandler(q *input.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 也接受方向名 如 direction=up
		if direction := c.Query("direction"); direction != "" {
			h, ok := structs.ParseHeading(direction)
			if !ok || h == structs.None {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid direction '%s' provided", direction)})
				return
			}
			c.JSON(http.StatusOK, gin.H{"accepted": q.Push(input.TurnTo(h))})
			return
		}

		raw := c.Query("code")
		// 验证是否提供了必要的查询参数
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: code or direction"})
			return
		}
		code, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code must be an integer key code"})
			return
		}
		// 退出键只在终端模式有效
		c.JSON(http.StatusOK, gin.H{"accepted": q.PushRemoteKey(code)})
	}
}

func FrameHandler(canvas *render.Canvas) gin.HandlerFunc {
	return func(c *gin.Context) {
		scale, err := strconv.Atoi(c.DefaultQuery("scale", "1"))
		if err != nil || scale < 1 || scale > maxScale {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scale must be between 1 and 8"})
			return
		}
		frame := canvas.Frame()
		if frame == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
			return
		}
		c.Header("Cache-Control", "no-store")
		if scale == 1 {
			c.Data(http.StatusOK, "image/png", frame)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, render.Scale(canvas.Image(), scale)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode frame"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func StateHandler(canvas *render.Canvas) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, canvas.Snapshot())
	}
}

func RoundsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRounds)))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit > maxRoundsLimit {
			limit = maxRoundsLimit
		}
		rounds, err := sqlite.RecentRounds(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch rounds"})
			return
		}
		best, err := sqlite.BestScore(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch best score"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"best": best, "rounds": rounds})
	}
}
