package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-canvas/api"
	"github.com/hoshinonyaruko/snake-canvas/config"
	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/loop"
	"github.com/hoshinonyaruko/snake-canvas/memimg"
	"github.com/hoshinonyaruko/snake-canvas/render"
	"github.com/hoshinonyaruko/snake-canvas/snake"
	"github.com/hoshinonyaruko/snake-canvas/sqlite"
	"github.com/hoshinonyaruko/snake-canvas/structs"
	"github.com/hoshinonyaruko/snake-canvas/term"
)

const configPath = "./config.json"

var shutdownTimeout = 5 * time.Second

func main() {
	// Initialize the configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	EnsureFoldersExist(cfg.Assets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 检测配置变化并热更新移动间隔
	if err := config.Watch(ctx, configPath); err != nil {
		log.Printf("config watch disabled: %v", err)
	}

	board, err := snake.NewBoard(snake.Options{
		GridSize:  cfg.GridSize,
		Start:     structs.Position{X: cfg.StartX, Y: cfg.StartY},
		FoodStart: structs.Position{X: cfg.FoodX, Y: cfg.FoodY},
		Policy:    snake.FoodPolicy(cfg.FoodPolicy),
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	if err != nil {
		log.Fatalf("Invalid board settings: %v", err)
	}

	db, err := sqlite.Open(sqlite.MemoryDSN)
	if err != nil {
		log.Fatalf("Failed to open round ledger: %v", err)
	}
	defer db.Close()
	ledger := &sqlite.Ledger{DB: db}

	switch cfg.Frontend {
	case "terminal":
		err = runTerminal(ctx, cfg, board, ledger)
	default:
		err = runWeb(ctx, cfg, board, ledger)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runWeb(ctx context.Context, cfg config.AppConfig, board *snake.Board, ledger *sqlite.Ledger) error {
	// 载入图片到内存
	sprites := memimg.New(cfg.Assets, cfg.CellSize)
	if err := sprites.Load(); err != nil {
		log.Printf("Failed to load sprites: %v", err)
	}
	// 检测并热更新到内存
	if err := sprites.Watch(ctx); err != nil {
		log.Printf("sprite watch disabled: %v", err)
	}

	queue := input.NewQueue(16)
	canvas := render.NewCanvas(cfg.CellSize, sprites)
	hub := api.NewHub(queue)

	driver, err := loop.New(loop.Options{
		Board:     board,
		Source:    queue,
		Renderers: []loop.Renderer{canvas, hub},
		Observers: []loop.Observer{ledger},
		Interval:  config.TickInterval,
	})
	if err != nil {
		return err
	}

	router := gin.Default()
	api.Register(router, api.Deps{Queue: queue, Canvas: canvas, Hub: hub, DB: ledger.DB})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		if err := driver.Run(ctx); err != nil {
			log.Printf("game loop: %v", err)
		}
	}()

	log.Printf("listening on :%s", cfg.Port)
	return serve(ctx, srv)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Printf("server shutdown: %v", err)
		}
		errc <- err
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// 等待关闭完成
	return <-errc
}

func runTerminal(ctx context.Context, cfg config.AppConfig, board *snake.Board, ledger *sqlite.Ledger) error {
	// 终端模式下日志写入文件，避免打乱画面
	logFile, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	screen, err := term.Open()
	if err != nil {
		return err
	}
	defer screen.Close()
	screen.Start()

	observers := []loop.Observer{ledger}
	if cfg.Sound {
		sound := term.NewSound()
		defer sound.Close()
		observers = append(observers, sound)
	}

	driver, err := loop.New(loop.Options{
		Board:     board,
		Source:    screen,
		Renderers: []loop.Renderer{screen},
		Observers: observers,
		Interval:  config.TickInterval,
	})
	if err != nil {
		return err
	}
	return driver.Run(ctx)
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
