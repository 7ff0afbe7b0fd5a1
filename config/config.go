package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Port       string `json:"port"`
	Frontend   string `json:"frontend"`    // "web" or "terminal"
	GridSize   int    `json:"grid_size"`   // cells per side
	CellSize   int    `json:"cell_size"`   // pixels per cell
	TickMS     int    `json:"tick_ms"`     // hot reloadable
	FoodPolicy string `json:"food_policy"` // "uniform" or "free"
	Assets     string `json:"assets"`      // sprite directory
	Sound      bool   `json:"sound"`
	StartX     int    `json:"start_x"`
	StartY     int    `json:"start_y"`
	FoodX      int    `json:"food_x"`
	FoodY      int    `json:"food_y"`
}

// Default returns the built-in settings.
func Default() AppConfig {
	return AppConfig{
		Port:       "38870",
		Frontend:   "web",
		GridSize:   25,
		CellSize:   20,
		TickMS:     500,
		FoodPolicy: "uniform",
		Assets:     "./assets",
		Sound:      true,
		StartX:     5,
		StartY:     5,
		FoodX:      10,
		FoodY:      10,
	}
}

var (
	instance = Default()
	mu       sync.RWMutex
)

// LoadConfig reads filePath into the shared instance, creating the file with
// defaults when it does not exist.
func LoadConfig(filePath string) (AppConfig, error) {
	cfg := Default()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, cfg); err != nil {
			return cfg, err
		}
	} else {
		if err := loadConfig(filePath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filePath, err)
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Validate rejects settings the game cannot run with.
func (c AppConfig) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %d", c.GridSize)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %d", c.CellSize)
	}
	if c.TickMS <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMS)
	}
	// 起点和食物必须在网格内
	for _, f := range []struct {
		key   string
		value int
	}{
		{"start_x", c.StartX}, {"start_y", c.StartY},
		{"food_x", c.FoodX}, {"food_y", c.FoodY},
	} {
		if f.value < 0 || f.value >= c.GridSize {
			return fmt.Errorf("%s must be in [0, %d), got %d", f.key, c.GridSize, f.value)
		}
	}
	switch c.Frontend {
	case "web", "terminal":
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	switch c.FoodPolicy {
	case "uniform", "free":
	default:
		return fmt.Errorf("unknown food_policy %q", c.FoodPolicy)
	}
	return nil
}

// Get returns a copy of the current settings.
func Get() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// TickInterval is the current step interval.
func TickInterval() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return time.Duration(instance.TickMS) * time.Millisecond
}

// reloadTick re-reads filePath and applies only the hot reloadable fields.
func reloadTick(filePath string) (int, error) {
	cfg := Get()
	if err := loadConfig(filePath, &cfg); err != nil {
		return 0, err
	}
	if cfg.TickMS <= 0 {
		return 0, fmt.Errorf("tick_ms must be positive, got %d", cfg.TickMS)
	}
	mu.Lock()
	instance.TickMS = cfg.TickMS
	mu.Unlock()
	return cfg.TickMS, nil
}
