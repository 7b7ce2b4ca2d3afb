// Package simulation provides configuration for the game simulation rules.
// Rules are loaded from a YAML file so sizes, speeds and the spawn decay
// constants can be tuned without rebuilding.
package simulation

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all simulation rules for a game
type Config struct {
	Window    WindowConfig   `yaml:"window"`
	Player    PlayerConfig   `yaml:"player"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Spawn     SpawnConfig    `yaml:"spawn"`
	Assets    AssetConfig    `yaml:"assets"`
	Audio     AudioConfig    `yaml:"audio"`
}

// WindowConfig defines the logical play field and frame rate
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"` // Target ticks per second
}

// PlayerConfig defines the player's rectangle and speed
type PlayerConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Velocity int `yaml:"velocity"` // Pixels per frame on each axis
	StartX   int `yaml:"start_x"`  // Spawn column; the player always starts on the bottom row
}

// ObstacleConfig defines falling obstacle geometry
type ObstacleConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	Velocity  int `yaml:"velocity"`   // Pixels per frame, downward
	BatchSize int `yaml:"batch_size"` // Obstacles added per spawn
}

// SpawnConfig defines the spawn-interval decay rule
type SpawnConfig struct {
	InitialIntervalMS int `yaml:"initial_interval_ms"`
	StepMS            int `yaml:"step_ms"`  // Subtracted after every batch
	FloorMS           int `yaml:"floor_ms"` // Interval never drops below this
}

// AssetConfig lists asset paths. An empty path selects a generated placeholder.
type AssetConfig struct {
	Background string  `yaml:"background"`
	Player     string  `yaml:"player"`
	Obstacle   string  `yaml:"obstacle"`
	Music      string  `yaml:"music"`
	FontSize   float64 `yaml:"font_size"`
}

// AudioConfig controls background music playback
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// DefaultConfig returns the classic rules: 1000x800 field, batches of four,
// interval starting at 3s and shrinking by 50ms down to 200ms.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1000,
			Height: 800,
			Title:  "Stardodge",
			TPS:    70,
		},
		Player: PlayerConfig{
			Width:    75,
			Height:   75,
			Velocity: 6,
			StartX:   180,
		},
		Obstacles: ObstacleConfig{
			Width:     35,
			Height:    30,
			Velocity:  3,
			BatchSize: 4,
		},
		Spawn: SpawnConfig{
			InitialIntervalMS: 3000,
			StepMS:            50,
			FloorMS:           200,
		},
		Assets: AssetConfig{
			FontSize: 40,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// LoadConfig loads simulation config from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks that the rules describe a playable field.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window tps must be positive, got %d", c.Window.TPS))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, fmt.Errorf("player size must be positive, got %dx%d", c.Player.Width, c.Player.Height))
	}
	if c.Player.Width > c.Window.Width || c.Player.Height > c.Window.Height {
		errs = append(errs, errors.New("player does not fit inside the window"))
	}
	if c.Player.Velocity < 0 {
		errs = append(errs, fmt.Errorf("player velocity must not be negative, got %d", c.Player.Velocity))
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.Height <= 0 {
		errs = append(errs, fmt.Errorf("obstacle size must be positive, got %dx%d", c.Obstacles.Width, c.Obstacles.Height))
	}
	if c.Obstacles.Width > c.Window.Width {
		errs = append(errs, errors.New("obstacle is wider than the window"))
	}
	if c.Obstacles.Velocity <= 0 {
		errs = append(errs, fmt.Errorf("obstacle velocity must be positive, got %d", c.Obstacles.Velocity))
	}
	if c.Obstacles.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("obstacle batch size must be positive, got %d", c.Obstacles.BatchSize))
	}
	if c.Spawn.FloorMS <= 0 {
		errs = append(errs, fmt.Errorf("spawn floor must be positive, got %dms", c.Spawn.FloorMS))
	}
	if c.Spawn.InitialIntervalMS < c.Spawn.FloorMS {
		errs = append(errs, fmt.Errorf("initial spawn interval %dms is below the floor %dms", c.Spawn.InitialIntervalMS, c.Spawn.FloorMS))
	}
	if c.Spawn.StepMS < 0 {
		errs = append(errs, fmt.Errorf("spawn step must not be negative, got %dms", c.Spawn.StepMS))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume must be within [0, 1], got %g", c.Audio.Volume))
	}
	if c.Assets.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font size must be positive, got %g", c.Assets.FontSize))
	}

	return errors.Join(errs...)
}

// InitialInterval returns the spawn interval a fresh run starts with.
func (c *Config) InitialInterval() time.Duration {
	return time.Duration(c.Spawn.InitialIntervalMS) * time.Millisecond
}

// IntervalStep returns how much the spawn interval shrinks after each batch.
func (c *Config) IntervalStep() time.Duration {
	return time.Duration(c.Spawn.StepMS) * time.Millisecond
}

// IntervalFloor returns the smallest spawn interval allowed.
func (c *Config) IntervalFloor() time.Duration {
	return time.Duration(c.Spawn.FloorMS) * time.Millisecond
}
