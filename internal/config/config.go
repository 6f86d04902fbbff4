// Package config loads handrps settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/game"
)

// Config holds every setting read from HANDRPS_* variables.
type Config struct {
	Rounds      int           `env:"HANDRPS_ROUNDS" envDefault:"3"`
	Countdown   time.Duration `env:"HANDRPS_COUNTDOWN" envDefault:"3s"`
	ResultPause time.Duration `env:"HANDRPS_RESULT_PAUSE" envDefault:"3s"`

	CameraID  int  `env:"HANDRPS_CAMERA_ID" envDefault:"0"`
	CameraFPS int  `env:"HANDRPS_CAMERA_FPS" envDefault:"30"`
	Mirror    bool `env:"HANDRPS_MIRROR" envDefault:"true"`

	MinConfidence float64 `env:"HANDRPS_MIN_CONFIDENCE" envDefault:"0.7"`
	MinTracking   float64 `env:"HANDRPS_MIN_TRACKING" envDefault:"0.5"`

	Addr      string `env:"HANDRPS_ADDR" envDefault:":8080"`
	DataDir   string `env:"HANDRPS_DATA_DIR" envDefault:"~/.handrps"`
	StaticDir string `env:"HANDRPS_STATIC_DIR"`

	// Seed fixes the opponent's random sequence. Zero picks a random seed.
	Seed uint64 `env:"HANDRPS_SEED" envDefault:"0"`
	Tray bool   `env:"HANDRPS_TRAY" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment, expands the data directory and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	dir, err := expandHome(cfg.DataDir)
	if err != nil {
		return Config{}, err
	}
	cfg.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Rounds < 1 {
		errs = append(errs, fmt.Errorf("HANDRPS_ROUNDS must be at least 1, got %d", c.Rounds))
	}
	if c.Countdown <= 0 {
		errs = append(errs, fmt.Errorf("HANDRPS_COUNTDOWN must be positive, got %s", c.Countdown))
	}
	if c.ResultPause < 0 {
		errs = append(errs, fmt.Errorf("HANDRPS_RESULT_PAUSE must not be negative, got %s", c.ResultPause))
	}
	if c.CameraFPS < 1 {
		errs = append(errs, fmt.Errorf("HANDRPS_CAMERA_FPS must be at least 1, got %d", c.CameraFPS))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("HANDRPS_MIN_CONFIDENCE must be within [0,1], got %g", c.MinConfidence))
	}
	if c.MinTracking < 0 || c.MinTracking > 1 {
		errs = append(errs, fmt.Errorf("HANDRPS_MIN_TRACKING must be within [0,1], got %g", c.MinTracking))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("HANDRPS_DATA_DIR must not be empty"))
	}
	return errors.Join(errs...)
}

// Game returns the match settings.
func (c Config) Game() game.Config {
	return game.Config{
		Rounds:      c.Rounds,
		Countdown:   c.Countdown,
		ResultPause: c.ResultPause,
	}
}

// Detector returns the hand tracker settings. The game reads one hand.
func (c Config) Detector() detector.Config {
	return detector.Config{
		MaxHands:        1,
		MinConfidence:   c.MinConfidence,
		MinTrackingConf: c.MinTracking,
	}
}

// DBPath returns the match history database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "handrps.db")
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
