// Package app wires the camera, hand detector and game into a running session.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ayusman/handrps/internal/capture"
	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/game"
	"github.com/ayusman/handrps/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Game      game.Config
	Detector  detector.Config
	CameraID  int
	CameraFPS int
	// Mirror flips frames horizontally before detection.
	Mirror bool
	// Seed fixes the opponent's throws. Zero picks a random seed.
	Seed  uint64
	Store *store.Store
}

// App owns the devices and the session playing on them.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	opponent  game.Opponent
	preview   *capture.Preview
	observers game.Observers
	logger    *log.Logger

	mu      sync.RWMutex
	session *Session
	source  *CameraSource
	cancel  context.CancelFunc
	done    chan error
}

// New creates a new App. The MediaPipe detector is used when its helper
// script is installed, otherwise detection falls back to a mock that never
// sees a hand.
func New(config Config) *App {
	if config.CameraFPS <= 0 {
		config.CameraFPS = capture.DefaultFPS
	}

	logger := log.New(os.Stderr, "[app] ", log.LstdFlags)

	var camera capture.Camera = capture.NewCamera(config.CameraID)
	if config.Mirror {
		camera = capture.Mirrored(camera)
	}

	a := &App{
		config:   config,
		camera:   camera,
		opponent: game.NewRandomOpponent(config.Seed),
		preview:  capture.NewPreview(),
		logger:   logger,
	}

	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		logger.Println("Using MediaPipe hand detection")
	} else {
		logger.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetCamera replaces the camera. It must be called before Start. With
// Config.Mirror set the camera is wrapped with capture.Mirrored.
func (a *App) SetCamera(c capture.Camera) {
	if a.config.Mirror {
		c = capture.Mirrored(c)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetOpponent replaces the random opponent. It must be called before Start.
func (a *App) SetOpponent(o game.Opponent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opponent = o
}

// SetLogger replaces the default stderr logger.
func (a *App) SetLogger(l *log.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = l
}

// AddObserver registers o for game events. It must be called before Start.
func (a *App) AddObserver(o game.Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// Start opens the camera and begins the first match in the background.
// Starting a running App is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(a.config.CameraFPS)

	source := NewCameraSource(a.camera, a.detector, a.config.CameraFPS)
	source.SetPreview(a.preview)
	source.SetLogger(a.logger)

	controller := game.NewController(a.config.Game, source, a.opponent)
	controller.SetObserver(append(game.Observers{NewLogObserver(a.logger)}, a.observers...))

	var history History
	if a.config.Store != nil {
		history = a.config.Store.Matches()
	}
	session := NewSession(controller, history)
	session.SetLogger(a.logger)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)

	a.session = session
	a.source = source
	a.cancel = cancel
	a.done = done

	go func() {
		done <- session.Run(ctx)
		close(done)
	}()

	a.logger.Println("Game started")
	return nil
}

// Done returns a channel that receives the session result when it ends,
// or nil if the App was never started.
func (a *App) Done() <-chan error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// Stop ends the session and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done, source := a.cancel, a.done, a.source
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		source.Close()
	}

	if err := a.camera.Close(); err != nil {
		a.logger.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.logger.Printf("Error closing detector: %v", err)
		}
	}

	a.logger.Println("Game stopped")
}

// Restart asks the session for a new match.
func (a *App) Restart() error {
	s := a.Session()
	if s == nil {
		return ErrNotStarted
	}
	return s.Restart()
}

// Running reports whether a match is in progress.
func (a *App) Running() bool {
	s := a.Session()
	return s != nil && s.Running()
}

// Session returns the running session, or nil before Start.
func (a *App) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Preview returns the latest camera image as seen by the detector.
func (a *App) Preview() *capture.Preview {
	return a.preview
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
