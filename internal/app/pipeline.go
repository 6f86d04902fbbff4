package app

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ayusman/handrps/internal/capture"
	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/game"
)

// CameraSource feeds the match loop from a camera and a hand detector.
//
// Each Poll waits for the next tick of the frame clock, reads one frame,
// publishes it to the preview, runs detection and returns the first hand.
// Read and detection failures yield an unavailable frame so the round keeps
// running on wall-clock time; only a closed camera is an error.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	preview  *capture.Preview
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	ticker  *time.Ticker
	lastErr string
}

// NewCameraSource creates a source polling camera at fps frames per second.
func NewCameraSource(camera capture.Camera, det detector.Detector, fps int) *CameraSource {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return &CameraSource{
		camera:   camera,
		detector: det,
		interval: time.Second / time.Duration(fps),
		logger:   log.New(os.Stderr, "[pipeline] ", log.LstdFlags),
	}
}

// SetPreview makes every polled frame visible through p.
func (s *CameraSource) SetPreview(p *capture.Preview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = p
}

// SetLogger replaces the default stderr logger.
func (s *CameraSource) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Poll implements game.FrameSource.
func (s *CameraSource) Poll(ctx context.Context) (game.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		s.ticker = time.NewTicker(s.interval)
	}

	select {
	case <-ctx.Done():
		return game.Frame{}, ctx.Err()
	case <-s.ticker.C:
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) {
			return game.Frame{}, err
		}
		s.report("read frame", err)
		return game.Frame{}, nil
	}
	defer frame.Close()

	if s.preview != nil {
		if err := s.preview.Update(frame); err != nil {
			s.report("update preview", err)
		}
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		s.report("detect hands", err)
		return game.Frame{}, nil
	}
	s.lastErr = ""

	out := game.Frame{Available: true}
	if len(hands) > 0 {
		hand := hands[0]
		out.Hand = &hand
	}
	return out, nil
}

// Close stops the frame clock.
func (s *CameraSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// report logs err unless it repeats the previous failure, so a broken device
// does not flood the log at frame rate.
func (s *CameraSource) report(op string, err error) {
	msg := op + ": " + err.Error()
	if msg == s.lastErr {
		return
	}
	s.lastErr = msg
	s.logger.Println(msg)
}
