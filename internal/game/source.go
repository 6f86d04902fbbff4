package game

import (
	"context"
	"time"

	"github.com/ayusman/handrps/internal/detector"
)

// Frame is one poll of the camera and hand tracker.
type Frame struct {
	// Available is false when the device produced no frame this poll.
	Available bool
	// Hand is the tracked hand, or nil when none was found.
	Hand *detector.HandLandmarks
}

// FrameSource supplies frames to the match loop. Poll blocks until the next
// frame is ready; the controller adds no timeout of its own, so a stalled
// source stalls the round.
type FrameSource interface {
	Poll(ctx context.Context) (Frame, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func(ctx context.Context) (Frame, error)

// Poll calls f(ctx).
func (f FrameSourceFunc) Poll(ctx context.Context) (Frame, error) {
	return f(ctx)
}

// Clock tells the controller what time it is.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
