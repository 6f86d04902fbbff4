package game

import (
	"context"
	"sync"
	"time"

	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/gesture"
)

// manualClock only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedSource advances the clock by step on every poll and replays frames
// in order. Once the script runs out it reports no frame.
type scriptedSource struct {
	clock  *manualClock
	step   time.Duration
	frames []Frame
	polls  int
}

func (s *scriptedSource) Poll(ctx context.Context) (Frame, error) {
	s.clock.Advance(s.step)
	defer func() { s.polls++ }()
	if s.polls >= len(s.frames) {
		return Frame{}, nil
	}
	return s.frames[s.polls], nil
}

func handFrame(h detector.HandLandmarks) Frame {
	return Frame{Available: true, Hand: &h}
}

func emptyFrame() Frame {
	return Frame{Available: true}
}

// throwFrames returns the frames for one three-second round polled every
// second: two sampled frames showing g, then the frame that locks the round.
func throwFrames(g gesture.Gesture) []Frame {
	var h detector.HandLandmarks
	switch g {
	case gesture.Rock:
		h = detector.RockLandmarks()
	case gesture.Paper:
		h = detector.PaperLandmarks()
	case gesture.Scissors:
		h = detector.ScissorsLandmarks()
	default:
		h = detector.PointingLandmarks()
	}
	return []Frame{handFrame(h), handFrame(h), emptyFrame()}
}

// recorder keeps every event it sees.
type recorder struct {
	frames  []FrameView
	rounds  []RoundOutcome
	states  []MatchState
	matches []MatchSummary
	onFrame func(FrameView)
	onRound func(RoundOutcome)
}

func (r *recorder) OnFrame(v FrameView) {
	r.frames = append(r.frames, v)
	if r.onFrame != nil {
		r.onFrame(v)
	}
}

func (r *recorder) OnRound(o RoundOutcome, s MatchState) {
	r.rounds = append(r.rounds, o)
	r.states = append(r.states, s)
	if r.onRound != nil {
		r.onRound(o)
	}
}

func (r *recorder) OnMatch(s MatchSummary) { r.matches = append(r.matches, s) }
