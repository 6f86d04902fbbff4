package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handrps/internal/gesture"
)

// ErrMatchAborted is returned when a match is cancelled before its last round is scored.
var ErrMatchAborted = errors.New("match aborted")

// Config holds the timing and length of a match.
type Config struct {
	// Rounds is the number of rounds per match (default: 3).
	Rounds int
	// Countdown is the capture window of each round (default: 3s).
	Countdown time.Duration
	// ResultPause is how long the round result stays up before the next
	// round starts. Zero skips the pause.
	ResultPause time.Duration
}

// DefaultConfig returns a three round match with a three second countdown
// and a three second result screen.
func DefaultConfig() Config {
	return Config{
		Rounds:      DefaultRounds,
		Countdown:   DefaultCountdown,
		ResultPause: 3 * time.Second,
	}
}

// Controller plays matches. It runs a single polling loop: each iteration
// reads one frame, feeds it to the current round and publishes a FrameView.
// A Controller must not be shared between concurrent Play calls.
type Controller struct {
	config     Config
	source     FrameSource
	opponent   Opponent
	clock      Clock
	observer   Observer
	classifier *gesture.Classifier
}

// NewController creates a Controller reading frames from source and playing
// against opponent. Invalid config values fall back to the defaults.
func NewController(config Config, source FrameSource, opponent Opponent) *Controller {
	defaults := DefaultConfig()
	if config.Rounds < 1 {
		config.Rounds = defaults.Rounds
	}
	if config.Countdown <= 0 {
		config.Countdown = defaults.Countdown
	}
	if config.ResultPause < 0 {
		config.ResultPause = 0
	}

	return &Controller{
		config:     config,
		source:     source,
		opponent:   opponent,
		clock:      SystemClock{},
		observer:   NopObserver{},
		classifier: gesture.NewClassifier(),
	}
}

// SetClock replaces the wall clock, for tests.
func (c *Controller) SetClock(clock Clock) {
	c.clock = clock
}

// SetObserver sets the receiver of frame, round and match events.
func (c *Controller) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	c.observer = o
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.config
}

// Play runs one full match and returns its summary.
//
// Cancelling ctx abandons the match at the next poll or during a result
// pause. The interrupted round produces no outcome and no summary is
// published; the returned error wraps both ErrMatchAborted and ctx.Err().
func (c *Controller) Play(ctx context.Context) (MatchSummary, error) {
	state := NewMatchState(uuid.NewString(), c.config.Rounds, c.clock.Now())

	for n := 1; n <= state.Rounds; n++ {
		var err error
		state, err = c.playRound(ctx, n, state)
		if err != nil {
			return MatchSummary{}, err
		}

		if n < state.Rounds {
			if err := c.pause(ctx); err != nil {
				return MatchSummary{}, err
			}
		}
	}

	summary := state.Summary(c.clock.Now())
	c.observer.OnMatch(summary)
	return summary, nil
}

func (c *Controller) playRound(ctx context.Context, n int, state MatchState) (MatchState, error) {
	round := NewRound(n, c.config.Countdown, c.clock.Now(), c.classifier)

	for round.State() == Countdown {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("%w in round %d: %w", ErrMatchAborted, n, err)
		}

		frame, err := c.source.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return state, fmt.Errorf("%w in round %d: %w", ErrMatchAborted, n, ctx.Err())
			}
			return state, fmt.Errorf("poll frame: %w", err)
		}

		hand := frame.Hand
		if !frame.Available {
			hand = nil
		}

		now := c.clock.Now()
		round.Observe(hand, now)
		c.observer.OnFrame(FrameView{
			MatchID:       state.ID,
			Round:         n,
			Rounds:        state.Rounds,
			Candidate:     round.Candidate(),
			HandVisible:   hand != nil,
			Remaining:     round.Remaining(now),
			UserScore:     state.UserScore,
			ComputerScore: state.ComputerScore,
		})
	}

	next, outcome, err := round.Score(state, c.opponent)
	if err != nil {
		return state, fmt.Errorf("score round %d: %w", n, err)
	}
	c.observer.OnRound(outcome, next)
	return next, nil
}

func (c *Controller) pause(ctx context.Context) error {
	if c.config.ResultPause <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w during result pause: %w", ErrMatchAborted, err)
		}
		return nil
	}

	timer := time.NewTimer(c.config.ResultPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w during result pause: %w", ErrMatchAborted, ctx.Err())
	case <-timer.C:
		return nil
	}
}
