package game

import (
	"errors"
	"math"
	"time"

	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/gesture"
)

// DefaultCountdown is the capture window of a round.
const DefaultCountdown = 3 * time.Second

var (
	// ErrRoundNotLocked is returned when scoring a round that is still counting down.
	ErrRoundNotLocked = errors.New("round is still counting down")
	// ErrRoundScored is returned when scoring a round twice.
	ErrRoundScored = errors.New("round already scored")
)

// RoundState is the phase of a round.
type RoundState int

const (
	Countdown RoundState = iota
	Locked
	Scored
)

func (s RoundState) String() string {
	switch s {
	case Countdown:
		return "countdown"
	case Locked:
		return "locked"
	case Scored:
		return "scored"
	default:
		return "unknown"
	}
}

// Round captures one user throw over a countdown window.
//
// While counting down every frame with a hand replaces the candidate choice;
// the last read before the window closes is the one that counts. Frames
// without a hand leave the candidate alone.
type Round struct {
	number     int
	budget     time.Duration
	start      time.Time
	classifier *gesture.Classifier

	state     RoundState
	candidate gesture.Gesture
	sampled   int
}

// NewRound starts round number at start with the given countdown budget.
func NewRound(number int, budget time.Duration, start time.Time, classifier *gesture.Classifier) *Round {
	if classifier == nil {
		classifier = gesture.NewClassifier()
	}
	return &Round{
		number:     number,
		budget:     budget,
		start:      start,
		classifier: classifier,
		state:      Countdown,
		candidate:  gesture.Invalid,
	}
}

// Number returns the 1-based round number.
func (r *Round) Number() int { return r.number }

// State returns the current phase.
func (r *Round) State() RoundState { return r.state }

// Candidate returns the choice that would be committed if the round locked now.
func (r *Round) Candidate() gesture.Gesture { return r.candidate }

// Samples returns how many hand readings were taken.
func (r *Round) Samples() int { return r.sampled }

// Elapsed returns the time since the round started.
func (r *Round) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.start)
}

// Remaining returns the whole seconds left on the countdown, never below zero.
func (r *Round) Remaining(now time.Time) int {
	left := r.budget - r.Elapsed(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Observe feeds one polled frame to the round. hand is nil when no hand was
// detected. Once the budget has elapsed the round locks and the frame is
// not sampled. Observe is a no-op after the round has locked.
func (r *Round) Observe(hand *detector.HandLandmarks, now time.Time) RoundState {
	if r.state != Countdown {
		return r.state
	}

	if r.Elapsed(now) >= r.budget {
		r.state = Locked
		return r.state
	}

	if hand != nil {
		r.candidate = r.classifier.Classify(hand)
		r.sampled++
	}
	return r.state
}

// Score draws the computer's throw, judges the round and returns the match
// state with the outcome recorded. It is only valid once the round has locked.
func (r *Round) Score(state MatchState, opponent Opponent) (MatchState, RoundOutcome, error) {
	switch r.state {
	case Countdown:
		return state, RoundOutcome{}, ErrRoundNotLocked
	case Scored:
		return state, RoundOutcome{}, ErrRoundScored
	}

	computer := opponent.Choose()
	outcome := RoundOutcome{
		Round:          r.number,
		UserChoice:     r.candidate,
		ComputerChoice: computer,
		Result:         Judge(r.candidate, computer),
	}

	r.state = Scored
	return state.withOutcome(outcome), outcome, nil
}
