package game

import "github.com/ayusman/handrps/internal/gesture"

// FrameView is what a renderer needs to draw one frame of a round.
type FrameView struct {
	MatchID       string          `json:"match_id"`
	Round         int             `json:"round"`
	Rounds        int             `json:"rounds"`
	Candidate     gesture.Gesture `json:"candidate"`
	HandVisible   bool            `json:"hand_visible"`
	Remaining     int             `json:"remaining"`
	UserScore     int             `json:"user_score"`
	ComputerScore int             `json:"computer_score"`
}

// Observer receives game events as they happen. Calls are made from the
// match loop, so implementations must return quickly.
type Observer interface {
	OnFrame(view FrameView)
	OnRound(outcome RoundOutcome, state MatchState)
	OnMatch(summary MatchSummary)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnFrame(FrameView)                {}
func (NopObserver) OnRound(RoundOutcome, MatchState) {}
func (NopObserver) OnMatch(MatchSummary)             {}

// Observers fans events out to each observer in order.
type Observers []Observer

func (o Observers) OnFrame(view FrameView) {
	for _, obs := range o {
		obs.OnFrame(view)
	}
}

func (o Observers) OnRound(outcome RoundOutcome, state MatchState) {
	for _, obs := range o {
		obs.OnRound(outcome, state)
	}
}

func (o Observers) OnMatch(summary MatchSummary) {
	for _, obs := range o {
		obs.OnMatch(summary)
	}
}
