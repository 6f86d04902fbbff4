package game

import (
	"slices"
	"time"

	"github.com/ayusman/handrps/internal/gesture"
)

// DefaultRounds is the number of rounds in a match.
const DefaultRounds = 3

// RoundOutcome records one scored round.
type RoundOutcome struct {
	Round          int             `json:"round"`
	UserChoice     gesture.Gesture `json:"user_choice"`
	ComputerChoice gesture.Gesture `json:"computer_choice"`
	Result         Result          `json:"result"`
}

// MatchState is the running state of one match. It is a value: Round.Score
// takes one and returns the next, and nothing else mutates it.
type MatchState struct {
	ID            string         `json:"id"`
	Rounds        int            `json:"rounds"`
	Outcomes      []RoundOutcome `json:"outcomes"`
	UserScore     int            `json:"user_score"`
	ComputerScore int            `json:"computer_score"`
	StartedAt     time.Time      `json:"started_at"`
}

// NewMatchState returns an empty match of the given length.
func NewMatchState(id string, rounds int, startedAt time.Time) MatchState {
	if rounds < 1 {
		rounds = DefaultRounds
	}
	return MatchState{
		ID:        id,
		Rounds:    rounds,
		StartedAt: startedAt,
	}
}

// Played returns how many rounds have been scored.
func (s MatchState) Played() int {
	return len(s.Outcomes)
}

// Done reports whether every round has been scored.
func (s MatchState) Done() bool {
	return len(s.Outcomes) >= s.Rounds
}

// Result compares the scores so far.
func (s MatchState) Result() Result {
	return compareScores(s.UserScore, s.ComputerScore)
}

// withOutcome returns a copy of s with o appended and the tally updated.
func (s MatchState) withOutcome(o RoundOutcome) MatchState {
	next := s
	next.Outcomes = append(slices.Clone(s.Outcomes), o)
	switch o.Result {
	case UserWin:
		next.UserScore++
	case ComputerWin:
		next.ComputerScore++
	}
	return next
}

// MatchSummary is the final report of a completed match.
type MatchSummary struct {
	ID            string         `json:"id"`
	Rounds        []RoundOutcome `json:"rounds"`
	UserScore     int            `json:"user_score"`
	ComputerScore int            `json:"computer_score"`
	Outcome       Result         `json:"outcome"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
}

// Summary closes the match at finishedAt.
func (s MatchState) Summary(finishedAt time.Time) MatchSummary {
	return MatchSummary{
		ID:            s.ID,
		Rounds:        slices.Clone(s.Outcomes),
		UserScore:     s.UserScore,
		ComputerScore: s.ComputerScore,
		Outcome:       s.Result(),
		StartedAt:     s.StartedAt,
		FinishedAt:    finishedAt,
	}
}
