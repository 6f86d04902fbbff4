package app

import (
	"log"
	"sync"

	"github.com/ayusman/handrps/internal/game"
)

// LogObserver writes round and match results to a logger.
type LogObserver struct {
	logger *log.Logger

	mu    sync.Mutex
	match string
	round int
}

// NewLogObserver creates a LogObserver writing to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnFrame logs the start of each round.
func (o *LogObserver) OnFrame(v game.FrameView) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if v.MatchID == o.match && v.Round == o.round {
		return
	}
	o.match, o.round = v.MatchID, v.Round
	o.logger.Printf("Round %d of %d, show your hand (score %d-%d)", v.Round, v.Rounds, v.UserScore, v.ComputerScore)
}

// OnRound logs both throws and the result.
func (o *LogObserver) OnRound(outcome game.RoundOutcome, state game.MatchState) {
	o.logger.Printf("Round %d: User: %s | Computer: %s", outcome.Round, outcome.UserChoice, outcome.ComputerChoice)
	o.logger.Printf("Round %d: %s (score %d-%d)", outcome.Round, outcome.Result.Message(), state.UserScore, state.ComputerScore)
}

// OnMatch logs the final score.
func (o *LogObserver) OnMatch(summary game.MatchSummary) {
	o.logger.Printf("Match %s over: %s (final score %d-%d)", summary.ID, summary.Outcome.Message(), summary.UserScore, summary.ComputerScore)
}
