package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ayusman/handrps/internal/game"
)

var (
	// ErrMatchRunning is returned by Restart while a match is in progress.
	ErrMatchRunning = errors.New("a match is already running")
	// ErrNotStarted is returned when the game has not been started yet.
	ErrNotStarted = errors.New("game not started")
	// ErrSessionEnded is returned by Restart once Run has returned.
	ErrSessionEnded = errors.New("game session ended")
)

// Player plays one match. *game.Controller is the production Player.
type Player interface {
	Play(ctx context.Context) (game.MatchSummary, error)
}

// History keeps finished matches. *store.MatchRepository is the production History.
type History interface {
	Create(summary game.MatchSummary) error
}

// Session plays matches back to back. The first match starts as soon as Run
// is called; after each one the session waits for Restart or cancellation.
type Session struct {
	player  Player
	history History
	logger  *log.Logger
	restart chan struct{}

	mu      sync.RWMutex
	waiting bool
	ended   bool
	played  int
	last    *game.MatchSummary
}

// NewSession creates a session. history may be nil.
func NewSession(player Player, history History) *Session {
	return &Session{
		player:  player,
		history: history,
		logger:  log.New(os.Stderr, "[session] ", log.LstdFlags),
		restart: make(chan struct{}, 1),
	}
}

// SetLogger replaces the default stderr logger.
func (s *Session) SetLogger(l *log.Logger) {
	s.logger = l
}

// Run plays until ctx is cancelled. Cancellation, including during a match,
// is a normal exit and returns nil; a frame source failure ends the session
// with an error.
func (s *Session) Run(ctx context.Context) error {
	defer s.end()

	for {
		summary, err := s.player.Play(ctx)
		if err != nil {
			if errors.Is(err, game.ErrMatchAborted) {
				s.logger.Printf("Match abandoned: %v", err)
				return nil
			}
			return fmt.Errorf("play match: %w", err)
		}
		s.finish(summary)

		s.setWaiting(true)
		select {
		case <-ctx.Done():
			return nil
		case <-s.restart:
			s.logger.Println("Starting a new match")
		}
	}
}

// Restart asks for another match. It fails with ErrMatchRunning unless the
// session is between matches; the request itself counts as the start of the
// next match.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrSessionEnded
	}
	if !s.waiting {
		return ErrMatchRunning
	}
	s.waiting = false
	s.restart <- struct{}{}
	return nil
}

// Running reports whether a match is being played. It is false once Run has returned.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.waiting && !s.ended
}

// Played returns how many matches finished.
func (s *Session) Played() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.played
}

// Last returns the most recent finished match.
func (s *Session) Last() (game.MatchSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return game.MatchSummary{}, false
	}
	return *s.last, true
}

func (s *Session) finish(summary game.MatchSummary) {
	s.mu.Lock()
	s.played++
	s.last = &summary
	s.mu.Unlock()

	if s.history == nil {
		return
	}
	if err := s.history.Create(summary); err != nil {
		s.logger.Printf("Failed to save match %s: %v", summary.ID, err)
	}
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
	s.waiting = false
}

func (s *Session) setWaiting(w bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = w
}
