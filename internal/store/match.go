package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayusman/handrps/internal/game"
	"github.com/ayusman/handrps/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a match with the same ID is already stored.
var ErrDuplicate = errors.New("match already stored")

// Stats aggregates every stored match.
type Stats struct {
	Matches       int `json:"matches"`
	UserWins      int `json:"user_wins"`
	ComputerWins  int `json:"computer_wins"`
	Draws         int `json:"draws"`
	RoundsPlayed  int `json:"rounds_played"`
	InvalidRounds int `json:"invalid_rounds"`
}

// MatchRepository stores completed match summaries.
type MatchRepository struct {
	db *sql.DB
}

// Matches returns the match repository for this store.
func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{db: s.db}
}

// Create inserts a match and its rounds in one transaction.
func (r *MatchRepository) Create(m game.MatchSummary) error {
	if m.ID == "" {
		return errors.New("match has no id")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM matches WHERE id = ?`, m.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, m.ID)
	}

	_, err = tx.Exec(
		`INSERT INTO matches (id, rounds, user_score, computer_score, outcome, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, len(m.Rounds), m.UserScore, m.ComputerScore, string(m.Outcome), m.StartedAt, m.FinishedAt,
	)
	if err != nil {
		return err
	}

	for _, o := range m.Rounds {
		_, err := tx.Exec(
			`INSERT INTO match_rounds (match_id, round, user_choice, computer_choice, result)
			 VALUES (?, ?, ?, ?, ?)`,
			m.ID, o.Round, string(o.UserChoice), string(o.ComputerChoice), string(o.Result),
		)
		if err != nil {
			return fmt.Errorf("insert round %d: %w", o.Round, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a match and its rounds by ID.
func (r *MatchRepository) GetByID(id string) (*game.MatchSummary, error) {
	m := &game.MatchSummary{}
	var outcome string

	err := r.db.QueryRow(
		`SELECT id, user_score, computer_score, outcome, started_at, finished_at
		 FROM matches WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.UserScore, &m.ComputerScore, &outcome, &m.StartedAt, &m.FinishedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.Outcome = game.Result(outcome)

	m.Rounds, err = r.rounds(m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves the most recently finished matches, newest first.
// A limit of zero or less returns every match.
func (r *MatchRepository) List(limit int) ([]*game.MatchSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, user_score, computer_score, outcome, started_at, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	var matches []*game.MatchSummary
	for rows.Next() {
		m := &game.MatchSummary{}
		var outcome string

		err := rows.Scan(&m.ID, &m.UserScore, &m.ComputerScore, &outcome, &m.StartedAt, &m.FinishedAt)
		if err != nil {
			rows.Close()
			return nil, err
		}

		m.Outcome = game.Result(outcome)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Rounds are loaded after the match cursor is closed; the pool holds a
	// single connection.
	for _, m := range matches {
		if m.Rounds, err = r.rounds(m.ID); err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// Stats counts matches by outcome and rounds by result.
func (r *MatchRepository) Stats() (Stats, error) {
	var s Stats

	err := r.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'user-win'), 0),
		        COALESCE(SUM(outcome = 'computer-win'), 0),
		        COALESCE(SUM(outcome = 'draw'), 0)
		 FROM matches`,
	).Scan(&s.Matches, &s.UserWins, &s.ComputerWins, &s.Draws)
	if err != nil {
		return Stats{}, err
	}

	err = r.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(result = 'invalid-selection'), 0) FROM match_rounds`,
	).Scan(&s.RoundsPlayed, &s.InvalidRounds)
	if err != nil {
		return Stats{}, err
	}

	return s, nil
}

// Delete removes a match and its rounds.
func (r *MatchRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MatchRepository) rounds(matchID string) ([]game.RoundOutcome, error) {
	rows, err := r.db.Query(
		`SELECT round, user_choice, computer_choice, result
		 FROM match_rounds WHERE match_id = ? ORDER BY round`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []game.RoundOutcome
	for rows.Next() {
		var o game.RoundOutcome
		var user, computer, result string

		if err := rows.Scan(&o.Round, &user, &computer, &result); err != nil {
			return nil, err
		}

		o.UserChoice = gesture.Gesture(user)
		o.ComputerChoice = gesture.Gesture(computer)
		o.Result = game.Result(result)
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
