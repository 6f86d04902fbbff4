package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Matches table - one row per completed match
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			rounds INTEGER NOT NULL,
			user_score INTEGER NOT NULL,
			computer_score INTEGER NOT NULL,
			outcome TEXT NOT NULL CHECK(outcome IN ('user-win', 'computer-win', 'draw')),
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		)`,

		// Match rounds table - the scored rounds of each match, in order
		`CREATE TABLE IF NOT EXISTS match_rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			user_choice TEXT NOT NULL,
			computer_choice TEXT NOT NULL,
			result TEXT NOT NULL,
			UNIQUE(match_id, round)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_match_rounds_match_id ON match_rounds(match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_finished_at ON matches(finished_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
