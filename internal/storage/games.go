package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// GameRecord is one finished game.
type GameRecord struct {
	ID           int64
	Agent        string
	Seed         int64
	FinalScore   int
	MaxTile      int
	Steps        int
	InvalidCount int
	MovedSteps   int
	DurationMS   float64
	CreatedAt    time.Time
}

// AgentStats contains aggregated results for an agent.
type AgentStats struct {
	Agent      string
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestTile   int
	Wins       int // games that reached 2048
	TotalSteps int64
	LastPlayed time.Time
}

const gameColumns = `id, agent, seed, final_score, max_tile, steps, invalid_count, moved_steps, duration_ms, created_at`

// SaveGame records a finished game. Returns the ID of the inserted record.
func (s *Store) SaveGame(g GameRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO games
		 (agent, seed, final_score, max_tile, steps, invalid_count, moved_steps, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Agent, g.Seed, g.FinalScore, g.MaxTile, g.Steps, g.InvalidCount, g.MovedSteps, g.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopGames retrieves the top N games by score for the given agent, or for
// all agents when agent is empty. Results are ordered by score descending.
func (s *Store) TopGames(agent string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+`
		 FROM games
		 WHERE ? = '' OR agent = ?
		 ORDER BY final_score DESC, id ASC
		 LIMIT ?`,
		agent, agent, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var createdAt any
		if err := rows.Scan(&g.ID, &g.Agent, &g.Seed, &g.FinalScore, &g.MaxTile, &g.Steps,
			&g.InvalidCount, &g.MovedSteps, &g.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return games, nil
}

// HighScore returns the highest score for the given agent.
// Returns 0 if no games exist.
func (s *Store) HighScore(agent string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(final_score) FROM games WHERE agent = ?",
		agent,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// AgentStats retrieves aggregated results for a specific agent.
func (s *Store) AgentStats(agent string) (*AgentStats, error) {
	stats := &AgentStats{Agent: agent}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(final_score), 0), COALESCE(AVG(final_score), 0),
		        COALESCE(MAX(max_tile), 0), COALESCE(SUM(max_tile >= 2048), 0),
		        COALESCE(SUM(steps), 0), MAX(created_at)
		 FROM games WHERE agent = ?`,
		agent,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore,
		&stats.BestTile, &stats.Wins, &stats.TotalSteps, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get agent stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// Agents returns the names of agents with recorded games, sorted.
func (s *Store) Agents() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT agent FROM games ORDER BY agent`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query agents: %w", err)
	}
	defer rows.Close()

	var agents []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("storage: cannot scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// ClearGames deletes all games for the given agent.
func (s *Store) ClearGames(agent string) error {
	_, err := s.db.Exec("DELETE FROM games WHERE agent = ?", agent)
	if err != nil {
		return fmt.Errorf("storage: cannot clear games: %w", err)
	}
	return nil
}
