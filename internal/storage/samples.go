package storage

import (
	"context"
	"fmt"

	"github.com/vovakirdan/twenty48/internal/dataset"
	"github.com/vovakirdan/twenty48/internal/game"
)

// SaveSamples inserts samples in a single transaction and returns how many
// were written. It implements dataset.SampleWriter.
func (s *Store) SaveSamples(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples
		 (game_seed, step, board, action, reward, score, max_tile, done, depth)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, smp := range samples {
		if _, err := stmt.ExecContext(ctx,
			smp.GameSeed, smp.Step, smp.Board.Key(), int(smp.Action),
			smp.Reward, smp.Score, smp.MaxTile, smp.Done, smp.Depth,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save sample %d/%d: %w", smp.GameSeed, smp.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit samples: %w", err)
	}
	return len(samples), nil
}

// CountSamples returns the number of stored samples.
func (s *Store) CountSamples() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count samples: %w", err)
	}
	return n, nil
}

// Samples returns up to limit samples ordered by game seed and step.
// A limit of 0 or less returns every sample.
func (s *Store) Samples(limit int) ([]dataset.Sample, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.Query(
		`SELECT game_seed, step, board, action, reward, score, max_tile, done, depth
		 FROM samples
		 ORDER BY game_seed, step, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query samples: %w", err)
	}
	defer rows.Close()

	var samples []dataset.Sample
	for rows.Next() {
		var (
			smp    dataset.Sample
			board  string
			action int
		)
		if err := rows.Scan(&smp.GameSeed, &smp.Step, &board, &action,
			&smp.Reward, &smp.Score, &smp.MaxTile, &smp.Done, &smp.Depth); err != nil {
			return nil, fmt.Errorf("storage: cannot scan sample: %w", err)
		}
		smp.Board, err = game.ParseBoard(board)
		if err != nil {
			return nil, fmt.Errorf("storage: sample %d/%d: %w", smp.GameSeed, smp.Step, err)
		}
		smp.Action = game.Direction(action)
		samples = append(samples, smp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return samples, nil
}

// ClearSamples deletes every stored sample.
func (s *Store) ClearSamples() error {
	if _, err := s.db.Exec("DELETE FROM samples"); err != nil {
		return fmt.Errorf("storage: cannot clear samples: %w", err)
	}
	return nil
}
