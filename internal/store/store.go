// Package store handles SQLite persistence of the trial journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/trailcap/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the trial journal. Each completed
// trial is appended as one row; the journal never forgets trials that
// the retention window later drops from the CSV files.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY,
			trial INTEGER NOT NULL,
			method_trial INTEGER NOT NULL,
			input_method INTEGER NOT NULL,
			training INTEGER NOT NULL,
			target_x INTEGER NOT NULL,
			target_y INTEGER NOT NULL,
			target_radius INTEGER NOT NULL,
			target_distance REAL NOT NULL,
			delay_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			sample_count INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_ended_at ON trials(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_input_method ON trials(input_method);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTrial appends one completed trial to the journal.
func (s *Store) InsertTrial(ctx context.Context, t model.TrialSummary) (int64, error) {
	training := 0
	if t.Training {
		training = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trials (trial, method_trial, input_method, training, target_x, target_y, target_radius, target_distance, delay_ms, duration_ms, sample_count, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Trial,
		t.TrialForInputMethod,
		int(t.InputMethod),
		training,
		t.TargetX,
		t.TargetY,
		t.TargetRadius,
		t.TargetDistance,
		t.DelayMs,
		t.DurationMs,
		t.SampleCount,
		t.EndedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTrials returns journal rows filtered by stats config, oldest
// first. With Last set, only the most recent rows survive the filter.
func (s *Store) ListTrials(ctx context.Context, cfg model.StatsConfig) ([]model.TrialSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.InputMethod != nil {
		clauses = append(clauses, "input_method = ?")
		args = append(args, int(*cfg.InputMethod))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, trial, method_trial, input_method, training, target_x, target_y, target_radius, target_distance, delay_ms, duration_ms, sample_count, ended_at
		FROM trials
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query = fmt.Sprintf(`SELECT * FROM (%s) ORDER BY ended_at DESC LIMIT ?`, query)
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var trials []model.TrialSummary
	for rows.Next() {
		var t model.TrialSummary
		var method, training int
		var endedAt string
		if err := rows.Scan(&t.ID, &t.Trial, &t.TrialForInputMethod, &method, &training,
			&t.TargetX, &t.TargetY, &t.TargetRadius, &t.TargetDistance,
			&t.DelayMs, &t.DurationMs, &t.SampleCount, &endedAt); err != nil {
			return nil, err
		}
		t.InputMethod = model.InputMethod(method)
		t.Training = training != 0
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		t.EndedAt = parsed
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 {
		// The LIMIT subquery reversed the order; restore oldest-first.
		for i, j := 0, len(trials)-1; i < j; i, j = i+1, j-1 {
			trials[i], trials[j] = trials[j], trials[i]
		}
	}
	return trials, nil
}

// CountByMethod returns non-training trial counts per input method.
func (s *Store) CountByMethod(ctx context.Context) (map[model.InputMethod]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input_method, COUNT(*) FROM trials WHERE training = 0 GROUP BY input_method`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := map[model.InputMethod]int{}
	for rows.Next() {
		var method, count int
		if err := rows.Scan(&method, &count); err != nil {
			return nil, err
		}
		counts[model.InputMethod(method)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
