// Package sqlite implements driven.ResultStore on a local SQLite
// database. Runs and their append-only round metrics survive across
// invocations so stored experiments can be re-plotted and compared.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/seals-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ResultStore = (*Store)(nil)

// Store is the SQLite-backed result store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a result store at the specified data directory.
// If dataDir is empty, defaults to ~/.seals/data/results.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".seals", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "results.db")

	// WAL mode keeps reads cheap while a run appends metrics.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies any pending .up.sql files in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateRun implements driven.ResultStore.
func (s *Store) CreateRun(ctx context.Context, run *domain.RunResult) error {
	config, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, config) VALUES (?, ?, ?)",
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), string(config))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AppendRound implements driven.ResultStore.
func (s *Store) AppendRound(ctx context.Context, runID, algorithm string, repetition int, m domain.RoundMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO round_metrics
			(run_id, algorithm, repetition, round, labeled, precision, recall, average_precision, positives)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, algorithm, repetition, m.Round, m.Labeled, m.Precision, m.Recall, m.AveragePrecision, m.Positives)
	if err != nil {
		return fmt.Errorf("insert round metrics: %w", err)
	}
	return nil
}

// GetRun implements driven.ResultStore. Series come back ordered by
// algorithm, then repetition.
func (s *Store) GetRun(ctx context.Context, runID string) (*domain.RunResult, error) {
	run, err := s.scanRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT algorithm, repetition, round, labeled, precision, recall, average_precision, positives
		FROM round_metrics
		WHERE run_id = ?
		ORDER BY algorithm, repetition, round`, runID)
	if err != nil {
		return nil, fmt.Errorf("query round metrics: %w", err)
	}
	defer rows.Close()

	var current *domain.Series
	for rows.Next() {
		var algorithm string
		var repetition int
		var m domain.RoundMetrics
		if err := rows.Scan(&algorithm, &repetition, &m.Round, &m.Labeled,
			&m.Precision, &m.Recall, &m.AveragePrecision, &m.Positives); err != nil {
			return nil, fmt.Errorf("scan round metrics: %w", err)
		}

		if current == nil || current.Algorithm != algorithm || current.Repetition != repetition {
			run.Series = append(run.Series, domain.Series{Algorithm: algorithm, Repetition: repetition})
			current = &run.Series[len(run.Series)-1]
		}
		current.Rounds = append(current.Rounds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate round metrics: %w", err)
	}

	return run, nil
}

// ListRuns implements driven.ResultStore. Series are not loaded.
func (s *Store) ListRuns(ctx context.Context) ([]*domain.RunResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, config FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunResult
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) scanRun(ctx context.Context, runID string) (*domain.RunResult, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, created_at, config FROM runs WHERE id = ?", runID)
	run, err := scanRunRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}
	return run, err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRow(row rowScanner) (*domain.RunResult, error) {
	var run domain.RunResult
	var createdAt, config string
	if err := row.Scan(&run.ID, &createdAt, &config); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = t

	if err := json.Unmarshal([]byte(config), &run.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &run, nil
}
