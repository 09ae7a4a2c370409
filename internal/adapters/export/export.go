// Package export writes a registry snapshot to a SQLite database file.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	"github.com/okian/benchmatrix/internal/domain/identity"
	"github.com/okian/benchmatrix/internal/domain/scoring"
)

// ModelRow is one row of the models table.
type ModelRow struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Version        string `db:"version" json:"version"`
	Organization   string `db:"organization" json:"organization"`
	Country        string `db:"country" json:"country"`
	ReleaseDate    string `db:"release_date" json:"release_date"`
	BenchmarkCount int    `db:"benchmark_count" json:"benchmark_count"`
	// Placeholder marks models keyed by a missing or fully stripped version.
	Placeholder bool `db:"placeholder" json:"placeholder"`
}

// ScoreRow is one reconciled score of a model on a benchmark.
type ScoreRow struct {
	ModelID     string  `db:"model_id" json:"model_id"`
	BenchmarkID string  `db:"benchmark_id" json:"benchmark_id"`
	Raw         float64 `db:"raw" json:"raw"`
	Normalized  float64 `db:"normalized" json:"normalized"`
}

// BenchmarkRow is one row of the benchmarks table.
type BenchmarkRow struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Position int    `db:"position" json:"position"`
}

// EntryRow is one admitted row of a benchmark, duplicates included.
type EntryRow struct {
	BenchmarkID string  `db:"benchmark_id" json:"benchmark_id"`
	Seq         int     `db:"seq" json:"seq"`
	ModelID     string  `db:"model_id" json:"model_id"`
	Score       float64 `db:"score" json:"score"`
}

// Result counts what one export wrote.
type Result struct {
	PassID     string `json:"pass_id" yaml:"pass_id"`
	Path       string `json:"path" yaml:"path"`
	Models     int    `json:"models" yaml:"models"`
	Benchmarks int    `json:"benchmarks" yaml:"benchmarks"`
	Scores     int    `json:"scores" yaml:"scores"`
	Entries    int    `json:"entries" yaml:"entries"`
}

// Option configures a SQLiteExporter.
type Option func(*SQLiteExporter)

// WithNormalizer sets the normalizer used for the scores.normalized column.
func WithNormalizer(n *scoring.Normalizer) Option {
	return func(e *SQLiteExporter) {
		if n != nil {
			e.norm = n
		}
	}
}

// SQLiteExporter writes snapshots to one SQLite file.
type SQLiteExporter struct {
	db   *sqlx.DB
	path string
	norm *scoring.Normalizer
}

// New opens (or creates) the SQLite database at path and runs migrations.
func New(path string, opts ...Option) (*SQLiteExporter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	e := &SQLiteExporter{db: db, path: path}
	for _, opt := range opts {
		opt(e)
	}
	if e.norm == nil {
		e.norm = scoring.New()
	}
	return e, nil
}

// Close closes the database.
func (e *SQLiteExporter) Close() error {
	return e.db.Close()
}

// Write replaces the database contents with snap in one transaction.
func (e *SQLiteExporter) Write(ctx context.Context, snap *repository.Snapshot, passID string) (Result, error) {
	if snap == nil {
		return Result{}, ErrNilSnapshot
	}
	res := Result{PassID: passID, Path: e.path}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, clearTables); err != nil {
		return Result{}, fmt.Errorf("clear tables: %w", err)
	}

	for i, b := range snap.OrderedBenchmarks() {
		row := BenchmarkRow{ID: b.ID, Name: b.Name, Position: i}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO benchmarks (id, name, position) VALUES (:id, :name, :position)`, row); err != nil {
			return Result{}, fmt.Errorf("insert benchmark %s: %w", b.ID, err)
		}
		res.Benchmarks++
		for seq, entry := range b.Scores {
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO benchmark_entries (benchmark_id, seq, model_id, score) VALUES (:benchmark_id, :seq, :model_id, :score)`,
				EntryRow{BenchmarkID: b.ID, Seq: seq, ModelID: entry.ModelID, Score: entry.Score}); err != nil {
				return Result{}, fmt.Errorf("insert entry %s/%d: %w", b.ID, seq, err)
			}
			res.Entries++
		}
	}

	for _, id := range snap.ModelIDs() {
		m := snap.Models[id]
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO models (id, name, version, organization, country, release_date, benchmark_count, placeholder)
			VALUES (:id, :name, :version, :organization, :country, :release_date, :benchmark_count, :placeholder)`,
			ModelRow{
				ID:             m.ID,
				Name:           m.Name,
				Version:        m.Version,
				Organization:   m.Organization,
				Country:        m.Country,
				ReleaseDate:    m.ReleaseDate,
				BenchmarkCount: m.BenchmarkCount,
				Placeholder:    identity.IsSentinel(m.ID),
			}); err != nil {
			return Result{}, fmt.Errorf("insert model %s: %w", id, err)
		}
		res.Models++
		for _, bid := range m.BenchmarkIDs() {
			raw := m.Scores[bid]
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO scores (model_id, benchmark_id, raw, normalized) VALUES (:model_id, :benchmark_id, :raw, :normalized)`,
				ScoreRow{ModelID: id, BenchmarkID: bid, Raw: raw, Normalized: e.norm.Normalize(bid, raw)}); err != nil {
				return Result{}, fmt.Errorf("insert score %s/%s: %w", id, bid, err)
			}
			res.Scores++
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exports (pass_id, exported_at, models, benchmarks) VALUES (?, ?, ?, ?)
		ON CONFLICT(pass_id) DO UPDATE SET exported_at = excluded.exported_at`,
		passID, time.Now().UTC(), res.Models, res.Benchmarks); err != nil {
		return Result{}, fmt.Errorf("record export: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit export: %w", err)
	}
	return res, nil
}

// Models reads every exported model ordered by ID.
func (e *SQLiteExporter) Models(ctx context.Context) ([]ModelRow, error) {
	var rows []ModelRow
	if err := e.db.SelectContext(ctx, &rows, "SELECT * FROM models ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return rows, nil
}

// Scores reads the exported scores of one model ordered by benchmark ID.
func (e *SQLiteExporter) Scores(ctx context.Context, modelID string) ([]ScoreRow, error) {
	var rows []ScoreRow
	if err := e.db.SelectContext(ctx, &rows,
		"SELECT * FROM scores WHERE model_id = ? ORDER BY benchmark_id", modelID); err != nil {
		return nil, fmt.Errorf("list scores %s: %w", modelID, err)
	}
	return rows, nil
}

// Benchmarks reads the exported benchmarks in declaration order.
func (e *SQLiteExporter) Benchmarks(ctx context.Context) ([]BenchmarkRow, error) {
	var rows []BenchmarkRow
	if err := e.db.SelectContext(ctx, &rows, "SELECT * FROM benchmarks ORDER BY position"); err != nil {
		return nil, fmt.Errorf("list benchmarks: %w", err)
	}
	return rows, nil
}

// EntryCount returns the number of benchmark_entries rows.
func (e *SQLiteExporter) EntryCount(ctx context.Context) (int, error) {
	var n int
	if err := e.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM benchmark_entries"); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
