// Package reconcile loads the two ground-truth sources, the processing
// record store and the artifact directory listing, and computes the set
// differences that surface data-integrity defects.
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/mediascribe/loglens/internal/model"
)

// tableKeywords rank candidate tables during discovery; a table whose name
// contains one of these wins over the fallback (first table).
var tableKeywords = []string{"video", "process", "job", "task"}

// columnCandidates maps each semantic role to its prioritized candidate
// column names, matched case-insensitively.
var columnCandidates = map[string][]string{
	"id":              {"video_id", "id", "job_id", "task_id"},
	"filename":        {"filename", "file", "name", "title"},
	"status":          {"status", "state"},
	"duration":        {"duration", "length", "time"},
	"language":        {"language", "lang", "detected_language"},
	"processing_time": {"processing_time", "proc_time", "elapsed"},
	"created_at":      {"created_at", "created", "timestamp", "start_time"},
	"completed_at":    {"completed_at", "completed", "finished_at", "end_time"},
	"error_message":   {"error_message", "error", "error_msg", "failure_reason"},
}

// Store reads processing records from an externally produced SQLite file.
// The schema is discovered, never assumed.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenStore opens the record store at path. Read-only semantics are not
// enforced by the driver, but the store never writes.
func OpenStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("reconcile: open %s: %w", path, err)
	}
	return &Store{db: db, log: logger}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// projection is the discovered role → column mapping resolved once at load
// time; row extraction then uses fixed positions, never per-row lookups.
type projection struct {
	table   string
	columns []string
	roles   []string
}

// Records discovers the processing table, resolves its column roles and
// loads every row keyed by identifier. Last write wins on duplicate ids.
// Missing identifier-role columns degrade to zero records with a warning.
func (s *Store) Records(ctx context.Context) (map[string]model.DatabaseRecord, error) {
	tables, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		s.log.Warn("record store has no tables")
		return map[string]model.DatabaseRecord{}, nil
	}

	table := pickTable(tables)
	columns, err := s.columnNames(ctx, table)
	if err != nil {
		return nil, err
	}

	proj, ok := resolveProjection(table, columns)
	if !ok {
		s.log.Warn("no identifier column found, skipping record store",
			zap.String("table", table))
		return map[string]model.DatabaseRecord{}, nil
	}

	return s.load(ctx, proj)
}

func (s *Store) tableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table'")
	if err != nil {
		return nil, fmt.Errorf("reconcile: list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("reconcile: scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (s *Store) columnNames(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("reconcile: table info %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("reconcile: scan column info: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func pickTable(tables []string) string {
	for _, table := range tables {
		lower := strings.ToLower(table)
		for _, kw := range tableKeywords {
			if strings.Contains(lower, kw) {
				return table
			}
		}
	}
	return tables[0]
}

// findColumn returns the first candidate present in columns, trying exact
// match before case-insensitive match.
func findColumn(columns []string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for _, col := range columns {
			if col == candidate {
				return col, true
			}
		}
		for _, col := range columns {
			if strings.EqualFold(col, candidate) {
				return col, true
			}
		}
	}
	return "", false
}

// resolveProjection maps every available role to a concrete column. The id
// role is mandatory; everything else is optional.
func resolveProjection(table string, columns []string) (projection, bool) {
	idCol, ok := findColumn(columns, columnCandidates["id"])
	if !ok {
		return projection{}, false
	}

	proj := projection{
		table:   table,
		columns: []string{idCol},
		roles:   []string{"id"},
	}
	for _, role := range []string{
		"filename", "status", "duration", "language",
		"processing_time", "created_at", "completed_at", "error_message",
	} {
		if col, ok := findColumn(columns, columnCandidates[role]); ok {
			proj.columns = append(proj.columns, col)
			proj.roles = append(proj.roles, role)
		}
	}
	return proj, true
}

func (p projection) query() string {
	quoted := make([]string, len(p.columns))
	for i, col := range p.columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	q := fmt.Sprintf("SELECT %s FROM %q", strings.Join(quoted, ", "), p.table)
	for i, role := range p.roles {
		if role == "created_at" {
			q += fmt.Sprintf(" ORDER BY %q DESC", p.columns[i])
			break
		}
	}
	return q
}

func (s *Store) load(ctx context.Context, proj projection) (map[string]model.DatabaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, proj.query())
	if err != nil {
		return nil, fmt.Errorf("reconcile: query %s: %w", proj.table, err)
	}
	defer rows.Close()

	records := make(map[string]model.DatabaseRecord)
	values := make([]sql.NullString, len(proj.columns))
	dests := make([]interface{}, len(values))
	for i := range values {
		dests[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("reconcile: scan record: %w", err)
		}

		record := model.DatabaseRecord{Status: "unknown"}
		for i, role := range proj.roles {
			value := values[i].String
			switch role {
			case "id":
				record.ID = value
			case "filename":
				record.Filename = value
			case "status":
				if values[i].Valid {
					record.Status = value
				}
			case "duration":
				record.Duration = value
			case "language":
				record.Language = value
			case "processing_time":
				record.ProcessingTime = value
			case "created_at":
				record.CreatedAt = value
			case "completed_at":
				record.CompletedAt = value
			case "error_message":
				record.ErrorMessage = value
			}
		}
		if record.ID == "" {
			continue
		}
		records[record.ID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reconcile: iterate records: %w", err)
	}

	s.log.Info("loaded processing records",
		zap.String("table", proj.table), zap.Int("count", len(records)))
	return records, nil
}
