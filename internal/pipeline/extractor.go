package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

const (
	// defaultBatchSize is the number of transformed rows per upsert.
	defaultBatchSize = 1000

	// commitInterval is how many batches are written between commits.
	// Committing every batch would thrash the store; never committing would
	// make a late failure lose the whole run.
	commitInterval = 10
)

// Row is one transformed record keyed by column name. Absent columns read as
// nil and become NULL.
type Row map[string]interface{}

// Strategy is a dataset-specific extraction strategy. The shared run loop in
// Runner.RunExtractor handles paging, batching, deduplication, upserts and
// commits; a strategy only declares where its data lives and how one raw
// record becomes one row.
//
// Transform returns (nil, nil) to skip a record that lacks a resolvable
// natural key, and a non-nil error for a malformed record. Both are
// non-fatal: the run loop logs (for errors) and moves on.
type Strategy interface {
	// Name is the registry name, e.g. "hpd_violations".
	Name() string
	// DatasetID is the Socrata dataset identifier.
	DatasetID() string
	// Table is the target table in the canonical store.
	Table() string
	// KeyColumns is the natural key used for in-batch dedupe and upsert
	// conflict resolution.
	KeyColumns() []string
	// Columns lists every column a transformed row may carry.
	Columns() []string
	// Query holds optional source-side filter/selection/ordering expressions.
	Query() socrata.Query
	Transform(rec socrata.RawRecord) (Row, error)
}

// batchWriter lets a strategy replace the default last-writer-wins upsert.
// The PLUTO enrichment strategy uses it to update existing buildings only.
type batchWriter interface {
	WriteBatch(ctx context.Context, tx pgx.Tx, rows []Row) error
}

// enrichOnly marks a strategy whose writer only updates rows that already
// exist. Its target table belongs to an earlier stage, so full-refresh
// truncation must not apply: truncating here would wipe that stage's rows
// and leave nothing to enrich.
type enrichOnly interface {
	enrichOnly()
}

// dedupeRows collapses rows sharing a natural key, keeping the last
// occurrence. A single source page can contain multiple revisions of the same
// logical record; without this the multi-row upsert would conflict with
// itself.
func dedupeRows(rows []Row, keyColumns []string) []Row {
	if len(rows) < 2 {
		return rows
	}

	index := make(map[string]int, len(rows))
	deduped := make([]Row, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row, keyColumns)
		if i, seen := index[key]; seen {
			deduped[i] = row
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, row)
	}
	return deduped
}

// rowKey builds the dedupe key from a row's natural-key column values.
func rowKey(row Row, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = fmt.Sprintf("%v", row[col])
	}
	return strings.Join(parts, "\x1f")
}

// writeBatch upserts one deduplicated batch inside the current transaction,
// delegating to the strategy when it brings its own writer.
func writeBatch(ctx context.Context, tx pgx.Tx, s Strategy, rows []Row) error {
	if w, ok := s.(batchWriter); ok {
		return w.WriteBatch(ctx, tx, rows)
	}
	return upsertRows(ctx, tx, s, rows)
}

// upsertRows performs a multi-row INSERT ... ON CONFLICT upsert. Every
// non-key column is overwritten with the incoming value (last-fetched-wins;
// no timestamp-based conflict resolution).
func upsertRows(ctx context.Context, tx pgx.Tx, s Strategy, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	sql, args := buildUpsertSQL(s, rows)
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to upsert batch into %s: %w", s.Table(), err)
	}
	return nil
}

func buildUpsertSQL(s Strategy, rows []Row) (string, []interface{}) {
	columns := s.Columns()
	keys := s.KeyColumns()

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(s.Table())
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, col := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, row[col])
			sb.WriteString(fmt.Sprintf("$%d", len(args)))
		}
		sb.WriteByte(')')
	}

	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(strings.Join(keys, ", "))
	sb.WriteByte(')')

	assignments := make([]string, 0, len(columns))
	for _, col := range columns {
		if isKeyColumn(col, keys) {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	if len(assignments) == 0 {
		sb.WriteString(" DO NOTHING")
	} else {
		sb.WriteString(" DO UPDATE SET ")
		sb.WriteString(strings.Join(assignments, ", "))
	}

	return sb.String(), args
}

func isKeyColumn(col string, keys []string) bool {
	for _, k := range keys {
		if col == k {
			return true
		}
	}
	return false
}
