// internal/output/postgres.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/stayscout/stayscout/pkg/types"
)

// PostgresSink exports stored leads into a PostgreSQL table, the format the
// CRM import runs against.
type PostgresSink struct {
	db    *sql.DB
	table string
}

// NewPostgresSink connects to PostgreSQL with the given DSN.
func NewPostgresSink(dsn, table string) (*PostgresSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is required")
	}
	if table == "" {
		table = "hotel_leads"
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresSink{db: db, table: table}, nil
}

// Export creates the table if needed and upserts the batch.
func (s *PostgresSink) Export(ctx context.Context, results []types.DetectionResult) error {
	if len(results) == 0 {
		return nil
	}

	headers, _ := (&types.DetectionResult{}).Fields()

	columnDefs := make([]string, 0, len(headers))
	for _, col := range headers {
		columnDefs = append(columnDefs, quotePgIdentifier(col)+" TEXT NOT NULL DEFAULT ''")
	}
	createQuery := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			%s,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (name, website)
		)`,
		quotePgIdentifier(s.table),
		strings.Join(columnDefs, ",\n\t\t\t"),
	)
	if _, err := s.db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create table %q: %w", s.table, err)
	}

	columns := make([]string, len(headers))
	placeholders := make([]string, len(headers))
	updates := make([]string, 0, len(headers))
	for i, col := range headers {
		columns[i] = quotePgIdentifier(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i >= 2 {
			updates = append(updates, quotePgIdentifier(col)+" = EXCLUDED."+quotePgIdentifier(col))
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (name, website) DO UPDATE SET
			%s,
			updated_at = CURRENT_TIMESTAMP`,
		quotePgIdentifier(s.table),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ",\n\t\t\t"),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range results {
		_, row := results[i].Fields()
		args := make([]interface{}, len(row))
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to export result for %q: %w", results[i].Name, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (s *PostgresSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func quotePgIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
