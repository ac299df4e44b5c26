// internal/output/mysql.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/stayscout/stayscout/pkg/types"
)

// MySQLSink exports stored leads into a MySQL table.
type MySQLSink struct {
	db    *sql.DB
	table string
}

// NewMySQLSink connects to MySQL with the given DSN.
func NewMySQLSink(dsn, table string) (*MySQLSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL connection string is required")
	}
	if table == "" {
		table = "hotel_leads"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &MySQLSink{db: db, table: table}, nil
}

// Export creates the table if needed and upserts the batch. The unique key
// uses prefix lengths; MySQL caps index keys well below full TEXT columns.
func (s *MySQLSink) Export(ctx context.Context, results []types.DetectionResult) error {
	if len(results) == 0 {
		return nil
	}

	headers, _ := (&types.DetectionResult{}).Fields()

	columnDefs := make([]string, 0, len(headers))
	for _, col := range headers {
		columnDefs = append(columnDefs, quoteMySQLIdentifier(col)+" TEXT NOT NULL")
	}
	createQuery := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INT AUTO_INCREMENT PRIMARY KEY,
			%s,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY hotel_key (name(191), website(191))
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		quoteMySQLIdentifier(s.table),
		strings.Join(columnDefs, ",\n\t\t\t"),
	)
	if _, err := s.db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create table %q: %w", s.table, err)
	}

	columns := make([]string, len(headers))
	updates := make([]string, 0, len(headers))
	for i, col := range headers {
		columns[i] = quoteMySQLIdentifier(col)
		if i >= 2 {
			updates = append(updates, columns[i]+" = VALUES("+columns[i]+")")
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON DUPLICATE KEY UPDATE
			%s`,
		quoteMySQLIdentifier(s.table),
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?,", len(headers)), ","),
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
func (s *MySQLSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
