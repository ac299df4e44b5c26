// internal/output/store.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/stayscout/stayscout/pkg/types"
)

// Store is the SQLite result store. It is the source of truth for a run:
// results are upserted as they arrive, and resume reads filter the next run's
// input against it. Keyed by (name, website) so reprocessing a hotel
// overwrites its prior row instead of appending.
type Store struct {
	db   *sql.DB
	path string
}

const storeSchema = `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		website TEXT NOT NULL,
		booking_url TEXT NOT NULL DEFAULT '',
		booking_engine TEXT NOT NULL DEFAULT '',
		booking_engine_domain TEXT NOT NULL DEFAULT '',
		detection_method TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		phone_google TEXT NOT NULL DEFAULT '',
		phone_website TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		latitude TEXT NOT NULL DEFAULT '',
		longitude TEXT NOT NULL DEFAULT '',
		rating TEXT NOT NULL DEFAULT '',
		review_count TEXT NOT NULL DEFAULT '',
		room_count TEXT NOT NULL DEFAULT '',
		place_id TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name, website)
	)`

// OpenStore opens (creating if needed) the SQLite store at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Upsert writes the batch in one transaction. Rows keyed by an existing
// (name, website) pair are overwritten.
func (s *Store) Upsert(ctx context.Context, results []types.DetectionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	headers, _ := (&types.DetectionResult{}).Fields()
	updates := make([]string, 0, len(headers))
	for _, col := range headers[2:] {
		updates = append(updates, col+" = excluded."+col)
	}

	query := fmt.Sprintf(`
		INSERT INTO results (%s)
		VALUES (%s)
		ON CONFLICT(name, website) DO UPDATE SET
			%s,
			updated_at = CURRENT_TIMESTAMP`,
		strings.Join(headers, ", "),
		strings.TrimSuffix(strings.Repeat("?,", len(headers)), ","),
		strings.Join(updates, ",\n\t\t\t"),
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range results {
		r := results[i]
		r.Name, r.Website = r.Key()
		_, row := r.Fields()
		args := make([]interface{}, len(row))
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to upsert result for %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// All returns every stored result ordered by name.
func (s *Store) All(ctx context.Context) ([]types.DetectionResult, error) {
	headers, _ := (&types.DetectionResult{}).Fields()
	query := fmt.Sprintf("SELECT %s FROM results ORDER BY name, website", strings.Join(headers, ", "))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []types.DetectionResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Processed returns all stored results keyed for resume filtering.
func (s *Store) Processed(ctx context.Context) (map[ResultKey]types.DetectionResult, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	processed := make(map[ResultKey]types.DetectionResult, len(all))
	for i := range all {
		processed[KeyOf(&all[i])] = all[i]
	}
	return processed, nil
}

// StoreStats summarizes the stored results.
type StoreStats struct {
	Total        int `json:"total"`
	BookingURLs  int `json:"booking_urls"`
	KnownEngines int `json:"known_engines"`
	Errors       int `json:"errors"`
}

// Stats counts stored rows by outcome class.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	var stats StoreStats
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE booking_url != ''),
			COUNT(*) FILTER (WHERE booking_engine NOT IN ('', ?, ?, ?, ?)),
			COUNT(*) FILTER (WHERE error != '')
		FROM results`
	err := s.db.QueryRowContext(ctx, query,
		types.EngineUnknown, types.EngineUnknownThirdParty,
		types.EngineProprietarySameSite, types.EngineUnknownBookingAPI,
	).Scan(&stats.Total, &stats.BookingURLs, &stats.KnownEngines, &stats.Errors)
	if err != nil {
		return StoreStats{}, fmt.Errorf("failed to count results: %w", err)
	}
	return stats, nil
}

// Close closes the store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func scanResult(rows *sql.Rows) (types.DetectionResult, error) {
	var r types.DetectionResult
	err := rows.Scan(
		&r.Name, &r.Website, &r.BookingURL, &r.BookingEngine,
		&r.BookingEngineDomain, &r.DetectionMethod, &r.Error,
		&r.PhoneGoogle, &r.PhoneWebsite, &r.Email, &r.Address,
		&r.Latitude, &r.Longitude, &r.Rating, &r.ReviewCount,
		&r.RoomCount, &r.PlaceID,
	)
	if err != nil {
		return types.DetectionResult{}, fmt.Errorf("failed to scan result: %w", err)
	}
	return r, nil
}
