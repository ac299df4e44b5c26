// internal/output/manager.go
package output

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/config"
	"github.com/stayscout/stayscout/pkg/types"
)

// Manager owns the result store and the configured file exports. The store
// is written incrementally as batches arrive; file exports are snapshots of
// the store, rewritten on each flush so a killed run still leaves usable
// output behind.
type Manager struct {
	store   *Store
	writers []Writer
	log     zerolog.Logger
}

// NewManager opens the store and builds the configured writers.
func NewManager(cfg config.OutputConfig, log zerolog.Logger) (*Manager, error) {
	store, err := OpenStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}

	m := &Manager{store: store, log: log}

	if cfg.CSVPath != "" {
		w, err := NewCSVWriter(cfg.CSVPath)
		if err != nil {
			store.Close()
			return nil, err
		}
		m.writers = append(m.writers, w)
	}
	if cfg.JSONPath != "" {
		w, err := NewJSONWriter(cfg.JSONPath)
		if err != nil {
			store.Close()
			return nil, err
		}
		m.writers = append(m.writers, w)
	}
	if cfg.ExcelPath != "" {
		w, err := NewExcelWriter(cfg.ExcelPath)
		if err != nil {
			store.Close()
			return nil, err
		}
		m.writers = append(m.writers, w)
	}

	return m, nil
}

// Store exposes the underlying result store for resume reads and exports.
func (m *Manager) Store() *Store { return m.store }

// Save upserts the batch into the store.
func (m *Manager) Save(ctx context.Context, results []types.DetectionResult) error {
	return m.store.Upsert(ctx, results)
}

// Snapshot rewrites every configured file export from the store's current
// contents. Writer failures are logged and do not abort the run; the store
// already has the data.
func (m *Manager) Snapshot(ctx context.Context) error {
	if len(m.writers) == 0 {
		return nil
	}

	results, err := m.store.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store for snapshot: %w", err)
	}

	for _, w := range m.writers {
		if err := w.WriteAll(results); err != nil {
			m.log.Warn().Err(err).Msg("snapshot writer failed")
		}
	}
	return nil
}

// Close closes the writers and the store.
func (m *Manager) Close() error {
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			m.log.Warn().Err(err).Msg("failed to close writer")
		}
	}
	return m.store.Close()
}
