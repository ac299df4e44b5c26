// internal/output/store_test.go
package output

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/pkg/types"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreUpsertOverwritesSameKey(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	first := types.DetectionResult{
		Name:          "Grand Hotel",
		Website:       "https://www.grandhotel.com",
		BookingEngine: types.EngineUnknown,
		Error:         types.ErrNoBookingFound,
	}
	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{first}))

	second := first
	second.BookingEngine = "Cloudbeds"
	second.BookingEngineDomain = "cloudbeds.com"
	second.BookingURL = "https://hotels.cloudbeds.com/reservation/abc"
	second.Error = ""
	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{second}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Cloudbeds", all[0].BookingEngine)
	assert.Empty(t, all[0].Error)
}

func TestStoreKeyTrimsName(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{
		{Name: "  Grand Hotel  ", Website: "https://www.grandhotel.com"},
		{Name: "Grand Hotel", Website: "https://www.grandhotel.com", BookingEngine: "Mews"},
	}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Grand Hotel", all[0].Name)
	assert.Equal(t, "Mews", all[0].BookingEngine)
}

func TestStoreAllOrderedByName(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{
		{Name: "Zebra Lodge", Website: "https://zebralodge.com"},
		{Name: "Alpine Inn", Website: "https://alpineinn.com"},
	}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpine Inn", all[0].Name)
	assert.Equal(t, "Zebra Lodge", all[1].Name)
}

func TestStoreProcessedKeys(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{
		{Name: "Grand Hotel", Website: "https://www.grandhotel.com", BookingEngine: "Cloudbeds"},
	}))

	processed, err := store.Processed(ctx)
	require.NoError(t, err)

	key := ResultKey{Name: "Grand Hotel", Website: "https://www.grandhotel.com"}
	stored, ok := processed[key]
	require.True(t, ok)
	assert.True(t, stored.Terminal())
}

func TestStoreStats(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DetectionResult{
		{Name: "A", Website: "https://a.com", BookingEngine: "Cloudbeds", BookingURL: "https://hotels.cloudbeds.com/a"},
		{Name: "B", Website: "https://b.com", BookingEngine: types.EngineUnknownThirdParty, BookingURL: "https://book.example.com/b"},
		{Name: "C", Website: "https://c.com", Error: types.ErrTimeout},
		{Name: "D", Website: "https://d.com", BookingEngine: types.EngineUnknown, Error: types.ErrNoBookingFound},
	}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.BookingURLs)
	assert.Equal(t, 1, stats.KnownEngines)
	assert.Equal(t, 2, stats.Errors)
}

func TestOpenStoreRequiresPath(t *testing.T) {
	_, err := OpenStore("")
	assert.Error(t, err)
}
