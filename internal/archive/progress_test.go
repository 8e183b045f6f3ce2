package archive

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghvault/internal/models"
	"ghvault/internal/structures"
	"ghvault/internal/testutil"
)

func newTestStore(t *testing.T, path string) (*ProgressStore, *testutil.MockLogger) {
	t.Helper()
	logger := &testutil.MockLogger{}
	conf := &structures.Config{
		Storage: structures.StorageConfig{ProgressPath: path},
	}
	return NewProgressStore(conf, logger), logger
}

func day(t *testing.T, key string) models.CalendarDay {
	t.Helper()
	d, err := models.ParseDayKey(key)
	require.NoError(t, err)
	return d
}

func TestProgressStore_FreshWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, logger := newTestStore(t, path)

	record := ps.Snapshot()
	assert.Empty(t, record.ProcessedDays)
	assert.Equal(t, models.ProgressVersion, record.Version)
	assert.Equal(t, 0, logger.CountLevel("warn")) // missing file is expected, not warned
}

func TestProgressStore_FreshWhenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	ps, logger := newTestStore(t, path)

	assert.Empty(t, ps.Snapshot().ProcessedDays)
	assert.Equal(t, 1, logger.CountLevel("warn"))

	// All days look unprocessed.
	days := models.DateRange(day(t, "2020-01-01"), day(t, "2020-01-03"))
	assert.Len(t, ps.Unprocessed(days), 3)
}

func TestProgressStore_MarkProcessed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	d := day(t, "2020-01-01")
	require.NoError(t, ps.MarkProcessed(d))

	assert.True(t, ps.IsProcessed(d))
	assert.Empty(t, ps.Unprocessed([]models.CalendarDay{d}))
}

func TestProgressStore_MarkProcessedIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	d := day(t, "2020-01-01")
	require.NoError(t, ps.MarkProcessed(d))
	require.NoError(t, ps.MarkProcessed(d))

	record := ps.Snapshot()
	count := 0
	for _, key := range record.ProcessedDays {
		if key == d.Key() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestProgressStore_UnprocessedPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	days := models.DateRange(day(t, "2020-01-01"), day(t, "2020-01-05"))
	require.NoError(t, ps.MarkProcessed(days[1]))
	require.NoError(t, ps.MarkProcessed(days[3]))

	remaining := ps.Unprocessed(days)
	require.Len(t, remaining, 3)
	assert.Equal(t, "2020-01-01", remaining[0].Key())
	assert.Equal(t, "2020-01-03", remaining[1].Key())
	assert.Equal(t, "2020-01-05", remaining[2].Key())
}

func TestProgressStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	require.NoError(t, ps.MarkProcessed(day(t, "2020-01-01")))
	require.NoError(t, ps.MarkProcessed(day(t, "2020-02-29")))

	reloaded, logger := newTestStore(t, path)
	record := reloaded.Snapshot()

	assert.ElementsMatch(t, []string{"2020-01-01", "2020-02-29"}, record.ProcessedDays)
	assert.Equal(t, models.ProgressVersion, record.Version)
	assert.False(t, record.LastUpdated.IsZero())
	assert.Equal(t, 0, logger.CountLevel("warn"))
}

func TestProgressStore_WriteIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	require.NoError(t, ps.MarkProcessed(day(t, "2020-01-01")))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	// The durable file is plain indented JSON.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record models.ProgressRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, []string{"2020-01-01"}, record.ProcessedDays)
}

func TestProgressStore_ForwardReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	payload := `{"processed_days": ["2020-01-01"], "future_field": {"a": 1}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	ps, _ := newTestStore(t, path)
	record := ps.Snapshot()

	assert.Equal(t, []string{"2020-01-01"}, record.ProcessedDays)
	// Missing version defaults rather than erroring.
	assert.Equal(t, models.ProgressVersion, record.Version)
	assert.True(t, ps.IsProcessed(day(t, "2020-01-01")))
}

func TestProgressStore_FailedSaveDoesNotMarkDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	ps, _ := newTestStore(t, path)

	// Block the temp file slot so the atomic write fails.
	require.NoError(t, os.Mkdir(path+".tmp", 0755))
	err := ps.MarkProcessed(day(t, "2020-01-01"))
	require.Error(t, err)

	assert.False(t, ps.IsProcessed(day(t, "2020-01-01")))

	// Once writes work again, a later day must not drag the failed day
	// into the durable record.
	require.NoError(t, os.Remove(path+".tmp"))
	require.NoError(t, ps.MarkProcessed(day(t, "2020-01-02")))

	reloaded, _ := newTestStore(t, path)
	record := reloaded.Snapshot()
	assert.Equal(t, []string{"2020-01-02"}, record.ProcessedDays)
	assert.False(t, reloaded.IsProcessed(day(t, "2020-01-01")))

	days := models.DateRange(day(t, "2020-01-01"), day(t, "2020-01-02"))
	remaining := ps.Unprocessed(days)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2020-01-01", remaining[0].Key())
}
