package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
	"ghvault/internal/structures"
	"ghvault/internal/testutil"
)

type pipelineFixture struct {
	pipeline  *DayPipeline
	source    *testutil.MockEventSource
	encryptor *testutil.MockEncryptor
	remote    *testutil.MockRemoteStore
	progress  *ProgressStore
	dataDir   string
}

func newPipelineFixture(t *testing.T, hours map[int][]models.RawEvent) *pipelineFixture {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Tracking: structures.TrackingConfig{Identity: 42},
		Storage: structures.StorageConfig{
			DataDir:      filepath.Join(dir, "data"),
			ProgressPath: filepath.Join(dir, "metadata.json"),
		},
	}

	logger := &testutil.MockLogger{}
	status := services.NewRunStatusService()
	source := testutil.NewMockEventSource(hours)
	encryptor := &testutil.MockEncryptor{}
	remote := &testutil.MockRemoteStore{}
	progress := NewProgressStore(conf, logger)

	pipeline := NewDayPipeline(
		conf,
		logger,
		providers.NewMetricsProvider(conf, status),
		source,
		services.NewFilterService(conf),
		encryptor,
		remote,
		progress,
		status,
	)
	return &pipelineFixture{
		pipeline:  pipeline,
		source:    source,
		encryptor: encryptor,
		remote:    remote,
		progress:  progress,
		dataDir:   conf.Storage.DataDir,
	}
}

func event(t *testing.T, actorID int, seq int) models.RawEvent {
	t.Helper()
	return models.RawEvent{
		"actor": map[string]interface{}{"id": float64(actorID)},
		"seq":   float64(seq),
	}
}

func TestDayPipeline_MatchingDayCommitsArtifact(t *testing.T) {
	f := newPipelineFixture(t, map[int][]models.RawEvent{
		5:  {event(t, 42, 1), event(t, 7, 2)},
		23: {event(t, 42, 3)},
	})
	d := day(t, "2020-01-02")

	hasMatches, err := f.pipeline.ProcessDay(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, hasMatches)

	// All 24 hours requested in order.
	require.Len(t, f.source.Requests, 24)
	assert.Equal(t, 0, f.source.Requests[0])
	assert.Equal(t, 23, f.source.Requests[23])

	artifactPath := filepath.Join(f.dataDir, "2020-01-02.jsonl.gz.age")
	sealed, err := os.ReadFile(artifactPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sealed), "sealed:"))

	// The plaintext handed to the encryptor is gzipped NDJSON of the
	// matched events only, in hour order.
	require.Len(t, f.encryptor.Calls, 1)
	gz, err := gzip.NewReader(bytes.NewReader(f.encryptor.Calls[0]))
	require.NoError(t, err)
	lines, err := io.ReadAll(gz)
	require.NoError(t, err)
	split := strings.Split(strings.TrimSpace(string(lines)), "\n")
	require.Len(t, split, 2)
	assert.Contains(t, split[0], `"seq":1`)
	assert.Contains(t, split[1], `"seq":3`)

	require.Len(t, f.remote.Commits, 1)
	assert.Equal(t, "Add events for 2020-01-02", f.remote.Commits[0].Message)
	assert.Equal(t, []string{artifactPath, f.progress.Path()}, f.remote.Commits[0].Paths)

	assert.True(t, f.progress.IsProcessed(d))
}

func TestDayPipeline_EmptyDayMarksProgressOnly(t *testing.T) {
	f := newPipelineFixture(t, map[int][]models.RawEvent{
		3: {event(t, 7, 1)}, // wrong identity
	})
	d := day(t, "2020-01-02")

	hasMatches, err := f.pipeline.ProcessDay(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, hasMatches)

	assert.Empty(t, f.encryptor.Calls)
	_, err = os.Stat(filepath.Join(f.dataDir, "2020-01-02.jsonl.gz.age"))
	assert.True(t, os.IsNotExist(err))

	require.Len(t, f.remote.Commits, 1)
	assert.Equal(t, "Mark 2020-01-02 as processed", f.remote.Commits[0].Message)
	assert.Equal(t, []string{f.progress.Path()}, f.remote.Commits[0].Paths)

	assert.True(t, f.progress.IsProcessed(d))
}

func TestDayPipeline_HourFailureAbortsDay(t *testing.T) {
	f := newPipelineFixture(t, map[int][]models.RawEvent{
		0: {event(t, 42, 1)},
	})
	f.source.FailHour = 7
	f.source.FailErr = &DownloadError{URL: "u", StatusCode: 503}
	d := day(t, "2020-01-02")

	_, err := f.pipeline.ProcessDay(context.Background(), d)

	require.Error(t, err)
	var pe *ProcessingError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, d, pe.Day)
	assert.Contains(t, err.Error(), "hour 7")

	// The day stops at the failing hour and nothing is published.
	assert.Len(t, f.source.Requests, 8)
	assert.Empty(t, f.remote.Commits)
	assert.False(t, f.progress.IsProcessed(d))
}

func TestDayPipeline_EncryptionFailureLeavesDayUnmarked(t *testing.T) {
	f := newPipelineFixture(t, map[int][]models.RawEvent{
		0: {event(t, 42, 1)},
	})
	f.encryptor.Fail = &EncryptionError{Op: "writing plaintext", Err: errors.New("boom")}
	d := day(t, "2020-01-02")

	_, err := f.pipeline.ProcessDay(context.Background(), d)

	require.Error(t, err)
	assert.Empty(t, f.remote.Commits)
	assert.False(t, f.progress.IsProcessed(d))
}

func TestDayPipeline_CommitFailureStillMarksDay(t *testing.T) {
	f := newPipelineFixture(t, map[int][]models.RawEvent{
		0: {event(t, 42, 1)},
	})
	f.remote.Fail = &GitOperationError{Op: "push", Err: errors.New("remote unreachable")}
	d := day(t, "2020-01-02")

	_, err := f.pipeline.ProcessDay(context.Background(), d)

	require.Error(t, err)
	var pe *ProcessingError
	require.True(t, errors.As(err, &pe))

	// Progress is durable before publish; a failed push must not cause
	// the day to be rebuilt on the next run.
	assert.True(t, f.progress.IsProcessed(d))
}
