package archive

import (
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/structures"
)

// ProgressStore owns the durable record of fully-processed days. Days are
// only ever added. Every mutation is written through to disk immediately,
// so a crash loses at most the in-flight day. The pipeline is the single
// writer; the RWMutex exists because the status server reads snapshots
// while the run is in flight.
type ProgressStore struct {
	mu        sync.RWMutex
	path      string
	record    models.ProgressRecord
	processed map[string]struct{}
	logger    providers.Logger
}

// NewProgressStore loads the record at the configured path. A missing or
// unreadable file falls back to a fresh empty record with a warning; a
// corrupt progress file must never kill the run.
func NewProgressStore(conf *structures.Config, logger providers.Logger) *ProgressStore {
	ps := &ProgressStore{
		path:      conf.Storage.ProgressPath,
		record:    models.NewProgressRecord(),
		processed: make(map[string]struct{}),
		logger:    logger,
	}

	data, err := os.ReadFile(ps.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf(providers.TypeApp, "Error loading progress file %s: %s, starting fresh", ps.path, err)
		}
		return ps
	}

	var record models.ProgressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		logger.Warnf(providers.TypeApp, "Failed to parse progress file %s: %s, starting fresh", ps.path, err)
		return ps
	}

	if record.Version == "" {
		record.Version = models.ProgressVersion
	}
	if record.ProcessedDays == nil {
		record.ProcessedDays = []string{}
	}
	ps.record = record
	for _, key := range record.ProcessedDays {
		ps.processed[key] = struct{}{}
	}
	return ps
}

// Path returns the location of the durable progress file, for inclusion
// in commits.
func (ps *ProgressStore) Path() string {
	return ps.path
}

// Unprocessed filters days down to those not yet marked, preserving the
// input order.
func (ps *ProgressStore) Unprocessed(days []models.CalendarDay) []models.CalendarDay {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	remaining := make([]models.CalendarDay, 0, len(days))
	for _, day := range days {
		if _, ok := ps.processed[day.Key()]; !ok {
			remaining = append(remaining, day)
		}
	}
	return remaining
}

// IsProcessed reports whether day has been marked.
func (ps *ProgressStore) IsProcessed(day models.CalendarDay) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	_, ok := ps.processed[day.Key()]
	return ok
}

// MarkProcessed adds day to the persisted set and writes the record
// through to disk before returning. Idempotent: marking a day twice
// leaves a single entry and still refreshes last_updated. The in-memory
// record only changes once the write lands; a failed save leaves the day
// unmarked so the next run picks it up again.
func (ps *ProgressStore) MarkProcessed(day models.CalendarDay) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	key := day.Key()
	candidate := ps.record
	candidate.LastUpdated = time.Now().UTC()
	if _, ok := ps.processed[key]; !ok {
		candidate.ProcessedDays = append(append([]string(nil), ps.record.ProcessedDays...), key)
	}

	if err := ps.save(candidate); err != nil {
		return err
	}

	ps.record = candidate
	ps.processed[key] = struct{}{}
	return nil
}

// Snapshot returns a copy of the current record for the status endpoints.
func (ps *ProgressStore) Snapshot() models.ProgressRecord {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	record := ps.record
	record.ProcessedDays = append([]string(nil), ps.record.ProcessedDays...)
	return record
}

// save writes record atomically: temp file, fsync, rename. The file is
// committed to git, so it stays plain indented JSON.
func (ps *ProgressStore) save(record models.ProgressRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := ps.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, ps.path)
}
