package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	json "github.com/goccy/go-json"

	"ghvault/internal/archive/interfaces"
	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
	"ghvault/internal/structures"
)

// DayPipeline processes one calendar day: 24 hourly fetch+filter cycles
// in strict hour order, then either an encrypted artifact commit (matches
// found) or a progress-only marker commit (none found).
//
// Ordering invariant: the progress record is durably marked before the
// commit+push is attempted, and the commit carries the progress file. A
// failed push therefore leaves the day locally done and unpublished; the
// day will not be reprocessed. At-most-once reprocessing, best-effort
// publish.
type DayPipeline struct {
	source    interfaces.EventSourceInterface
	filter    services.FilterServiceInterface
	encryptor interfaces.EncryptorInterface
	remote    interfaces.RemoteStoreInterface
	progress  *ProgressStore
	status    services.RunStatusServiceInterface
	dataDir   string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewDayPipeline(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	source interfaces.EventSourceInterface,
	filter services.FilterServiceInterface,
	encryptor interfaces.EncryptorInterface,
	remote interfaces.RemoteStoreInterface,
	progress *ProgressStore,
	status services.RunStatusServiceInterface,
) *DayPipeline {
	return &DayPipeline{
		source:    source,
		filter:    filter,
		encryptor: encryptor,
		remote:    remote,
		progress:  progress,
		status:    status,
		dataDir:   conf.Storage.DataDir,
		logger:    logger,
		metrics:   metrics,
	}
}

// ProcessDay runs the full day state machine. It reports whether any
// events matched, or a ProcessingError carrying the day. A failure in any
// hour aborts the whole day; partial days are never marked.
func (p *DayPipeline) ProcessDay(ctx context.Context, day models.CalendarDay) (bool, error) {
	started := time.Now()
	p.logger.Infof(providers.TypePipeline, "Processing day: %s", day.Key())
	p.status.BeginDay(day.Key())

	var events []models.RawEvent
	for hour := 0; hour < 24; hour++ {
		p.status.BeginHour(hour)
		matched, err := p.processHour(ctx, day, hour)
		if err != nil {
			return false, &ProcessingError{Day: day, Err: fmt.Errorf("hour %d: %w", hour, err)}
		}
		events = append(events, matched...)
	}

	hasMatches := len(events) > 0
	if hasMatches {
		artifactPath, err := p.writeArtifact(day, events)
		if err != nil {
			return false, &ProcessingError{Day: day, Err: err}
		}

		if err := p.progress.MarkProcessed(day); err != nil {
			return false, &ProcessingError{Day: day, Err: fmt.Errorf("marking day processed: %w", err)}
		}

		message := fmt.Sprintf("Add events for %s", day.Key())
		if err := p.remote.CommitAndPush(ctx, message, []string{artifactPath, p.progress.Path()}); err != nil {
			return false, &ProcessingError{Day: day, Err: err}
		}

		p.logger.Infof(providers.TypePipeline, "Day %s done: %d matched events archived", day.Key(), len(events))
	} else {
		if err := p.progress.MarkProcessed(day); err != nil {
			return false, &ProcessingError{Day: day, Err: fmt.Errorf("marking day processed: %w", err)}
		}

		message := fmt.Sprintf("Mark %s as processed", day.Key())
		if err := p.remote.CommitAndPush(ctx, message, []string{p.progress.Path()}); err != nil {
			return false, &ProcessingError{Day: day, Err: err}
		}

		p.logger.Infof(providers.TypePipeline, "Day %s done: no matched events", day.Key())
	}

	p.metrics.ObserveDayDuration(time.Since(started))
	return hasMatches, nil
}

// processHour streams one archive hour through the filter. The stream is
// drained exactly once; only matches are retained.
func (p *DayPipeline) processHour(ctx context.Context, day models.CalendarDay, hour int) ([]models.RawEvent, error) {
	stream, err := p.source.StreamHour(ctx, day, hour)
	if err != nil {
		return nil, err
	}

	matched, err := p.filter.FilterStream(stream)
	if err != nil {
		return nil, err
	}

	p.metrics.IncEventsMatched(len(matched))
	p.status.AddMatched(len(matched))
	return matched, nil
}

// writeArtifact serializes the day's matches to newline-delimited JSON,
// compresses, encrypts, and writes the armored ciphertext atomically
// under the data directory. Compression happens before encryption;
// ciphertext does not compress.
func (p *DayPipeline) writeArtifact(day models.CalendarDay, events []models.RawEvent) (string, error) {
	plaintext, err := eventsToJSONL(events)
	if err != nil {
		return "", fmt.Errorf("serializing events: %w", err)
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(plaintext); err != nil {
		return "", fmt.Errorf("compressing events: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("compressing events: %w", err)
	}

	ciphertext, err := p.encryptor.Encrypt(compressed.Bytes())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}

	artifactPath := filepath.Join(p.dataDir, day.Key()+".jsonl.gz.age")
	tmpFile := artifactPath + ".tmp"
	if err := os.WriteFile(tmpFile, ciphertext, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := os.Rename(tmpFile, artifactPath); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("writing artifact: %w", err)
	}

	return artifactPath, nil
}

func eventsToJSONL(events []models.RawEvent) ([]byte, error) {
	var buf bytes.Buffer
	for _, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
