package archive

import (
	"bufio"
	"context"
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"ghvault/internal/archive/interfaces"
	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
	"ghvault/internal/structures"
)

// defaultMaxLineBytes caps a single archive line. Push events carrying
// huge commit batches can run to tens of megabytes.
const defaultMaxLineBytes = 32 * 1024 * 1024

// ArchiveSource downloads hourly event archives and exposes each one as a
// lazy NDJSON stream. Downloads are retried with exponential backoff;
// malformed lines inside an hour are skipped with a warning.
type ArchiveSource struct {
	baseURL      string
	client       *http.Client
	retrier      *Retrier
	maxLineBytes int
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	status       services.RunStatusServiceInterface
}

func NewArchiveSource(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, status services.RunStatusServiceInterface) interfaces.EventSourceInterface {
	maxLineBytes := conf.Archive.MaxLineBytes
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	return &ArchiveSource{
		baseURL: conf.Archive.BaseURL,
		client:  &http.Client{Timeout: conf.Archive.RequestTimeout},
		retrier: NewRetrier(
			conf.Archive.MaxRetries,
			conf.Archive.InitialWait,
			conf.Archive.BackoffFactor,
			IsRetriableDownload,
			providers.TypeFetch,
			logger,
		),
		maxLineBytes: maxLineBytes,
		logger:       logger,
		metrics:      metrics,
		status:       status,
	}
}

// hourURL builds the archive URL. The hour is unpadded, matching the
// archive's file naming.
func (a *ArchiveSource) hourURL(day models.CalendarDay, hour int) string {
	return fmt.Sprintf("%s/%s-%d.json.gz", a.baseURL, day.Key(), hour)
}

// StreamHour downloads one hour (with retries) and returns a pull stream
// over its decompressed events. The caller owns the stream and must drain
// or close it.
func (a *ArchiveSource) StreamHour(ctx context.Context, day models.CalendarDay, hour int) (services.EventStream, error) {
	url := a.hourURL(day, hour)

	var resp *http.Response
	attempts := 0
	err := a.retrier.Do(ctx, url, func() error {
		// Every run after the first is a retry granted by the retrier.
		if attempts > 0 {
			a.metrics.IncDownloadRetries()
		}
		attempts++
		a.metrics.IncDownloads()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		r, err := a.client.Do(req)
		if err != nil {
			return &DownloadError{URL: url, Err: err}
		}
		if r.StatusCode != http.StatusOK {
			r.Body.Close()
			return &DownloadError{URL: url, StatusCode: r.StatusCode}
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("bad gzip stream: %w", err)}
	}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), a.maxLineBytes)

	return &HourStream{
		url:     url,
		body:    resp.Body,
		gz:      gz,
		scanner: scanner,
		logger:  a.logger,
		metrics: a.metrics,
		status:  a.status,
	}, nil
}
