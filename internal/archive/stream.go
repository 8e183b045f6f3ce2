package archive

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"

	json "github.com/goccy/go-json"

	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
)

// HourStream iterates one decompressed archive hour. It implements
// services.EventStream: Next, Event, Err. Malformed lines are skipped
// with a warning and counted, never surfaced as errors. A failure in the
// underlying transport or gzip stream terminates iteration and is
// reported by Err.
type HourStream struct {
	url     string
	body    io.ReadCloser
	gz      *gzip.Reader
	scanner *bufio.Scanner
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	status  services.RunStatusServiceInterface

	event  models.RawEvent
	err    error
	closed bool
}

func (s *HourStream) Next() bool {
	if s.closed || s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event models.RawEvent
		if err := json.Unmarshal(line, &event); err != nil {
			s.logger.Warnf(providers.TypeFetch, "Failed to parse JSON line in %s: %s", s.url, err)
			s.metrics.IncMalformedLines(1)
			s.status.AddMalformed(1)
			continue
		}
		s.metrics.IncEventsScanned(1)
		s.status.AddScanned(1)
		s.event = event
		return true
	}
	s.err = s.scanner.Err()
	s.Close()
	return false
}

func (s *HourStream) Event() models.RawEvent {
	return s.event
}

func (s *HourStream) Err() error {
	if s.err != nil {
		return &DownloadError{URL: s.url, Err: s.err}
	}
	return nil
}

// Close releases the gzip reader and the response body. Idempotent;
// called automatically when the stream is drained.
func (s *HourStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	gzErr := s.gz.Close()
	bodyErr := s.body.Close()
	if gzErr != nil {
		return gzErr
	}
	return bodyErr
}
