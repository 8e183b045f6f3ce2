package archive

import (
	"errors"
	"fmt"

	"ghvault/internal/models"
)

// DownloadError reports a failed archive hour download: a non-success
// HTTP status or a transport failure. Both are retriable.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to download %s, status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// EncryptionError reports an unusable recipient key or a failure in the
// encryption mechanism. Never retried.
type EncryptionError struct {
	Op  string
	Err error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encryption failed during %s: %v", e.Op, e.Err)
}

func (e *EncryptionError) Unwrap() error { return e.Err }

// GitOperationError reports a failed git CLI invocation.
type GitOperationError struct {
	Op  string
	Err error
}

func (e *GitOperationError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *GitOperationError) Unwrap() error { return e.Err }

// ProcessingError wraps any failure while handling one day, carrying the
// day so the controller can log it and move on.
type ProcessingError struct {
	Day models.CalendarDay
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("error processing day %s: %v", e.Day.Key(), e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// IsRetriableDownload classifies errors the download retrier should
// absorb. Transport failures and non-success statuses both arrive as
// DownloadError; timeouts and connection resets are folded in by the
// source.
func IsRetriableDownload(err error) bool {
	var de *DownloadError
	return errors.As(err, &de)
}

// IsRetriableGit classifies errors the commit retrier should absorb.
func IsRetriableGit(err error) bool {
	var ge *GitOperationError
	return errors.As(err, &ge)
}
