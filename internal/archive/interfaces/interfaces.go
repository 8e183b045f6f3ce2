package interfaces

import (
	"context"

	"ghvault/internal/models"
	"ghvault/internal/services"
)

// EventSourceInterface hands out one archive hour as a lazy stream.
type EventSourceInterface interface {
	StreamHour(ctx context.Context, day models.CalendarDay, hour int) (services.EventStream, error)
}

// EncryptorInterface seals a day's plaintext for the configured recipient.
type EncryptorInterface interface {
	Encrypt(plaintext []byte) ([]byte, error)
}

// RemoteStoreInterface durably publishes files via the backing repository.
type RemoteStoreInterface interface {
	CommitAndPush(ctx context.Context, message string, paths []string) error
}
