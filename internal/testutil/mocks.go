package testutil

import (
	"context"
	"sync"

	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were recorded at level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// SliceStream adapts a fixed slice of events to services.EventStream.
type SliceStream struct {
	Events    []models.RawEvent
	StreamErr error

	pos int
}

func (s *SliceStream) Next() bool {
	if s.pos >= len(s.Events) {
		return false
	}
	s.pos++
	return true
}

func (s *SliceStream) Event() models.RawEvent { return s.Events[s.pos-1] }
func (s *SliceStream) Err() error             { return s.StreamErr }

// MockEventSource serves configured per-hour events. Hours absent from
// the map stream empty.
type MockEventSource struct {
	mu       sync.Mutex
	Hours    map[int][]models.RawEvent
	FailHour int // hour that returns FailErr; -1 to disable
	FailErr  error
	Requests []int
}

func NewMockEventSource(hours map[int][]models.RawEvent) *MockEventSource {
	return &MockEventSource{Hours: hours, FailHour: -1}
}

func (m *MockEventSource) StreamHour(_ context.Context, _ models.CalendarDay, hour int) (services.EventStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, hour)
	if m.FailErr != nil && hour == m.FailHour {
		return nil, m.FailErr
	}
	return &SliceStream{Events: m.Hours[hour]}, nil
}

// MockEncryptor prefixes the plaintext so tests can assert the artifact
// went through encryption without real crypto.
type MockEncryptor struct {
	Calls [][]byte
	Fail  error
}

func (m *MockEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.Calls = append(m.Calls, plaintext)
	return append([]byte("sealed:"), plaintext...), nil
}

// MockRemoteStore records commit requests.
type MockRemoteStore struct {
	mu      sync.Mutex
	Commits []CommitCall
	Fail    error
}

type CommitCall struct {
	Message string
	Paths   []string
}

func (m *MockRemoteStore) CommitAndPush(_ context.Context, message string, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Commits = append(m.Commits, CommitCall{Message: message, Paths: append([]string(nil), paths...)})
	return nil
}
