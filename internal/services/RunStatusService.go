package services

import (
	"sync"
	"time"
)

// RunStatus is a point-in-time snapshot of the batch, safe to hand to the
// status server while the pipeline keeps moving.
type RunStatus struct {
	StartedAt      time.Time `json:"started_at"`
	CurrentDay     string    `json:"current_day"`
	CurrentHour    int       `json:"current_hour"`
	DaysTotal      int       `json:"days_total"`
	DaysProcessed  int       `json:"days_processed"`
	DaysFailed     int       `json:"days_failed"`
	DaysRemaining  int       `json:"days_remaining"`
	EventsScanned  int64     `json:"events_scanned"`
	EventsMatched  int64     `json:"events_matched"`
	MalformedLines int64     `json:"malformed_lines"`
}

type RunStatusServiceInterface interface {
	BeginRun(daysTotal int)
	BeginDay(dayKey string)
	BeginHour(hour int)
	AddScanned(count int)
	AddMatched(count int)
	AddMalformed(count int)
	DayDone(failed bool)
	Snapshot() RunStatus
}

// RunStatusService tracks run progress for the health and status
// endpoints. The pipeline is the only writer; the status server reads
// concurrently, hence the mutex.
type RunStatusService struct {
	mu     sync.Mutex
	status RunStatus
}

func NewRunStatusService() RunStatusServiceInterface {
	return &RunStatusService{
		status: RunStatus{StartedAt: time.Now().UTC()},
	}
}

func (rs *RunStatusService) BeginRun(daysTotal int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.DaysTotal = daysTotal
	rs.status.DaysRemaining = daysTotal
}

func (rs *RunStatusService) BeginDay(dayKey string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.CurrentDay = dayKey
	rs.status.CurrentHour = 0
}

func (rs *RunStatusService) BeginHour(hour int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.CurrentHour = hour
}

func (rs *RunStatusService) AddScanned(count int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.EventsScanned += int64(count)
}

func (rs *RunStatusService) AddMatched(count int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.EventsMatched += int64(count)
}

func (rs *RunStatusService) AddMalformed(count int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status.MalformedLines += int64(count)
}

func (rs *RunStatusService) DayDone(failed bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if failed {
		rs.status.DaysFailed++
	} else {
		rs.status.DaysProcessed++
	}
	if rs.status.DaysRemaining > 0 {
		rs.status.DaysRemaining--
	}
}

func (rs *RunStatusService) Snapshot() RunStatus {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.status
}
