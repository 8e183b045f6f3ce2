package models

import "time"

// ProgressVersion is written into every persisted progress record.
const ProgressVersion = "1.0.0"

// ProgressRecord is the durable progress document. It is committed to git
// alongside the artifacts, so it stays plain indented JSON. Unknown fields
// in an existing file are ignored and missing fields default, keeping old
// records forward-readable.
type ProgressRecord struct {
	LastUpdated   time.Time `json:"last_updated"`
	ProcessedDays []string  `json:"processed_days"`
	Version       string    `json:"version"`
}

func NewProgressRecord() ProgressRecord {
	return ProgressRecord{
		LastUpdated:   time.Now().UTC(),
		ProcessedDays: []string{},
		Version:       ProgressVersion,
	}
}
