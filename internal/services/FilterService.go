package services

import (
	json "github.com/goccy/go-json"

	"ghvault/internal/models"
	"ghvault/internal/structures"
)

// EventStream is a pull iterator over one archive hour. Next advances to
// the next well-formed event; Err reports the terminal stream error, if
// any, once Next has returned false.
type EventStream interface {
	Next() bool
	Event() models.RawEvent
	Err() error
}

type FilterServiceInterface interface {
	Identity() int64
	Matches(event models.RawEvent) bool
	FilterStream(stream EventStream) ([]models.RawEvent, error)
}

// FilterService decides whether an event references the tracked identity:
// as the actor, as the payload user, or as the repository owner. The
// identity is fixed at construction for the lifetime of the run.
type FilterService struct {
	identity int64
}

func NewFilterService(conf *structures.Config) FilterServiceInterface {
	return &FilterService{identity: conf.Tracking.Identity}
}

func (fs *FilterService) Identity() int64 {
	return fs.identity
}

func (fs *FilterService) Matches(event models.RawEvent) bool {
	if fs.idMatches(event, "actor") {
		return true
	}
	if payload, ok := event["payload"].(map[string]interface{}); ok {
		if fs.idMatches(payload, "user") {
			return true
		}
	}
	if repo, ok := event["repo"].(map[string]interface{}); ok {
		if fs.idMatches(repo, "owner") {
			return true
		}
	}
	return false
}

// FilterStream drains the stream exactly once, keeping only matches in
// their original order. Only matches are retained in memory; the rest of
// the hour flows through without buffering.
func (fs *FilterService) FilterStream(stream EventStream) ([]models.RawEvent, error) {
	var matched []models.RawEvent
	for stream.Next() {
		if fs.Matches(stream.Event()) {
			matched = append(matched, stream.Event())
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return matched, nil
}

// idMatches checks container[field].id against the tracked identity. A
// missing or null field is simply no match.
func (fs *FilterService) idMatches(container map[string]interface{}, field string) bool {
	inner, ok := container[field].(map[string]interface{})
	if !ok {
		return false
	}
	return idEquals(inner["id"], fs.identity)
}

// idEquals compares a decoded JSON value against the identity. go-json
// decodes numbers in an untyped map as float64; json.Number shows up when
// a caller decodes with UseNumber.
func idEquals(value interface{}, identity int64) bool {
	switch v := value.(type) {
	case float64:
		return v == float64(identity)
	case int64:
		return v == identity
	case json.Number:
		n, err := v.Int64()
		return err == nil && n == identity
	default:
		return false
	}
}
