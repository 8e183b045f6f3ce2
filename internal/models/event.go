package models

// RawEvent is one activity record as it appears in an archive hour. No
// schema is enforced; the filter only inspects a few nested id paths and
// a matched event is re-serialized untouched.
type RawEvent map[string]interface{}
