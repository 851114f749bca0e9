package survey

import (
	"time"

	"github.com/google/uuid"
)

// Record is one survey entry being collected or already saved. ID tags log
// lines for the entry and is not written to the data file.
type Record struct {
	ID        uuid.UUID
	Timestamp time.Time
	Values    map[string]Value
}

// NewRecord returns an empty record with a fresh ID.
func NewRecord() *Record {
	return &Record{
		ID:     uuid.New(),
		Values: make(map[string]Value),
	}
}

// Set stores the value captured for the named field.
func (r *Record) Set(name string, v Value) {
	r.Values[name] = v
}

// Len returns the number of captured values.
func (r *Record) Len() int {
	return len(r.Values)
}
