// Package models defines the record model that flows through Comet
// connectors, along with value normalization helpers for driver-native
// types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Record represents a single data record flowing through the pipeline.
type Record struct {
	// ID uniquely identifies the record within a stream.
	ID string `json:"id,omitempty"`

	// Data holds the record's column values keyed by column name.
	Data map[string]interface{} `json:"data"`

	// Metadata carries stream-level context about the record.
	Metadata RecordMetadata `json:"metadata"`
}

// RecordMetadata contains contextual information about a record.
type RecordMetadata struct {
	// Source names the connector that produced the record.
	Source string `json:"source,omitempty"`
	// Table is the fully qualified stream the record belongs to.
	Table string `json:"table,omitempty"`
	// Timestamp records when the record was extracted.
	Timestamp time.Time `json:"timestamp,omitempty"`
	// Custom holds additional connector-specific metadata.
	Custom map[string]interface{} `json:"custom,omitempty"`
}

// NewRecord creates a record for the given source and table with an
// assigned ID and extraction timestamp.
func NewRecord(source, table string, data map[string]interface{}) *Record {
	return &Record{
		ID:   uuid.NewString(),
		Data: data,
		Metadata: RecordMetadata{
			Source:    source,
			Table:     table,
			Timestamp: time.Now().UTC(),
		},
	}
}

// SetData sets a single column value on the record.
func (r *Record) SetData(key string, value interface{}) {
	if r.Data == nil {
		r.Data = make(map[string]interface{})
	}
	r.Data[key] = value
}

// GetData retrieves a column value from the record.
func (r *Record) GetData(key string) (interface{}, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}
