// Package core defines the connector interfaces and shared types that all
// Comet connectors implement.
package core

import (
	"context"
	"time"

	"github.com/ajitpratap0/comet/pkg/config"
	"github.com/ajitpratap0/comet/pkg/models"
)

// ConnectorType represents the type of connector
type ConnectorType string

const (
	ConnectorTypeSource ConnectorType = "source"
)

// State represents connector state
type State map[string]interface{}

// Schema represents the data schema of a single stream
type Schema struct {
	Name        string
	Description string
	Fields      []Field
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Field represents a field in the schema
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Nullable    bool
	Primary     bool
	Default     interface{}
}

// FieldType represents the data type of a field
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeDate      FieldType = "date"
	FieldTypeTime      FieldType = "time"
	FieldTypeUUID      FieldType = "uuid"
	FieldTypeObject    FieldType = "object"
)

// ReplicationMethod describes how a stream is replicated
type ReplicationMethod string

const (
	ReplicationFullTable ReplicationMethod = "FULL_TABLE"
)

// Inclusion describes whether a property is emitted by default
type Inclusion string

const (
	InclusionAutomatic Inclusion = "automatic"
	InclusionAvailable Inclusion = "available"
)

// Catalog is the discovered set of streams available from a source
type Catalog struct {
	Streams []*CatalogEntry `json:"streams"`
}

// CatalogEntry describes one discoverable stream
type CatalogEntry struct {
	// TapStreamID uniquely identifies the stream across keyspaces
	TapStreamID string `json:"tap_stream_id"`
	// Stream is the table name
	Stream string `json:"stream"`
	// Table is the table name within the keyspace
	Table string `json:"table_name"`
	// KeyProperties lists primary key columns in key order
	KeyProperties []string `json:"key_properties"`
	// Schema describes the stream's columns
	Schema *Schema `json:"schema"`
	// ReplicationMethod is how the stream is extracted
	ReplicationMethod ReplicationMethod `json:"replication_method"`
	// Metadata carries per-breadcrumb stream metadata
	Metadata []MetadataEntry `json:"metadata"`
}

// MetadataEntry attaches metadata to a breadcrumb within a stream
type MetadataEntry struct {
	Breadcrumb []string               `json:"breadcrumb"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// ReadRequest scopes a Read call to a single stream
type ReadRequest struct {
	// Table is the stream to extract
	Table string
	// Columns optionally projects the extraction to named columns.
	// Empty means all columns.
	Columns []string
	// Partition is rejected by sources that only support full-table
	// extraction
	Partition string
}

// RecordStream represents a stream of records
type RecordStream struct {
	Records <-chan *models.Record
	Errors  <-chan error
}

// Source is the interface that all source connectors must implement
type Source interface {
	// Core functionality
	Initialize(ctx context.Context, config *config.BaseConfig) error
	Discover(ctx context.Context) (*Catalog, error)
	Read(ctx context.Context, req *ReadRequest) (*RecordStream, error)
	Close(ctx context.Context) error

	// State management
	GetState() State
	SetState(state State) error

	// Capabilities
	SupportsIncremental() bool
	SupportsRealtime() bool
	SupportsBatch() bool

	// Health and metrics
	Health(ctx context.Context) error
	Metrics() map[string]interface{}
}

// Connector is the base interface for all connectors
type Connector interface {
	// Metadata
	Name() string
	Type() ConnectorType
	Version() string

	// Lifecycle
	Initialize(ctx context.Context, config *config.BaseConfig) error
	Close(ctx context.Context) error

	// Health and monitoring
	Health(ctx context.Context) error
	Metrics() map[string]interface{}
}

// HealthStatus represents the health status of a connector
type HealthStatus struct {
	Status    string                 `json:"status"` // "healthy", "unhealthy", "degraded"
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
	Error     error                  `json:"error,omitempty"`
}
