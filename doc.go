// Package comet provides a data extraction platform for wide-column
// distributed databases. It discovers table schemas from the database's own
// metadata catalog and streams full-table extracts as schema-tagged records
// for downstream ingestion.
//
// # Architecture
//
// Comet is organized as a connector framework:
//
//   - pkg/connector/core defines the Source contract, schema and catalog
//     types shared by all connectors.
//   - pkg/connector/base provides the common connector scaffolding
//     (configuration, logging, state, retry policies).
//   - pkg/connector/registry holds the global connector registry used by
//     the CLI to instantiate sources by name.
//   - pkg/connector/sources/cassandra implements the Cassandra source:
//     catalog discovery from system_schema, paginated extraction through
//     the native protocol, and hot-partition skip recovery for degraded
//     reads.
//
// Supporting packages cover the ambient concerns: pkg/config (unified
// configuration), pkg/logger (structured logging), pkg/cometerrors (typed
// errors), pkg/metrics (Prometheus collectors) and pkg/models (records and
// row values).
//
// # Quick Start
//
// Discover the catalog of a keyspace and extract one table:
//
//	comet discover --config config.yaml
//	comet extract --config config.yaml --table events
//
// See cmd/comet for the CLI entry point.
package comet
