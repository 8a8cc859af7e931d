// Package sources registers all source connectors.
package sources

import (
	// Import all source connectors to trigger init() registration
	_ "github.com/ajitpratap0/comet/pkg/connector/sources/cassandra"
)
