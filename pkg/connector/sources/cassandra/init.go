package cassandra

import (
	"github.com/ajitpratap0/comet/pkg/connector/registry"
)

func init() {
	// Register the Cassandra source connector
	registry.RegisterSource("cassandra", NewCassandraSource)

	// Register connector metadata
	registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "cassandra",
		Type:        "source",
		Description: "Cassandra source connector with catalog discovery and hot-partition skipping",
		Version:     "1.0.0",
		Author:      "Comet Team",
		Capabilities: []string{
			"batch",
			"schema_discovery",
			"column_projection",
			"partition_skip",
			"metrics",
		},
		ConfigSchema: map[string]interface{}{
			"hosts": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Comma separated cluster contact points",
			},
			"port": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     9042,
				"description": "Native protocol port",
			},
			"keyspace": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Keyspace to discover and extract from",
			},
			"username": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Cluster username",
			},
			"password": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Cluster password",
				"sensitive":   true,
			},
			"request_timeout": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"description": "Per request timeout in seconds",
			},
			"local_dc": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Local datacenter for DC aware routing",
			},
			"reconnect_delay": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     60,
				"description": "Delay between reconnection attempts in seconds",
			},
			"max_attempts": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     5,
				"description": "Maximum reconnection attempts",
			},
			"protocol_version": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"description": "Native protocol version override",
			},
			"fetch_size": map[string]interface{}{
				"type":        "integer",
				"required":    false,
				"default":     10000,
				"description": "Rows fetched per page",
			},
			"skip_hot_partitions": map[string]interface{}{
				"type":        "boolean",
				"required":    false,
				"default":     false,
				"description": "Skip partitions that repeatedly time out",
			},
			"ssl_enabled": map[string]interface{}{
				"type":        "boolean",
				"required":    false,
				"default":     false,
				"description": "Enable TLS for cluster connections",
			},
			"ssl_ca_cert": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Path to CA certificate",
			},
			"ssl_certfile": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Path to client certificate",
			},
			"ssl_keyfile": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Path to client private key",
			},
			"ssl_no_verify": map[string]interface{}{
				"type":        "boolean",
				"required":    false,
				"default":     false,
				"description": "Skip server certificate verification",
			},
			"start_date": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Earliest record date passed through to consumers",
			},
		},
	})
}
