package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Connector-specific typed configurations. These are parsed from the
// Security.Credentials map of a BaseConfig so that every connector shares
// the same YAML surface while keeping strongly typed settings internally.

// CassandraSourceConfig holds the typed settings for the Cassandra source
// connector.
type CassandraSourceConfig struct {
	// Hosts are the contact points used to seed cluster discovery.
	Hosts []string
	// Port is the native protocol port on every contact point.
	Port int
	// Keyspace scopes discovery and extraction to a single keyspace.
	Keyspace string
	// Username and Password authenticate against the cluster.
	Username string
	Password string

	// RequestTimeout bounds individual query executions.
	RequestTimeout time.Duration
	// LocalDC, when set, enables DC-aware host selection pinned to the
	// named datacenter.
	LocalDC string
	// ReconnectDelay is the fixed interval between reconnection attempts
	// to a downed host.
	ReconnectDelay time.Duration
	// MaxAttempts caps reconnection attempts per downed host.
	MaxAttempts int
	// ProtocolVersion forces a native protocol version (0 = negotiate).
	ProtocolVersion int
	// FetchSize is the page size requested from the cluster per page.
	FetchSize int

	// SkipHotPartitions enables the degraded-read retry path that skips
	// partitions which repeatedly time out.
	SkipHotPartitions bool

	// TLS material for encrypted cluster connections.
	SSLEnabled  bool
	SSLCACert   string
	SSLCertfile string
	SSLKeyfile  string
	SSLNoVerify bool

	// StartDate is carried through to downstream consumers for
	// incremental bookkeeping. Extraction itself is always full-table.
	StartDate string
}

// ApplyDefaults fills unset fields with their default values.
func (c *CassandraSourceConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 9042
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 60 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
	if c.FetchSize == 0 {
		c.FetchSize = 10000
	}
}

// Validate checks that the configuration is usable.
func (c *CassandraSourceConfig) Validate() error {
	if len(c.Hosts) == 0 {
		return fmt.Errorf("hosts is required")
	}
	if c.Keyspace == "" {
		return fmt.Errorf("keyspace is required")
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.FetchSize <= 0 {
		return fmt.Errorf("fetch_size must be positive")
	}
	return nil
}

// CassandraFromBase extracts a CassandraSourceConfig from the credentials
// map of a BaseConfig, applies defaults and validates the result.
func CassandraFromBase(base *BaseConfig) (*CassandraSourceConfig, error) {
	if base == nil {
		return nil, fmt.Errorf("base config is nil")
	}
	creds := base.Security.Credentials

	cfg := &CassandraSourceConfig{
		Keyspace:    creds["keyspace"],
		Username:    creds["username"],
		Password:    creds["password"],
		LocalDC:     creds["local_dc"],
		SSLCACert:   creds["ssl_ca_cert"],
		SSLCertfile: creds["ssl_certfile"],
		SSLKeyfile:  creds["ssl_keyfile"],
		StartDate:   creds["start_date"],
	}

	if hosts := creds["hosts"]; hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.Hosts = append(cfg.Hosts, h)
			}
		}
	}

	var err error
	if cfg.Port, err = credInt(creds, "port"); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = credInt(creds, "max_attempts"); err != nil {
		return nil, err
	}
	if cfg.ProtocolVersion, err = credInt(creds, "protocol_version"); err != nil {
		return nil, err
	}
	if cfg.FetchSize, err = credInt(creds, "fetch_size"); err != nil {
		return nil, err
	}
	if cfg.SkipHotPartitions, err = credBool(creds, "skip_hot_partitions"); err != nil {
		return nil, err
	}
	if cfg.SSLEnabled, err = credBool(creds, "ssl_enabled"); err != nil {
		return nil, err
	}
	if cfg.SSLNoVerify, err = credBool(creds, "ssl_no_verify"); err != nil {
		return nil, err
	}

	if secs, err := credInt(creds, "request_timeout"); err != nil {
		return nil, err
	} else if secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	} else if base.Timeouts.Request > 0 {
		cfg.RequestTimeout = base.Timeouts.Request
	}
	if secs, err := credInt(creds, "reconnect_delay"); err != nil {
		return nil, err
	} else if secs > 0 {
		cfg.ReconnectDelay = time.Duration(secs) * time.Second
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func credInt(creds map[string]string, key string) (int, error) {
	v, ok := creds[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func credBool(creds map[string]string, key string) (bool, error) {
	v, ok := creds[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
