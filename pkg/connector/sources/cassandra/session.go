package cassandra

import (
	"context"
	"sync"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/config"
)

// sessionManager owns the lifecycle of the cluster connection. The session
// is created lazily on first use and cached until Disconnect, which tears it
// down so the next access reconnects from scratch.
//
// At most one live session exists per manager. The manager is safe for
// concurrent use, though the supported query model is one in-flight query
// per session.
type sessionManager struct {
	cfg    *config.CassandraSourceConfig
	logger *zap.Logger

	// connect dials the cluster. Replaceable in tests.
	connect func(cluster *gocql.ClusterConfig) (cqlSession, error)

	mu      sync.Mutex
	cluster *gocql.ClusterConfig
	session cqlSession
}

func newSessionManager(cfg *config.CassandraSourceConfig, logger *zap.Logger) *sessionManager {
	return &sessionManager{
		cfg:    cfg,
		logger: logger,
		connect: func(cluster *gocql.ClusterConfig) (cqlSession, error) {
			s, err := cluster.CreateSession()
			if err != nil {
				return nil, err
			}
			return gocqlSession{s: s}, nil
		},
	}
}

// Session returns the live session, creating the cluster handle and
// connecting on first use.
func (m *sessionManager) Session(ctx context.Context) (cqlSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	if m.cluster == nil {
		m.cluster = m.newCluster()
	}

	session, err := m.connect(m.cluster)
	if err != nil {
		m.cluster = nil
		return nil, cometerrors.Wrap(err, cometerrors.ErrorTypeConnection, "failed to connect to cluster").
			WithDetail("keyspace", m.cfg.Keyspace)
	}

	m.logger.Info("session established",
		zap.Strings("hosts", m.cfg.Hosts),
		zap.String("keyspace", m.cfg.Keyspace))

	m.session = session
	return m.session, nil
}

// newCluster builds the cluster handle from configuration.
func (m *sessionManager) newCluster() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(m.cfg.Hosts...)
	cluster.Port = m.cfg.Port
	cluster.Keyspace = m.cfg.Keyspace
	cluster.Consistency = gocql.LocalQuorum
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = m.cfg.RequestTimeout
	cluster.Authenticator = gocql.PasswordAuthenticator{
		Username: m.cfg.Username,
		Password: m.cfg.Password,
	}
	cluster.ReconnectionPolicy = &gocql.ConstantReconnectionPolicy{
		Interval:   m.cfg.ReconnectDelay,
		MaxRetries: m.cfg.MaxAttempts,
	}
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 1}

	if m.cfg.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.DCAwareRoundRobinPolicy(m.cfg.LocalDC)
	}
	if m.cfg.ProtocolVersion > 0 {
		cluster.ProtoVersion = m.cfg.ProtocolVersion
	}
	if m.cfg.SSLEnabled {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 m.cfg.SSLCACert,
			CertPath:               m.cfg.SSLCertfile,
			KeyPath:                m.cfg.SSLKeyfile,
			EnableHostVerification: !m.cfg.SSLNoVerify,
		}
	}
	return cluster
}

// Disconnect releases all pooled connections. It is a no-op when no session
// has been created. The manager reconnects lazily on the next Session call.
func (m *sessionManager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cluster == nil || m.session == nil {
		return
	}

	m.logger.Info("disconnecting from cluster")
	m.session.Close()
	m.session = nil
	m.cluster = nil
}
