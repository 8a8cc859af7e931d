// Package base provides the foundational BaseConnector that all Comet
// connectors embed. It implements the shared connector lifecycle, state
// management, structured logging, and retry logic.
//
// All connectors should embed BaseConnector to inherit its functionality:
//
//	type MySource struct {
//	    *base.BaseConnector
//	    // connector-specific fields
//	}
//
//	func NewMySource() *MySource {
//	    return &MySource{
//	        BaseConnector: base.NewBaseConnector("my-source", core.ConnectorTypeSource, "1.0.0"),
//	    }
//	}
package base

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/config"
	"github.com/ajitpratap0/comet/pkg/connector/core"
	"github.com/ajitpratap0/comet/pkg/logger"
)

// BaseConnector provides common functionality for all connectors.
type BaseConnector struct {
	// Core fields
	name          string             // Unique connector identifier
	connectorType core.ConnectorType // Source or Destination
	version       string             // Connector version
	config        *config.BaseConfig // Unified configuration
	logger        *zap.Logger        // Structured logger

	// State management
	state      core.State   // Connector state
	stateMutex sync.RWMutex // Protects state access

	// Resource management
	ctx        context.Context    // Connector context
	cancel     context.CancelFunc // Context cancellation
	closed     bool               // Shutdown flag
	closeMutex sync.Mutex         // Protects close operation

	startTime   time.Time
	retryPolicy *RetryPolicy
}

// NewBaseConnector creates a new base connector with the specified name,
// type, and version. This should be called by connector implementations
// during construction.
func NewBaseConnector(name string, connectorType core.ConnectorType, version string) *BaseConnector {
	return &BaseConnector{
		name:          name,
		connectorType: connectorType,
		version:       version,
		state:         make(core.State),
		logger:        logger.Get().With(zap.String("connector", name)),
	}
}

// Initialize sets up the base connector. This must be called before using
// the connector.
func (bc *BaseConnector) Initialize(ctx context.Context, config *config.BaseConfig) error {
	bc.config = config
	bc.ctx, bc.cancel = context.WithCancel(ctx)
	bc.startTime = time.Now()

	bc.retryPolicy = NewRetryPolicy(
		config.Reliability.RetryAttempts,
		config.Reliability.RetryDelay,
	)

	bc.logger.Info("connector initialized",
		zap.String("type", string(bc.connectorType)),
		zap.String("version", bc.version))

	return nil
}

// Name returns the connector name
func (bc *BaseConnector) Name() string {
	return bc.name
}

// Type returns the connector type
func (bc *BaseConnector) Type() core.ConnectorType {
	return bc.connectorType
}

// Version returns the connector version
func (bc *BaseConnector) Version() string {
	return bc.version
}

// Config returns the unified configuration
func (bc *BaseConnector) Config() *config.BaseConfig {
	return bc.config
}

// Logger returns the connector's structured logger
func (bc *BaseConnector) Logger() *zap.Logger {
	return bc.logger
}

// GetState returns a copy of the current state
func (bc *BaseConnector) GetState() core.State {
	bc.stateMutex.RLock()
	defer bc.stateMutex.RUnlock()

	stateCopy := make(core.State)
	for k, v := range bc.state {
		stateCopy[k] = v
	}
	return stateCopy
}

// SetState updates the connector state
func (bc *BaseConnector) SetState(state core.State) error {
	bc.stateMutex.Lock()
	defer bc.stateMutex.Unlock()

	bc.state = state
	bc.logger.Debug("state updated", zap.Any("state", state))
	return nil
}

// Health performs a health check
func (bc *BaseConnector) Health(ctx context.Context) error {
	bc.closeMutex.Lock()
	defer bc.closeMutex.Unlock()

	if bc.closed {
		return cometerrors.New(cometerrors.ErrorTypeConnection, "connector is closed")
	}
	return nil
}

// Metrics returns current metrics
func (bc *BaseConnector) Metrics() map[string]interface{} {
	m := map[string]interface{}{
		"name":    bc.name,
		"type":    bc.connectorType,
		"version": bc.version,
	}
	if !bc.startTime.IsZero() {
		m["uptime_seconds"] = time.Since(bc.startTime).Seconds()
	}
	return m
}

// Close shuts down the connector
func (bc *BaseConnector) Close(ctx context.Context) error {
	bc.closeMutex.Lock()
	defer bc.closeMutex.Unlock()

	if bc.closed {
		return nil
	}

	bc.logger.Info("closing connector")

	if bc.cancel != nil {
		bc.cancel()
	}

	bc.closed = true
	bc.logger.Info("connector closed")

	return nil
}

// ExecuteWithRetry executes a function with automatic retry logic for
// retryable errors based on the configured retry policy.
func (bc *BaseConnector) ExecuteWithRetry(ctx context.Context, fn func() error) error {
	if bc.retryPolicy == nil {
		return fn()
	}
	return bc.retryPolicy.ExecuteWithCondition(ctx, fn, cometerrors.IsRetryable)
}
