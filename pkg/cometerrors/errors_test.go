package cometerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesTypeAndStack(t *testing.T) {
	err := New(ErrorTypeValidation, "bad input")

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Contains(t, err.Error(), "bad input")
	assert.NotEmpty(t, err.Stack)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrorTypeConnection, "failed to connect")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to connect")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "ignored"))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeQuery, "query failed").
		WithDetail("table", "users").
		WithDetail("keyspace", "ks")

	assert.Equal(t, "users", err.Details["table"])
	assert.Equal(t, "ks", err.Details["keyspace"])
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrorTypeTimeout, "slow")))
	assert.True(t, IsRetryable(New(ErrorTypeConnection, "down")))
	assert.False(t, IsRetryable(New(ErrorTypeValidation, "bad")))
	assert.False(t, IsRetryable(New(ErrorTypeQuery, "broken")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	inner := New(ErrorTypeTimeout, "slow read")
	outer := fmt.Errorf("extraction failed: %w", inner)

	assert.True(t, IsType(outer, ErrorTypeTimeout))
	assert.False(t, IsType(outer, ErrorTypeConnection))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeTimeout))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeNotFound, "table %s.%s missing", "ks", "users")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "table ks.users missing")
}
