package cassandra

import (
	"context"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/connector/base"
	"github.com/ajitpratap0/comet/pkg/connector/core"
	"github.com/ajitpratap0/comet/pkg/testutil"
)

func newInitializedSource(t *testing.T) *CassandraSource {
	t.Helper()
	ctx, cancel := testutil.TestContext(t)
	t.Cleanup(cancel)

	src, err := NewCassandraSource(nil)
	require.NoError(t, err)
	require.NoError(t, src.Initialize(ctx, testutil.CassandraBaseConfig("cassandra-test")))
	return src.(*CassandraSource)
}

// newFakeWiredSource initializes a source whose session manager dials the
// given scripted session instead of a live cluster.
func newFakeWiredSource(t *testing.T, sess *fakeSession) *CassandraSource {
	t.Helper()
	src := newInitializedSource(t)
	src.sessions.connect = func(*gocql.ClusterConfig) (cqlSession, error) {
		return sess, nil
	}
	src.skip.backoff = base.NewConstantRetryPolicy(skipMaxRetries, time.Millisecond)
	return src
}

func TestInitializeParsesCredentials(t *testing.T) {
	src := newInitializedSource(t)

	assert.Equal(t, []string{"127.0.0.1"}, src.cfg.Hosts)
	assert.Equal(t, "test_ks", src.cfg.Keyspace)
	assert.Equal(t, 9042, src.cfg.Port)
	assert.Equal(t, 10000, src.cfg.FetchSize)
	assert.False(t, src.cfg.SkipHotPartitions)
}

func TestInitializeRejectsIncompleteCredentials(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg := testutil.CassandraBaseConfig("cassandra-test")
	delete(cfg.Security.Credentials, "keyspace")

	src, err := NewCassandraSource(nil)
	require.NoError(t, err)

	err = src.Initialize(ctx, cfg)
	require.Error(t, err)
	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeConfig))
}

func TestReadRejectsPartitionContext(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newInitializedSource(t)
	_, err := src.Read(ctx, &core.ReadRequest{Table: "users", Partition: "slice-1"})
	require.Error(t, err)
	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeCapability))
	assert.Contains(t, err.Error(), "does not support partitioning")
}

func TestReadRequiresTable(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newInitializedSource(t)

	_, err := src.Read(ctx, nil)
	require.Error(t, err)
	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeValidation))

	_, err = src.Read(ctx, &core.ReadRequest{})
	require.Error(t, err)
	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeValidation))
}

func TestCapabilities(t *testing.T) {
	src := newInitializedSource(t)

	assert.False(t, src.SupportsIncremental())
	assert.False(t, src.SupportsRealtime())
	assert.True(t, src.SupportsBatch())
	assert.Equal(t, "cassandra", src.Name())
	assert.Equal(t, core.ConnectorTypeSource, src.Type())
}

func TestReadStreamsRowsAndReportsCounters(t *testing.T) {
	sess := &fakeSession{pages: []fakePage{{rows: manyRows(3, "id", 0)}}}
	src := newFakeWiredSource(t, sess)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	stream, err := src.Read(ctx, &core.ReadRequest{Table: "users"})
	require.NoError(t, err)

	rows := 0
	for rec := range stream.Records {
		assert.Equal(t, "users", rec.Metadata.Table)
		rows++
	}
	require.NoError(t, <-stream.Errors)
	assert.Equal(t, 3, rows)

	m := src.Metrics()
	assert.Equal(t, "cassandra", m["name"])
	assert.Contains(t, m, "uptime_seconds")
	assert.Equal(t, int64(3), m["rows_read"])
	assert.Equal(t, int64(1), m["pages_fetched"])
	assert.NotContains(t, m, "last_extraction_truncated")
}

func TestMetricsReportSkipOutcome(t *testing.T) {
	timeout := &gocql.RequestErrReadTimeout{}
	sess := &fakeSession{pages: []fakePage{
		{rows: usersColumnRows()}, // schema lookup for the resume key
		{err: timeout},
		{rows: []rowMap{{"a": 11}}}, // single-row resume lookup
		{err: timeout},
		{rows: []rowMap{{"a": 22}}},
		{err: timeout},
		{rows: []rowMap{{"a": 33}}},
	}}
	src := newFakeWiredSource(t, sess)
	src.cfg.SkipHotPartitions = true

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	stream, err := src.Read(ctx, &core.ReadRequest{Table: "users"})
	require.NoError(t, err)
	for range stream.Records {
	}
	require.NoError(t, <-stream.Errors)

	m := src.Metrics()
	assert.Equal(t, int64(0), m["rows_read"])
	assert.Equal(t, int64(1), m["pages_fetched"])
	assert.Equal(t, true, m["last_extraction_truncated"])
	assert.Equal(t, 3, m["partitions_skipped"])
	assert.Equal(t, 3, m["read_retries"])
}

func TestReadStopsWhenContextCancelled(t *testing.T) {
	sess := &fakeSession{pages: []fakePage{{rows: manyRows(100, "id", 0)}}}

	initCtx, cancelInit := testutil.TestContext(t)
	defer cancelInit()

	cfg := testutil.CassandraBaseConfig("cassandra-test")
	cfg.Performance.BufferSize = 1

	src, err := NewCassandraSource(nil)
	require.NoError(t, err)
	require.NoError(t, src.Initialize(initCtx, cfg))
	cs := src.(*CassandraSource)
	cs.sessions.connect = func(*gocql.ClusterConfig) (cqlSession, error) {
		return sess, nil
	}

	readCtx, cancel := context.WithCancel(context.Background())
	stream, err := cs.Read(readCtx, &core.ReadRequest{Table: "users"})
	require.NoError(t, err)

	// Take one record, then walk away from the stream. Cancellation must
	// unblock the producer rather than leak it on the channel send.
	<-stream.Records
	cancel()

	err = <-stream.Errors
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	for range stream.Records {
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newInitializedSource(t)
	require.NoError(t, src.Close(ctx))
	require.NoError(t, src.Close(ctx))

	err := src.Health(ctx)
	require.Error(t, err)
	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeConnection))
}
