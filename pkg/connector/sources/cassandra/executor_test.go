package cassandra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/connector/base"
	"github.com/ajitpratap0/comet/pkg/testutil"
)

func newTestExecutors(t *testing.T, session *fakeSession) (*pagedExecutor, *skipExecutor, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{session: session}
	logger := testutil.TestLogger(t)
	paged := newPagedExecutor(provider, logger, "cassandra")
	skip := newSkipExecutor(paged, provider, logger, "cassandra")
	skip.backoff = base.NewConstantRetryPolicy(skipMaxRetries, time.Millisecond)
	return paged, skip, provider
}

func TestPagedExecutorExhaustsAllPages(t *testing.T) {
	session := &fakeSession{
		pages: []fakePage{
			{rows: manyRows(100, "id", 0), next: []byte("p1")},
			{rows: manyRows(100, "id", 100), next: []byte("p2")},
			{rows: nil, next: nil},
		},
	}
	paged, _, provider := newTestExecutors(t, session)

	var seen int
	err := paged.execute(context.Background(), "SELECT * FROM users", nil, 100, func(rowMap) error {
		seen++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 200, seen)
	require.Len(t, session.calls, 3, "no fourth fetch after the empty final page")
	assert.Nil(t, session.calls[0].pageState)
	assert.Equal(t, []byte("p1"), session.calls[1].pageState)
	assert.Equal(t, []byte("p2"), session.calls[2].pageState)
	assert.Equal(t, 0, provider.disconnects)
}

func TestPagedExecutorDisconnectsOnFetchError(t *testing.T) {
	boom := errors.New("syntax error in CQL")
	session := &fakeSession{pages: []fakePage{{err: boom}}}
	paged, _, provider := newTestExecutors(t, session)

	err := paged.execute(context.Background(), "SELECT * FROM users", nil, 100, func(rowMap) error {
		return nil
	})
	require.Error(t, err)

	assert.True(t, cometerrors.IsType(err, cometerrors.ErrorTypeQuery))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, provider.disconnects)
}

func TestPagedExecutorStopsWhenEmitFails(t *testing.T) {
	session := &fakeSession{
		pages: []fakePage{{rows: manyRows(10, "id", 0), next: []byte("p1")}},
	}
	paged, _, _ := newTestExecutors(t, session)

	abort := errors.New("consumer gone")
	err := paged.execute(context.Background(), "SELECT * FROM users", nil, 100, func(rowMap) error {
		return abort
	})
	require.Error(t, err)
	require.Len(t, session.calls, 1)
}

func TestSkipExecutorExhaustsRetriesAndTruncates(t *testing.T) {
	timeout := &gocql.RequestErrReadTimeout{}
	session := &fakeSession{
		pages: []fakePage{
			{err: timeout},
			{rows: []rowMap{{"id": 11}}}, // probe
			{err: timeout},
			{rows: []rowMap{{"id": 22}}}, // probe
			{err: timeout},
			{rows: []rowMap{{"id": 33}}}, // probe
		},
	}
	_, skip, provider := newTestExecutors(t, session)

	var emitted int
	q := newSelectQuery("users", nil)
	outcome, err := skip.executeWithSkip(context.Background(), q, "id", 100, func(rowMap) error {
		emitted++
		return nil
	})
	require.NoError(t, err, "retry exhaustion truncates instead of failing")

	assert.True(t, outcome.Truncated)
	assert.Equal(t, 3, outcome.Retries)
	assert.Equal(t, []interface{}{11, 22, 33}, outcome.SkippedKeys)
	assert.Equal(t, 0, emitted, "probe rows must not be emitted")
	assert.Equal(t, 0, provider.disconnects)

	require.Len(t, session.calls, 6)
	// Probes run at page size 1 against the current query.
	assert.Equal(t, 1, session.calls[1].pageSize)
	// Each retry resumes strictly after the last observed key.
	assert.Equal(t, "SELECT * FROM users WHERE token(id) > token(?)", session.calls[2].stmt)
	assert.Equal(t, []interface{}{11}, session.calls[2].args)
	assert.Equal(t, []interface{}{22}, session.calls[4].args)
}

func TestSkipExecutorResumesAfterLastRowOfCleanPage(t *testing.T) {
	timeout := &gocql.RequestErrReadTimeout{}
	session := &fakeSession{
		pages: []fakePage{
			{rows: manyRows(50, "id", 0), next: []byte("p1")},
			{err: timeout},
			{rows: nil, next: nil}, // rewritten query completes
		},
	}
	_, skip, _ := newTestExecutors(t, session)

	var emitted int
	q := newSelectQuery("users", []string{"id", "name"})
	outcome, err := skip.executeWithSkip(context.Background(), q, "id", 50, func(rowMap) error {
		emitted++
		return nil
	})
	require.NoError(t, err)

	assert.False(t, outcome.Truncated)
	assert.Equal(t, 1, outcome.Retries)
	assert.Equal(t, []interface{}{49}, outcome.SkippedKeys)
	assert.Equal(t, 50, emitted)

	require.Len(t, session.calls, 3)
	assert.Equal(t, "SELECT id, name FROM users WHERE token(id) > token(?)", session.calls[2].stmt)
	assert.Equal(t, []interface{}{49}, session.calls[2].args)
}

func TestSkipExecutorRetryCountResetsAfterCleanPage(t *testing.T) {
	// A clean page resets the retry count, so three more failures are
	// tolerated after it before truncation.
	timeout := &gocql.RequestErrReadTimeout{}
	session := &fakeSession{
		pages: []fakePage{
			{err: timeout},
			{rows: []rowMap{{"id": 1}}}, // probe
			{err: timeout},
			{rows: []rowMap{{"id": 2}}}, // probe
			{rows: manyRows(10, "id", 10), next: []byte("p1")},
			{err: timeout}, // fails after the clean page, no probe needed
			{err: timeout},
			{rows: []rowMap{{"id": 30}}}, // probe
			{err: timeout},
			{rows: []rowMap{{"id": 31}}}, // probe
		},
	}
	_, skip, _ := newTestExecutors(t, session)

	var emitted int
	q := newSelectQuery("users", nil)
	outcome, err := skip.executeWithSkip(context.Background(), q, "id", 10, func(rowMap) error {
		emitted++
		return nil
	})
	require.NoError(t, err)

	assert.True(t, outcome.Truncated)
	assert.Equal(t, 5, outcome.Retries, "total retries across resets")
	assert.Equal(t, 10, emitted)
	assert.Equal(t, []interface{}{1, 2, 19, 30, 31}, outcome.SkippedKeys)
}

func TestSkipExecutorFatalErrorBypassesRetry(t *testing.T) {
	boom := errors.New("unconfigured table")
	session := &fakeSession{pages: []fakePage{{err: boom}}}
	_, skip, provider := newTestExecutors(t, session)

	q := newSelectQuery("users", nil)
	outcome, err := skip.executeWithSkip(context.Background(), q, "id", 100, func(rowMap) error {
		return nil
	})
	require.Error(t, err)

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, provider.disconnects)
	assert.Len(t, session.calls, 1, "no retries for non-degraded errors")
}

func TestSkipExecutorHandlesReadFailure(t *testing.T) {
	failure := &gocql.RequestErrReadFailure{}
	session := &fakeSession{
		pages: []fakePage{
			{rows: manyRows(5, "id", 0), next: []byte("p1")},
			{err: failure},
			{rows: nil, next: nil},
		},
	}
	_, skip, _ := newTestExecutors(t, session)

	q := newSelectQuery("users", nil)
	outcome, err := skip.executeWithSkip(context.Background(), q, "id", 5, func(rowMap) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Retries)
	assert.False(t, outcome.Truncated)
}

func TestIsReadDegraded(t *testing.T) {
	assert.True(t, isReadDegraded(&gocql.RequestErrReadTimeout{}))
	assert.True(t, isReadDegraded(&gocql.RequestErrReadFailure{}))
	assert.False(t, isReadDegraded(errors.New("connection refused")))
	assert.False(t, isReadDegraded(nil))
}
