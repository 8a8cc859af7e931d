package cassandra

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/connector/base"
	"github.com/ajitpratap0/comet/pkg/metrics"
)

// emitFunc receives each fetched row. Returning an error aborts the
// extraction.
type emitFunc func(rowMap) error

// pageDoneFunc is invoked after every fully consumed page with the row
// count and the last row of that page.
type pageDoneFunc func(rows int, last rowMap)

// pagedExecutor runs a statement through the session page by page. Rows are
// produced strictly on demand: the next page is fetched only after every row
// of the current page has been handed to the caller.
type pagedExecutor struct {
	provider  sessionProvider
	logger    *zap.Logger
	connector string
	pages     atomic.Int64
}

func newPagedExecutor(provider sessionProvider, logger *zap.Logger, connector string) *pagedExecutor {
	return &pagedExecutor{provider: provider, logger: logger, connector: connector}
}

// pagesFetched reports the number of pages this executor has consumed.
func (e *pagedExecutor) pagesFetched() int64 {
	return e.pages.Load()
}

// execute runs a query to exhaustion. Any fetch error forces a session
// teardown before the error is returned, so no half-broken session stays
// alive. Read degradation is fatal at this layer.
func (e *pagedExecutor) execute(ctx context.Context, stmt string, args []interface{}, fetchSize int, emit emitFunc) error {
	if err := e.fetchPages(ctx, stmt, args, fetchSize, emit, nil); err != nil {
		e.provider.Disconnect()
		return classifyFetchError(err)
	}
	return nil
}

// fetchPages drives the page protocol: fetch a page, hand every row to
// emit, report the page, and continue while a next-page cursor remains.
// Termination: empty cursor after a consumed page.
func (e *pagedExecutor) fetchPages(ctx context.Context, stmt string, args []interface{}, fetchSize int, emit emitFunc, pageDone pageDoneFunc) error {
	session, err := e.provider.Session(ctx)
	if err != nil {
		return err
	}

	var pageState []byte
	for {
		iter := session.Query(stmt, args...).
			WithContext(ctx).
			PageSize(fetchSize).
			PageState(pageState).
			Iter()

		rows := 0
		var last rowMap
		for {
			row := make(rowMap)
			if !iter.MapScan(row) {
				break
			}
			if err := emit(row); err != nil {
				_ = iter.Close()
				return err
			}
			rows++
			last = row
		}

		next := iter.PageState()
		if err := iter.Close(); err != nil {
			return err
		}

		e.logger.Info("page fetched", zap.Int("rows", rows))
		e.pages.Add(1)
		metrics.PagesFetched.WithLabelValues(e.connector).Inc()
		if pageDone != nil {
			pageDone(rows, last)
		}

		if len(next) == 0 {
			return nil
		}
		pageState = next
	}
}

// fetchOnePage fetches exactly one page of the statement and returns its
// rows without advancing past it.
func (e *pagedExecutor) fetchOnePage(ctx context.Context, stmt string, args []interface{}, fetchSize int) ([]rowMap, error) {
	session, err := e.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	iter := session.Query(stmt, args...).
		WithContext(ctx).
		PageSize(fetchSize).
		PageState(nil).
		Iter()

	var rows []rowMap
	for {
		row := make(rowMap)
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	e.logger.Info("page fetched", zap.Int("rows", len(rows)))
	return rows, nil
}

// SkipOutcome reports how a partition-skipping extraction ended. Truncated
// means the retry budget ran out and the remaining rows were not emitted.
type SkipOutcome struct {
	// Truncated is set when retries were exhausted before the table scan
	// completed.
	Truncated bool
	// SkippedKeys lists the key values the scan was resumed after, one
	// per rewrite.
	SkippedKeys []interface{}
	// Retries is the total number of degraded reads that were retried.
	Retries int
}

// skipExecutor wraps the paged executor with bounded retry and
// hot-partition skipping for degraded reads. Only read timeouts and read
// failures are retried; every other error tears the session down and
// surfaces immediately.
type skipExecutor struct {
	paged      *pagedExecutor
	provider   sessionProvider
	logger     *zap.Logger
	connector  string
	maxRetries int
	backoff    *base.RetryPolicy
}

const (
	skipMaxRetries = 3
	skipBackoff    = 30 * time.Second
)

func newSkipExecutor(paged *pagedExecutor, provider sessionProvider, logger *zap.Logger, connector string) *skipExecutor {
	return &skipExecutor{
		paged:      paged,
		provider:   provider,
		logger:     logger,
		connector:  connector,
		maxRetries: skipMaxRetries,
		backoff:    base.NewConstantRetryPolicy(skipMaxRetries, skipBackoff),
	}
}

// executeWithSkip runs the query to exhaustion, skipping past partitions
// that repeatedly degrade. On a caught read timeout or read failure the
// query is rewritten to resume strictly after the last observed key value
// and retried after a fixed backoff. The retry count resets whenever a page
// completes cleanly. Exhausting the budget truncates the extraction instead
// of failing; the outcome reports the truncation and every skipped key.
func (e *skipExecutor) executeWithSkip(ctx context.Context, q selectQuery, keyColumn string, fetchSize int, emit emitFunc) (*SkipOutcome, error) {
	outcome := &SkipOutcome{}

	retries := 0
	for retries < e.maxRetries {
		var last rowMap
		pagedThisAttempt := false

		err := e.paged.fetchPages(ctx, q.cql(), q.args(), fetchSize, emit, func(rows int, lastRow rowMap) {
			if rows > 0 {
				last = lastRow
				pagedThisAttempt = true
			}
			retries = 0
		})
		if err == nil {
			return outcome, nil
		}
		if !isReadDegraded(err) {
			e.provider.Disconnect()
			return nil, classifyFetchError(err)
		}

		retries++
		outcome.Retries++
		metrics.ReadRetries.WithLabelValues(e.connector).Inc()

		if !pagedThisAttempt {
			// No page survived this attempt, so probe a single row to
			// obtain a key value to resume after. Probe rows are not
			// emitted.
			probe, probeErr := e.paged.fetchOnePage(ctx, q.cql(), q.args(), 1)
			if probeErr != nil {
				e.provider.Disconnect()
				return nil, classifyFetchError(probeErr)
			}
			if len(probe) > 0 {
				last = probe[len(probe)-1]
			}
		}
		if last == nil {
			e.provider.Disconnect()
			return nil, cometerrors.New(cometerrors.ErrorTypeData, "no rows available to resume after degraded read").
				WithDetail("key_column", keyColumn)
		}

		lastKey, ok := last[keyColumn]
		if !ok {
			e.provider.Disconnect()
			return nil, cometerrors.Newf(cometerrors.ErrorTypeData, "key column %s missing from last row", keyColumn)
		}

		outcome.SkippedKeys = append(outcome.SkippedKeys, lastKey)
		q = q.withTokenAfter(keyColumn, lastKey)

		e.logger.Info("skipping past degraded partition",
			zap.String("key_column", keyColumn),
			zap.Any("after", lastKey),
			zap.Int("retry", retries),
			zap.Int("max_retries", e.maxRetries))

		if err := e.backoff.Wait(ctx, 0); err != nil {
			return nil, err
		}
	}

	outcome.Truncated = true
	metrics.PartitionSkips.WithLabelValues(e.connector).Inc()
	e.logger.Warn("retry budget exhausted, truncating extraction",
		zap.String("key_column", keyColumn),
		zap.Int("retries", outcome.Retries),
		zap.Int("skipped_keys", len(outcome.SkippedKeys)))

	return outcome, nil
}

// isReadDegraded reports whether an error is a coordinator read timeout or
// read failure, the only error kinds eligible for partition-skip retry.
func isReadDegraded(err error) bool {
	var readTimeout *gocql.RequestErrReadTimeout
	var readFailure *gocql.RequestErrReadFailure
	return errors.As(err, &readTimeout) || errors.As(err, &readFailure)
}

// classifyFetchError wraps a driver error with its error type.
func classifyFetchError(err error) error {
	var typed *cometerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	if isReadDegraded(err) {
		return cometerrors.Wrap(err, cometerrors.ErrorTypeTimeout, "read degraded during fetch")
	}
	return cometerrors.Wrap(err, cometerrors.ErrorTypeQuery, "query execution failed")
}
