package cassandra

import (
	"context"

	"github.com/gocql/gocql"
)

// rowMap is a single result row keyed by column name.
type rowMap = map[string]interface{}

// The gocql session, query, and iterator are wrapped behind small
// interfaces so the executors can be driven by fakes in tests.

type cqlIter interface {
	MapScan(m map[string]interface{}) bool
	PageState() []byte
	Close() error
}

type cqlQuery interface {
	WithContext(ctx context.Context) cqlQuery
	PageSize(n int) cqlQuery
	PageState(state []byte) cqlQuery
	Iter() cqlIter
}

type cqlSession interface {
	Query(stmt string, values ...interface{}) cqlQuery
	Close()
}

// sessionProvider hands out a ready session and tears it down on demand.
type sessionProvider interface {
	Session(ctx context.Context) (cqlSession, error)
	Disconnect()
}

type gocqlSession struct {
	s *gocql.Session
}

func (g gocqlSession) Query(stmt string, values ...interface{}) cqlQuery {
	return gocqlQuery{q: g.s.Query(stmt, values...)}
}

func (g gocqlSession) Close() {
	g.s.Close()
}

type gocqlQuery struct {
	q *gocql.Query
}

func (g gocqlQuery) WithContext(ctx context.Context) cqlQuery {
	return gocqlQuery{q: g.q.WithContext(ctx)}
}

func (g gocqlQuery) PageSize(n int) cqlQuery {
	return gocqlQuery{q: g.q.PageSize(n)}
}

func (g gocqlQuery) PageState(state []byte) cqlQuery {
	return gocqlQuery{q: g.q.PageState(state)}
}

func (g gocqlQuery) Iter() cqlIter {
	return g.q.Iter()
}
