package cassandra

import (
	"context"
)

// fakePage scripts the outcome of one Iter invocation.
type fakePage struct {
	rows []rowMap
	next []byte
	err  error
}

// fakeCall records the statement and paging parameters of one query.
type fakeCall struct {
	stmt      string
	args      []interface{}
	pageSize  int
	pageState []byte
}

// fakeSession serves scripted pages in order, one per Iter invocation, and
// records every call made against it.
type fakeSession struct {
	pages []fakePage
	calls []fakeCall
}

func (s *fakeSession) Query(stmt string, values ...interface{}) cqlQuery {
	return &fakeQuery{sess: s, call: fakeCall{stmt: stmt, args: values}}
}

func (s *fakeSession) Close() {}

type fakeQuery struct {
	sess *fakeSession
	call fakeCall
}

func (q *fakeQuery) WithContext(context.Context) cqlQuery { return q }

func (q *fakeQuery) PageSize(n int) cqlQuery {
	q.call.pageSize = n
	return q
}

func (q *fakeQuery) PageState(state []byte) cqlQuery {
	q.call.pageState = state
	return q
}

func (q *fakeQuery) Iter() cqlIter {
	q.sess.calls = append(q.sess.calls, q.call)
	if len(q.sess.pages) == 0 {
		return &fakeIter{}
	}
	page := q.sess.pages[0]
	q.sess.pages = q.sess.pages[1:]
	return &fakeIter{page: page}
}

type fakeIter struct {
	page fakePage
	idx  int
}

func (it *fakeIter) MapScan(m map[string]interface{}) bool {
	if it.idx >= len(it.page.rows) {
		return false
	}
	for k, v := range it.page.rows[it.idx] {
		m[k] = v
	}
	it.idx++
	return true
}

func (it *fakeIter) PageState() []byte { return it.page.next }

func (it *fakeIter) Close() error { return it.page.err }

// fakeProvider hands out a fixed session and counts teardowns.
type fakeProvider struct {
	session     *fakeSession
	sessionErr  error
	disconnects int
}

func (p *fakeProvider) Session(context.Context) (cqlSession, error) {
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

func (p *fakeProvider) Disconnect() { p.disconnects++ }

func manyRows(n int, key string, start int) []rowMap {
	rows := make([]rowMap, n)
	for i := 0; i < n; i++ {
		rows[i] = rowMap{key: start + i}
	}
	return rows
}
