package cassandra

import (
	"fmt"
	"strings"
)

// Metadata catalog queries. Keyspace and table names are bound as
// parameters rather than interpolated into the statement text.
const (
	columnsMetadataCQL = `SELECT column_name, type, kind, position FROM system_schema.columns WHERE keyspace_name = ? AND table_name = ?`
	tablesMetadataCQL  = `SELECT table_name FROM system_schema.tables WHERE keyspace_name = ?`
)

// Column roles as reported by system_schema.columns.
const (
	kindPartitionKey = "partition_key"
	kindClustering   = "clustering"
)

// selectQuery is a structured representation of a table extraction query:
// a projection, a source table, and an optional token-range predicate.
// Rewriting replaces the predicate field directly instead of manipulating
// statement text.
type selectQuery struct {
	table   string
	columns []string
	token   *tokenPredicate
}

// tokenPredicate resumes a partition scan strictly after the row whose key
// column hashes to the given value.
type tokenPredicate struct {
	keyColumn string
	after     interface{}
}

func newSelectQuery(table string, columns []string) selectQuery {
	return selectQuery{table: table, columns: columns}
}

// withTokenAfter returns a copy of the query whose predicate skips past the
// given key value. Any prior predicate is replaced.
func (q selectQuery) withTokenAfter(keyColumn string, after interface{}) selectQuery {
	q.token = &tokenPredicate{keyColumn: keyColumn, after: after}
	return q
}

// cql renders the query to statement text.
func (q selectQuery) cql() string {
	projection := "*"
	if len(q.columns) > 0 {
		projection = strings.Join(q.columns, ", ")
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s", projection, q.table)
	if q.token != nil {
		stmt += fmt.Sprintf(" WHERE token(%s) > token(?)", q.token.keyColumn)
	}
	return stmt
}

// args returns the bound values for the rendered statement.
func (q selectQuery) args() []interface{} {
	if q.token == nil {
		return nil
	}
	return []interface{}{q.token.after}
}
