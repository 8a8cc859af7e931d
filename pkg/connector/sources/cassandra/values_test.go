package cassandra

import (
	"net"
	"testing"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRowDriverTypes(t *testing.T) {
	id := gocql.UUID{0x1, 0x2}
	row := rowMap{
		"id":    id,
		"addr":  net.ParseIP("192.168.1.10"),
		"blob":  []byte("raw"),
		"count": int32(7),
		"name":  "ada",
	}

	data := normalizeRow(row)

	assert.Equal(t, uuid.UUID(id), data["id"])
	assert.Equal(t, "192.168.1.10", data["addr"])
	assert.Equal(t, "raw", data["blob"])
	assert.Equal(t, int64(7), data["count"])
	assert.Equal(t, "ada", data["name"])
}
