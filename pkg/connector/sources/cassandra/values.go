package cassandra

import (
	"net"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/ajitpratap0/comet/pkg/models"
)

// normalizeRow converts driver-native values into the canonical record
// value kinds.
func normalizeRow(row rowMap) map[string]interface{} {
	data := make(map[string]interface{}, len(row))
	for name, value := range row {
		data[name] = normalizeValue(value)
	}
	return data
}

func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case gocql.UUID:
		return uuid.UUID(x)
	case net.IP:
		return x.String()
	case []byte:
		return string(x)
	default:
		return models.Normalize(v)
	}
}
