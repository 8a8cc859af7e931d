package cassandra

import (
	"strings"

	"github.com/ajitpratap0/comet/pkg/connector/core"
)

// scalarTypes maps CQL scalar type names to schema field types.
var scalarTypes = map[string]core.FieldType{
	"ascii":     core.FieldTypeString,
	"bigint":    core.FieldTypeInt,
	"blob":      core.FieldTypeString,
	"boolean":   core.FieldTypeBool,
	"counter":   core.FieldTypeInt,
	"date":      core.FieldTypeDate,
	"decimal":   core.FieldTypeFloat,
	"double":    core.FieldTypeFloat,
	"duration":  core.FieldTypeString,
	"float":     core.FieldTypeFloat,
	"inet":      core.FieldTypeString,
	"int":       core.FieldTypeInt,
	"smallint":  core.FieldTypeInt,
	"text":      core.FieldTypeString,
	"time":      core.FieldTypeTime,
	"timestamp": core.FieldTypeTimestamp,
	"timeuuid":  core.FieldTypeUUID,
	"tinyint":   core.FieldTypeInt,
	"uuid":      core.FieldTypeUUID,
	"varchar":   core.FieldTypeString,
	"varint":    core.FieldTypeInt,
}

// Parameterized container types are flattened to strings rather than
// nested schemas.
var containerPrefixes = []string{"map<", "set<", "list<"}

// mapCassandraType maps a CQL type name reported by the metadata catalog to
// a schema field type. Exact scalar names win over container prefixes, and
// anything unrecognized becomes an untyped object.
func mapCassandraType(dbType string) core.FieldType {
	if t, ok := scalarTypes[dbType]; ok {
		return t
	}
	for _, prefix := range containerPrefixes {
		if strings.HasPrefix(dbType, prefix) {
			return core.FieldTypeString
		}
	}
	return core.FieldTypeObject
}
