package cassandra

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/comet/pkg/cometerrors"
	"github.com/ajitpratap0/comet/pkg/config"
	"github.com/ajitpratap0/comet/pkg/connector/core"
)

// columnDescriptor is one column row from the metadata catalog.
type columnDescriptor struct {
	name     string
	dbType   string
	kind     string
	position int
}

// discoverer builds catalog entries from the system_schema metadata tables.
// Metadata reads go through the plain paged executor; they are assumed
// reliable and never partition-skipped.
type discoverer struct {
	exec   *pagedExecutor
	cfg    *config.CassandraSourceConfig
	logger *zap.Logger
}

func newDiscoverer(exec *pagedExecutor, cfg *config.CassandraSourceConfig, logger *zap.Logger) *discoverer {
	return &discoverer{exec: exec, cfg: cfg, logger: logger}
}

// discoverEntry builds the catalog entry for a single table. Key properties
// are the partition keys in encounter order followed by the clustering keys
// ordered by clustering position.
func (d *discoverer) discoverEntry(ctx context.Context, tableName string) (*core.CatalogEntry, error) {
	columns, err := d.tableColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, cometerrors.Newf(cometerrors.ErrorTypeNotFound, "table %s.%s has no columns", d.cfg.Keyspace, tableName)
	}

	var fields []core.Field
	var partitionKeys []string
	var clusteringKeys []columnDescriptor

	for _, col := range columns {
		nullable := true
		switch col.kind {
		case kindPartitionKey:
			nullable = false
			partitionKeys = append(partitionKeys, col.name)
		case kindClustering:
			nullable = false
			clusteringKeys = append(clusteringKeys, col)
		}

		fields = append(fields, core.Field{
			Name:     col.name,
			Type:     mapCassandraType(col.dbType),
			Nullable: nullable,
			Primary:  !nullable,
		})
	}

	sort.SliceStable(clusteringKeys, func(i, j int) bool {
		return clusteringKeys[i].position < clusteringKeys[j].position
	})
	keyProperties := make([]string, 0, len(partitionKeys)+len(clusteringKeys))
	keyProperties = append(keyProperties, partitionKeys...)
	for _, col := range clusteringKeys {
		keyProperties = append(keyProperties, col.name)
	}

	streamID, err := qualifiedName(d.cfg.Keyspace, tableName, "-")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	schema := &core.Schema{
		Name:      streamID,
		Fields:    fields,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &core.CatalogEntry{
		TapStreamID:       streamID,
		Stream:            streamID,
		Table:             tableName,
		KeyProperties:     keyProperties,
		Schema:            schema,
		ReplicationMethod: core.ReplicationFullTable,
		Metadata:          standardMetadata(d.cfg.Keyspace, schema, keyProperties),
	}, nil
}

// discoverAll builds catalog entries for every table in the configured
// keyspace, in the order the metadata catalog returns them.
func (d *discoverer) discoverAll(ctx context.Context) (*core.Catalog, error) {
	d.logger.Info("discovering catalog", zap.String("keyspace", d.cfg.Keyspace))

	var tableNames []string
	err := d.exec.execute(ctx, tablesMetadataCQL, []interface{}{d.cfg.Keyspace}, d.cfg.FetchSize, func(row rowMap) error {
		name, ok := row["table_name"].(string)
		if !ok {
			return cometerrors.New(cometerrors.ErrorTypeData, "metadata row missing table_name")
		}
		tableNames = append(tableNames, name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	catalog := &core.Catalog{}
	for _, name := range tableNames {
		entry, err := d.discoverEntry(ctx, name)
		if err != nil {
			return nil, err
		}
		catalog.Streams = append(catalog.Streams, entry)
	}

	d.logger.Info("catalog discovered", zap.Int("streams", len(catalog.Streams)))
	return catalog, nil
}

// tableColumns fetches the column descriptors for one table in catalog
// order.
func (d *discoverer) tableColumns(ctx context.Context, tableName string) ([]columnDescriptor, error) {
	var columns []columnDescriptor
	err := d.exec.execute(ctx, columnsMetadataCQL, []interface{}{d.cfg.Keyspace, tableName}, d.cfg.FetchSize, func(row rowMap) error {
		name, _ := row["column_name"].(string)
		dbType, _ := row["type"].(string)
		kind, _ := row["kind"].(string)
		if name == "" || dbType == "" {
			return cometerrors.Newf(cometerrors.ErrorTypeData, "malformed column metadata for table %s", tableName)
		}
		position := 0
		if p, ok := row["position"].(int); ok {
			position = p
		}
		columns = append(columns, columnDescriptor{
			name:     name,
			dbType:   dbType,
			kind:     kind,
			position: position,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// qualifiedName joins schema and table name parts with the delimiter,
// skipping empty parts. It fails when no part is usable.
func qualifiedName(schemaName, tableName, delimiter string) (string, error) {
	var parts []string
	if schemaName != "" {
		parts = append(parts, schemaName)
	}
	if tableName != "" {
		parts = append(parts, tableName)
	}
	if len(parts) == 0 {
		return "", cometerrors.New(cometerrors.ErrorTypeValidation,
			fmt.Sprintf("could not generate fully qualified name: %s:%s",
				orUnknown(schemaName, "(unknown-schema)"),
				orUnknown(tableName, "(unknown-table-name)")))
	}
	return strings.Join(parts, delimiter), nil
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// standardMetadata assembles the per-stream metadata block: one root
// breadcrumb describing the stream and one breadcrumb per property marking
// key columns as automatic.
func standardMetadata(keyspace string, schema *core.Schema, keyProperties []string) []core.MetadataEntry {
	keys := make(map[string]bool, len(keyProperties))
	for _, k := range keyProperties {
		keys[k] = true
	}

	entries := []core.MetadataEntry{
		{
			Breadcrumb: []string{},
			Metadata: map[string]interface{}{
				"inclusion":                 string(core.InclusionAvailable),
				"schema-name":               keyspace,
				"table-key-properties":      keyProperties,
				"forced-replication-method": string(core.ReplicationFullTable),
				"valid-replication-keys":    nil,
			},
		},
	}

	for _, field := range schema.Fields {
		inclusion := core.InclusionAvailable
		if keys[field.Name] {
			inclusion = core.InclusionAutomatic
		}
		entries = append(entries, core.MetadataEntry{
			Breadcrumb: []string{"properties", field.Name},
			Metadata: map[string]interface{}{
				"inclusion": string(inclusion),
			},
		})
	}
	return entries
}
