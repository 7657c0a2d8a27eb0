// Package sql renders the DDL used to import remote tables as foreign tables.
package sql

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	typehelpers "github.com/turbot/go-kit/types"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
)

// GetSQLForTable returns a CREATE FOREIGN TABLE statement for table.
// The OPTIONS clause lists the supplied options in catalog order and is
// omitted when opts is empty.
func GetSQLForTable(table string, tableSchema *proto.TableSchema, localSchema string, serverName string, opts *options.Set) (string, error) {
	var columnsString []string
	for i, c := range tableSchema.GetColumns() {
		column := pgx.Identifier{c.Name}.Sanitize()
		t, err := sqlTypeForColumnType(c.Type)
		if err != nil {
			return "", fmt.Errorf("column %s of table %s: %w", c.Name, table, err)
		}
		trailing := ","
		if i+1 == len(tableSchema.Columns) {
			trailing = ""
		}

		columnsString = append(columnsString, fmt.Sprintf("%s %s%s", column, t, trailing))
	}

	sql := fmt.Sprintf(`create foreign table %s
(
  %s
)
server %s%s`,
		pgx.Identifier{localSchema, table}.Sanitize(),
		strings.Join(columnsString, "\n  "),
		pgx.Identifier{serverName}.Sanitize(),
		optionsClause(opts))

	return sql, nil
}

func optionsClause(opts *options.Set) string {
	values := opts.AsMap()
	var clauses []string
	for _, d := range options.Catalog() {
		if d.Context != options.ContextTable {
			continue
		}
		value, ok := values[d.Name]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s %s", d.Name, quoteLiteral(typehelpers.ToString(value))))
	}
	if len(clauses) == 0 {
		return ""
	}
	return fmt.Sprintf(" OPTIONS (%s)", strings.Join(clauses, ", "))
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlTypeForColumnType(columnType proto.ColumnType) (string, error) {
	switch columnType {
	case proto.ColumnType_BOOL:
		return "bool", nil
	case proto.ColumnType_INT:
		return "bigint", nil
	case proto.ColumnType_DOUBLE:
		return "double precision", nil
	case proto.ColumnType_STRING:
		return "text", nil
	case proto.ColumnType_IPADDR, proto.ColumnType_INET:
		return "inet", nil
	case proto.ColumnType_CIDR:
		return "cidr", nil
	case proto.ColumnType_JSON:
		return "jsonb", nil
	case proto.ColumnType_DATETIME, proto.ColumnType_TIMESTAMP:
		return "timestamp", nil
	}
	return "", fmt.Errorf("unsupported column type %v", columnType)
}
