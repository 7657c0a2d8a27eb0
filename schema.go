package fdw

import (
	"context"
	"log"
	"slices"
	"sort"

	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/sql"
	"golang.org/x/exp/maps"
)

// ImportListType is the kind of table list given to IMPORT FOREIGN SCHEMA.
type ImportListType int

const (
	ImportAll ImportListType = iota
	ImportLimitTo
	ImportExcept
)

// ImportForeignSchemaStmt is an IMPORT FOREIGN SCHEMA statement.
type ImportForeignSchemaStmt struct {
	RemoteSchema string
	LocalSchema  string
	ServerName   string
	ListType     ImportListType
	TableList    []string
	// Options are the statement's OPTIONS clause; they are copied onto every
	// imported table
	Options []options.Supplied
}

// ImportForeignSchema returns a CREATE FOREIGN TABLE statement for each
// remote table selected by stmt, ordered by table name. Each table's db
// option defaults to the remote schema name. Backends which do not
// implement SchemaProvider have nothing to import.
func (f *FDW) ImportForeignSchema(ctx context.Context, stmt *ImportForeignSchemaStmt) ([]string, error) {
	provider, ok := f.backend.(SchemaProvider)
	if !ok {
		log.Printf("[TRACE] ImportForeignSchema: backend has no schema")
		return nil, nil
	}

	tableOpts, err := options.Validate(importTableOptions(stmt), options.ContextTable)
	if err != nil {
		return nil, err
	}

	schema, err := provider.Schema(ctx, stmt.RemoteSchema)
	if err != nil {
		return nil, asConnectionError(err)
	}
	log.Printf("[TRACE] ImportForeignSchema: %d remote tables, list type %d, tables %v", len(schema), stmt.ListType, stmt.TableList)

	tables := maps.Keys(schema)
	sort.Strings(tables)

	var commands []string
	for _, table := range tables {
		switch stmt.ListType {
		case ImportLimitTo:
			if !slices.Contains(stmt.TableList, table) {
				log.Printf("[TRACE] Skipping table %s", table)
				continue
			}
		case ImportExcept:
			if slices.Contains(stmt.TableList, table) {
				log.Printf("[TRACE] Skipping table %s", table)
				continue
			}
		}
		log.Printf("[TRACE] Import table %s", table)

		command, err := sql.GetSQLForTable(table, schema[table], stmt.LocalSchema, stmt.ServerName, tableOpts)
		if err != nil {
			return nil, err
		}
		log.Printf("[TRACE] SQL %s", command)
		commands = append(commands, command)
	}
	return commands, nil
}

func importTableOptions(stmt *ImportForeignSchemaStmt) []options.Supplied {
	hasDb := slices.ContainsFunc(stmt.Options, func(o options.Supplied) bool { return o.Name == options.OptionDb })
	if hasDb {
		return stmt.Options
	}
	return append([]options.Supplied{{Name: options.OptionDb, Value: stmt.RemoteSchema}}, stmt.Options...)
}
