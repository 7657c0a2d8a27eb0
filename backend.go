package fdw

import (
	"context"
	"log"

	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
)

// Backend is the source-specific half of the adapter. The FDW drives the
// planning and session state machines and calls the Backend for size
// estimates, row cursors and row writers.
type Backend interface {
	// EstimateSize returns the expected size of a scan of rel.
	// A zero Rows value means no estimate; the planner settings are used instead.
	EstimateSize(rel *types.Relation, opts *options.Set) types.RelSize
	// OpenCursor opens a cursor for the given plan. Errors are reported to the
	// host as connection errors.
	OpenCursor(ctx context.Context, plan *ScanPlan, opts *options.Set) (Cursor, error)
	// OpenWriter opens a write handle for inserts into rel.
	OpenWriter(ctx context.Context, rel *types.Relation, opts *options.Set) (Writer, error)
}

// Cursor is an open scan against the source.
type Cursor interface {
	// Next returns the next row. A nil row means there are no more rows.
	Next() (types.Row, error)
	// Rewind repositions the cursor before the first row.
	Rewind() error
	Close() error
}

// Writer is an open write handle against the source.
type Writer interface {
	// Insert applies row and returns the row as stored, which may differ
	// from the input if the source fills in defaults.
	Insert(row types.Row) (types.Row, error)
	Close() error
}

// KeyColumnProvider is an optional Backend interface. Backends which can
// look rows up by key declare their key columns, and parameterized paths are
// offered for them.
type KeyColumnProvider interface {
	KeyColumns(rel *types.Relation) []*proto.KeyColumn
}

// PrivatePlanner is an optional Backend interface for attaching a
// source-specific payload to the scan plan.
type PrivatePlanner interface {
	PlanPrivate(rel *types.Relation, opts *options.Set) map[string]interface{}
}

// SchemaProvider is an optional Backend interface used by IMPORT FOREIGN SCHEMA.
type SchemaProvider interface {
	Schema(ctx context.Context, remoteSchema string) (map[string]*proto.TableSchema, error)
}

// NullBackend is a Backend with no data. It gives no size estimate, so the
// planner settings apply (one row by default). Its cursors are always
// exhausted and its writers echo each row back unchanged.
type NullBackend struct{}

func (NullBackend) EstimateSize(*types.Relation, *options.Set) types.RelSize {
	return types.RelSize{}
}

func (NullBackend) OpenCursor(_ context.Context, plan *ScanPlan, _ *options.Set) (Cursor, error) {
	log.Printf("[TRACE] NullBackend OpenCursor for %s", plan.Relation.QualifiedName())
	return &emptyCursor{}, nil
}

func (NullBackend) OpenWriter(_ context.Context, rel *types.Relation, _ *options.Set) (Writer, error) {
	log.Printf("[TRACE] NullBackend OpenWriter for %s", rel.QualifiedName())
	return echoWriter{}, nil
}

type emptyCursor struct{}

func (*emptyCursor) Next() (types.Row, error) { return nil, nil }
func (*emptyCursor) Rewind() error            { return nil }
func (*emptyCursor) Close() error             { return nil }

type echoWriter struct{}

func (echoWriter) Insert(row types.Row) (types.Row, error) { return row, nil }
func (echoWriter) Close() error                            { return nil }
