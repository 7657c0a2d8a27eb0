package fdw

import (
	"context"
	"errors"

	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
)

var errBackend = errors.New("backend failure")

// testBackend serves a fixed set of rows and records how it was used
type testBackend struct {
	rows []types.Row
	size types.RelSize

	openErr   error
	nextErr   error
	insertErr error
	panicOpen bool

	cursorsOpened int
	cursorsClosed int
	writersOpened int
	writersClosed int
	inserted      []types.Row
}

func (b *testBackend) EstimateSize(*types.Relation, *options.Set) types.RelSize {
	return b.size
}

func (b *testBackend) OpenCursor(context.Context, *ScanPlan, *options.Set) (Cursor, error) {
	if b.panicOpen {
		panic("cursor exploded")
	}
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.cursorsOpened++
	return &testCursor{backend: b}, nil
}

func (b *testBackend) OpenWriter(context.Context, *types.Relation, *options.Set) (Writer, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.writersOpened++
	return &testWriter{backend: b}, nil
}

type testCursor struct {
	backend *testBackend
	pos     int
}

func (c *testCursor) Next() (types.Row, error) {
	if c.backend.nextErr != nil {
		return nil, c.backend.nextErr
	}
	if c.pos >= len(c.backend.rows) {
		return nil, nil
	}
	row := c.backend.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *testCursor) Rewind() error {
	c.pos = 0
	return nil
}

func (c *testCursor) Close() error {
	c.backend.cursorsClosed++
	return nil
}

func (c *testCursor) Explain(e Explainer) {
	e.Property("Rows Available", "3")
}

type testWriter struct {
	backend *testBackend
}

func (w *testWriter) Insert(row types.Row) (types.Row, error) {
	if w.backend.insertErr != nil {
		return nil, w.backend.insertErr
	}
	w.backend.inserted = append(w.backend.inserted, row)
	return row, nil
}

func (w *testWriter) Close() error {
	w.backend.writersClosed++
	return nil
}

// keyedBackend adds the optional planning interfaces
type keyedBackend struct {
	NullBackend
	keyColumns []*proto.KeyColumn
	schema     map[string]*proto.TableSchema
	schemaErr  error
}

func (b *keyedBackend) KeyColumns(*types.Relation) []*proto.KeyColumn {
	return b.keyColumns
}

func (b *keyedBackend) PlanPrivate(rel *types.Relation, opts *options.Set) map[string]interface{} {
	return map[string]interface{}{
		"table": rel.Name,
		"db":    opts.DbName(),
	}
}

func (b *keyedBackend) Schema(_ context.Context, remoteSchema string) (map[string]*proto.TableSchema, error) {
	if b.schemaErr != nil {
		return nil, b.schemaErr
	}
	return b.schema, nil
}

func testRelation(opts ...options.Supplied) *types.Relation {
	return &types.Relation{
		ID:        16384,
		Name:      "t1",
		Namespace: "public",
		IsValid:   true,
		Attr: &types.TupleDesc{
			Attrs: []types.Attr{
				{Name: "id"},
				{Name: "name"},
				{Name: "gone", Dropped: true},
			},
		},
		Options: opts,
	}
}

func validRelation() *types.Relation {
	return testRelation(options.Supplied{Name: "db", Value: "orders"})
}

func testRows() []types.Row {
	return []types.Row{
		{"id": int64(1), "name": "a"},
		{"id": int64(2), "name": "b"},
		{"id": int64(3), "name": "c"},
	}
}

func idQual(value int64) *proto.Qual {
	return &proto.Qual{
		FieldName: "id",
		Operator:  &proto.Qual_StringValue{StringValue: "="},
		Value:     &proto.QualValue{Value: &proto.QualValue_Int64Value{Int64Value: value}},
	}
}

func scanPlanFor(rel *types.Relation) *ScanPlan {
	return &ScanPlan{ScanRelID: 1, Relation: rel, TargetList: rel.ColumnNames()}
}
