package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
)

func qual(column, operator, value string) *proto.Qual {
	return &proto.Qual{
		FieldName: column,
		Operator:  &proto.Qual_StringValue{StringValue: operator},
		Value:     &proto.QualValue{Value: &proto.QualValue_StringValue{StringValue: value}},
	}
}

func TestExtractActualClauses(t *testing.T) {
	q1 := qual("c1", "=", "a")
	q2 := qual("c2", "<>", "b")
	gate := qual("c3", "=", "c")

	restrictions := []RestrictInfo{
		{Clause: q1},
		{Clause: gate, PseudoConstant: true},
		{Clause: q2},
		{Clause: nil},
	}

	assert.Equal(t, []*proto.Qual{q1, q2}, ExtractActualClauses(restrictions, false))
	assert.Equal(t, []*proto.Qual{gate}, ExtractActualClauses(restrictions, true))
	assert.Nil(t, ExtractActualClauses(nil, false))
}

func TestRelationHelpers(t *testing.T) {
	rel := &Relation{
		Name:      "t1",
		Namespace: "public",
		Attr: &TupleDesc{Attrs: []Attr{
			{Name: "c1"},
			{Name: "gone", Dropped: true},
			{Name: "c2"},
		}},
	}
	assert.Equal(t, "public.t1", rel.QualifiedName())
	assert.Equal(t, []string{"c1", "c2"}, rel.ColumnNames())
	assert.Equal(t, "INSERT", CmdInsert.String())
	assert.True(t, (ExecFlagExplainOnly | ExecFlagRewind).Has(ExecFlagExplainOnly))
	assert.False(t, ExecFlagRewind.Has(ExecFlagExplainOnly))
}
