package fdw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/types"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
	"github.com/turbot/steampipe-plugin-sdk/v5/plugin"
)

func TestGetForeignRelSizeDefaultsToOneRow(t *testing.T) {
	f := New(nil)
	baserel := &types.BaseRel{RelID: 1, Relation: validRelation()}

	state := f.GetForeignRelSize(baserel)

	assert.Equal(t, float64(1), state.Rows)
	assert.Equal(t, float64(1), baserel.Rows)
	assert.Same(t, state, baserel.FdwPrivate)
	assert.Equal(t, "orders", state.Options.DbName())
}

func TestGetForeignRelSizeFreshStatePerCall(t *testing.T) {
	f := New(nil)
	baserel := &types.BaseRel{RelID: 1, Relation: validRelation()}

	first := f.GetForeignRelSize(baserel)
	second := f.GetForeignRelSize(baserel)
	assert.NotSame(t, first, second)
}

func TestGetForeignRelSizeUsesRowsEstimateSetting(t *testing.T) {
	f := New(nil)
	require.NoError(t, f.ApplySetting("rows_estimate", "1000"))

	state := f.GetForeignRelSize(&types.BaseRel{Relation: validRelation()})
	assert.Equal(t, float64(1000), state.Rows)
}

func TestGetForeignRelSizeUsesBackendEstimate(t *testing.T) {
	f := New(&testBackend{size: types.RelSize{Rows: 42, Width: 16}})
	baserel := &types.BaseRel{Relation: validRelation()}

	state := f.GetForeignRelSize(baserel)
	assert.Equal(t, float64(42), state.Rows)
	assert.Equal(t, 16, baserel.Width)
}

func TestGetForeignRelSizeInvalidOptions(t *testing.T) {
	f := New(nil)
	state := f.GetForeignRelSize(&types.BaseRel{Relation: testRelation()})

	assert.Equal(t, float64(1), state.Rows)
	assert.Nil(t, state.Options)
}

func TestGetForeignPathsRequiresPlanState(t *testing.T) {
	f := New(nil)
	_, err := f.GetForeignPaths(&types.BaseRel{Relation: validRelation()})
	assert.ErrorIs(t, err, fdwerr.ErrInvalidState)
}

func TestGetForeignPathsDefault(t *testing.T) {
	f := New(nil)
	baserel := &types.BaseRel{Relation: validRelation()}
	state := f.GetForeignRelSize(baserel)
	before := *state

	paths, err := f.GetForeignPaths(baserel)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	p := paths[0]
	assert.False(t, p.IsParameterized())
	assert.Equal(t, float64(1), p.Rows)
	assert.GreaterOrEqual(t, float64(p.StartupCost), float64(0))
	assert.GreaterOrEqual(t, float64(p.TotalCost), float64(p.StartupCost))
	assert.Equal(t, before, *state, "path generation must not modify the plan state")
}

func TestGetForeignPathsCosts(t *testing.T) {
	f := New(nil)
	require.NoError(t, f.ApplySetting("rows_estimate", "100"))
	require.NoError(t, f.ApplySetting("startup_cost", "10"))
	require.NoError(t, f.ApplySetting("tuple_cost", "0.5"))
	baserel := &types.BaseRel{Relation: validRelation()}
	f.GetForeignRelSize(baserel)

	paths, err := f.GetForeignPaths(baserel)
	require.NoError(t, err)
	assert.Equal(t, types.Cost(10), paths[0].StartupCost)
	assert.Equal(t, types.Cost(60), paths[0].TotalCost)
}

func TestGetForeignPathsWithKeyColumns(t *testing.T) {
	f := New(&keyedBackend{keyColumns: []*proto.KeyColumn{{Name: "id", Operators: []string{"="}, Require: plugin.Required}}})
	baserel := &types.BaseRel{Relation: validRelation()}
	f.GetForeignRelSize(baserel)

	paths, err := f.GetForeignPaths(baserel)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.False(t, paths[0].IsParameterized(), "first path must be unparameterized")
	assert.Equal(t, []string{"id"}, paths[1].Parameterization)
	assert.Equal(t, float64(2), paths[1].Rows)
	assert.Equal(t, []string{"name", "id"}, paths[2].Parameterization)
	assert.Equal(t, float64(1), paths[2].Rows)
}

func TestGetForeignPlanPassesClausesThrough(t *testing.T) {
	f := New(nil)
	baserel := &types.BaseRel{RelID: 3, Relation: validRelation()}
	f.GetForeignRelSize(baserel)
	paths, err := f.GetForeignPaths(baserel)
	require.NoError(t, err)

	q1, q2, gate := idQual(1), idQual(2), idQual(3)
	clauses := []types.RestrictInfo{
		{Clause: q1},
		{Clause: gate, PseudoConstant: true},
		{Clause: q2},
	}
	plan, err := f.GetForeignPlan(baserel, paths[0], []string{"id"}, clauses)
	require.NoError(t, err)

	assert.Equal(t, uint(3), plan.ScanRelID)
	assert.Same(t, baserel.Relation, plan.Relation)
	assert.Equal(t, []string{"id"}, plan.TargetList)
	assert.Equal(t, []*proto.Qual{q1, q2}, plan.Quals)
	assert.Nil(t, plan.Private)
}

func TestGetForeignPlanPrivatePayload(t *testing.T) {
	f := New(&keyedBackend{})
	baserel := &types.BaseRel{Relation: validRelation()}
	f.GetForeignRelSize(baserel)
	paths, err := f.GetForeignPaths(baserel)
	require.NoError(t, err)

	plan, err := f.GetForeignPlan(baserel, paths[0], nil, nil)
	require.NoError(t, err)
	require.NotNil(t, plan.Private)
	assert.Equal(t, "t1", plan.Private.Fields["table"].GetStringValue())
	assert.Equal(t, "orders", plan.Private.Fields["db"].GetStringValue())
}

func TestGetForeignPlanNoPath(t *testing.T) {
	f := New(nil)
	_, err := f.GetForeignPlan(&types.BaseRel{Relation: validRelation()}, nil, nil, nil)
	assert.ErrorIs(t, err, fdwerr.ErrInvalidState)
}
