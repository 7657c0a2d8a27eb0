package fdw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/version"
)

func TestExplainForeignScan(t *testing.T) {
	cases := map[string]struct {
		quals       int
		localFilter string
	}{
		"no quals":  {0, "0 clauses"},
		"one qual":  {1, "1 clause"},
		"two quals": {2, "2 clauses"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := New(nil)
			plan := scanPlanFor(validRelation())
			for i := 0; i < tc.quals; i++ {
				plan.Quals = append(plan.Quals, idQual(int64(i)))
			}
			s, err := f.BeginForeignScan(context.Background(), plan, 0)
			require.NoError(t, err)

			var props PropertyList
			require.NoError(t, f.ExplainForeignScan(s, &props))
			assert.Equal(t, PropertyList{
				{Key: "Foreign Relation", Value: "public.t1"},
				{Key: "Remote Filter", Value: "none"},
				{Key: "Local Filter", Value: tc.localFilter},
				{Key: "Adapter Version", Value: version.VersionString},
			}, props)
			require.NoError(t, f.EndForeignScan(s))
		})
	}
}

func TestExplainIncludesCursorProperties(t *testing.T) {
	f := New(&testBackend{rows: testRows()})
	s, err := f.BeginForeignScan(context.Background(), scanPlanFor(validRelation()), 0)
	require.NoError(t, err)

	var props PropertyList
	require.NoError(t, f.ExplainForeignScan(s, &props))
	value, ok := props.Get("Rows Available")
	assert.True(t, ok)
	assert.Equal(t, "3", value)
	require.NoError(t, f.EndForeignScan(s))
}

func TestExplainEndedScan(t *testing.T) {
	f := New(nil)
	s, err := f.BeginForeignScan(context.Background(), scanPlanFor(validRelation()), 0)
	require.NoError(t, err)
	require.NoError(t, f.EndForeignScan(s))

	var props PropertyList
	assert.ErrorIs(t, f.ExplainForeignScan(s, &props), fdwerr.ErrInvalidState)
	assert.Empty(t, props)
}
