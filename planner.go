package fdw

import (
	"log"

	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// PlanState is attached to a BaseRel while it is being planned.
type PlanState struct {
	Rows  float64
	Width int
	// Options are the relation's validated options, nil if they failed to validate
	Options *options.Set
}

// ForeignPath is a candidate access path for a foreign scan.
type ForeignPath struct {
	Rows        float64
	StartupCost types.Cost
	TotalCost   types.Cost
	// Parameterization lists the columns which must be supplied by an outer
	// relation; empty for an unparameterized path
	Parameterization []string
}

func (p *ForeignPath) IsParameterized() bool {
	return len(p.Parameterization) > 0
}

// ScanPlan is the executable description of a foreign scan.
type ScanPlan struct {
	ScanRelID  uint
	Relation   *types.Relation
	TargetList []string
	// Quals are passed through unevaluated; the host rechecks every one of
	// them against each returned row
	Quals   []*proto.Qual
	Private *structpb.Struct
}

// GetForeignRelSize estimates the size of a scan of baserel and attaches a
// fresh PlanState to it. It never fails: with no estimate from the backend
// the configured rows estimate is used.
func (f *FDW) GetForeignRelSize(baserel *types.BaseRel) *PlanState {
	rel := baserel.Relation
	log.Printf("[TRACE] GetForeignRelSize %s", rel.QualifiedName())

	opts := tableOptions("GetForeignRelSize", rel)

	planSettings := f.settings.Snapshot()
	state := &PlanState{
		Rows:    planSettings.RowsEstimate,
		Options: opts,
	}
	if size := f.backend.EstimateSize(rel, opts); size.Rows > 0 {
		state.Rows = float64(size.Rows)
		state.Width = size.Width
	}

	baserel.Rows = state.Rows
	baserel.Width = state.Width
	baserel.FdwPrivate = state
	log.Printf("[TRACE] GetForeignRelSize %s: rows %v width %d", rel.QualifiedName(), state.Rows, state.Width)
	return state
}

func planStateFor(baserel *types.BaseRel) (*PlanState, error) {
	state, ok := baserel.FdwPrivate.(*PlanState)
	if !ok || state == nil {
		return nil, fdwerr.InvalidState("no plan state for relation %s - GetForeignRelSize has not been called", baserel.Relation.QualifiedName())
	}
	return state, nil
}

// GetForeignPaths returns the candidate paths for a scan of baserel.
// The first path is always unparameterized; if the backend declares key
// columns, a parameterized path is added for each path key.
func (f *FDW) GetForeignPaths(baserel *types.BaseRel) ([]*ForeignPath, error) {
	state, err := planStateFor(baserel)
	if err != nil {
		return nil, err
	}
	rel := baserel.Relation
	planSettings := f.settings.Snapshot()

	paths := []*ForeignPath{{
		Rows:        state.Rows,
		StartupCost: planSettings.StartupCost,
		TotalCost:   planSettings.StartupCost + types.Cost(state.Rows)*planSettings.TupleCost,
	}}

	if provider, ok := f.backend.(KeyColumnProvider); ok {
		pathKeys := types.KeyColumnsToPathKeys(provider.KeyColumns(rel), rel.ColumnNames())
		for _, pk := range pathKeys {
			paths = append(paths, &ForeignPath{
				Rows:             float64(pk.Rows),
				StartupCost:      planSettings.StartupCost,
				TotalCost:        planSettings.StartupCost + pk.Rows*planSettings.TupleCost,
				Parameterization: pk.ColumnNames,
			})
		}
	}

	log.Printf("[TRACE] GetForeignPaths %s: %d paths", rel.QualifiedName(), len(paths))
	return paths, nil
}

// GetForeignPlan builds the scan plan for the chosen path. No clause is
// evaluated remotely: the clauses are stripped of their RestrictInfo wrapping
// and handed back for the host to check.
func (f *FDW) GetForeignPlan(baserel *types.BaseRel, path *ForeignPath, targetList []string, scanClauses []types.RestrictInfo) (*ScanPlan, error) {
	if path == nil {
		return nil, fdwerr.InvalidState("no path chosen for relation %s", baserel.Relation.QualifiedName())
	}
	rel := baserel.Relation

	plan := &ScanPlan{
		ScanRelID:  baserel.RelID,
		Relation:   rel,
		TargetList: targetList,
		Quals:      types.ExtractActualClauses(scanClauses, false),
	}

	if planner, ok := f.backend.(PrivatePlanner); ok {
		var opts *options.Set
		if state, err := planStateFor(baserel); err == nil {
			opts = state.Options
		}
		private, err := structpb.NewStruct(planner.PlanPrivate(rel, opts))
		if err != nil {
			return nil, fdwerr.InvalidState("failed to encode plan payload for %s: %s", rel.QualifiedName(), err)
		}
		plan.Private = private
	}

	log.Printf("[TRACE] GetForeignPlan %s: columns %v, quals %s", rel.QualifiedName(), targetList, grpc.QualMapToString(qualMap(plan.Quals), false))
	return plan, nil
}

// qualMap groups quals by column
func qualMap(quals []*proto.Qual) map[string]*proto.Quals {
	res := make(map[string]*proto.Quals)
	for _, q := range quals {
		quals, ok := res[q.FieldName]
		if !ok {
			quals = &proto.Quals{}
			res[q.FieldName] = quals
		}
		quals.Quals = append(quals.Quals, q)
	}
	return res
}
