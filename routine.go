package fdw

import (
	"context"
	"fmt"
	"log"

	"github.com/turbot/go-kit/helpers"
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
)

// Routine is the bundle of callbacks registered with the host. Sessions are
// referred to by Handle; a handle is released by the matching End call.
// A panic inside any callback is recovered and returned as an error.
type Routine struct {
	Validator func(supplied []options.Supplied, objectContext options.Context) error

	GetForeignRelSize func(baserel *types.BaseRel) error
	GetForeignPaths   func(baserel *types.BaseRel) ([]*ForeignPath, error)
	GetForeignPlan    func(baserel *types.BaseRel, path *ForeignPath, targetList []string, scanClauses []types.RestrictInfo) (*ScanPlan, error)

	BeginForeignScan   func(ctx context.Context, plan *ScanPlan, flags types.ExecFlags) (Handle, error)
	IterateForeignScan func(h Handle) (types.Row, error)
	ReScanForeignScan  func(h Handle) error
	EndForeignScan     func(h Handle) error
	ExplainForeignScan func(h Handle, e Explainer) error

	IsForeignRelUpdatable func(rel *types.Relation) int
	PlanForeignModify     func(op types.CmdType, rel *types.Relation) (*ModifyPlan, error)
	BeginForeignModify    func(ctx context.Context, plan *ModifyPlan, resultRel *types.Relation, flags types.ExecFlags) (Handle, error)
	ExecForeignInsert     func(h Handle, row types.Row) (types.Row, error)
	EndForeignModify      func(h Handle) error

	ImportForeignSchema func(ctx context.Context, stmt *ImportForeignSchemaStmt) ([]string, error)

	// LiveScans and LiveModifies return the handles of sessions not yet ended
	LiveScans    func() []Handle
	LiveModifies func() []Handle
}

// Handler returns the callbacks for f. Each call returns a Routine with its
// own session registries.
func (f *FDW) Handler() *Routine {
	scans := newSessionRegistry[*ScanSession]()
	modifies := newSessionRegistry[*ModifySession]()

	getScan := func(op string, h Handle) (*ScanSession, error) {
		s, ok := scans.get(h)
		if !ok {
			return nil, fdwerr.InvalidState("%s: no scan session for handle %d", op, h)
		}
		return s, nil
	}
	getModify := func(op string, h Handle) (*ModifySession, error) {
		s, ok := modifies.get(h)
		if !ok {
			return nil, fdwerr.InvalidState("%s: no modify session for handle %d", op, h)
		}
		return s, nil
	}

	return &Routine{
		Validator: func(supplied []options.Supplied, objectContext options.Context) (err error) {
			defer recoverPanic("Validator", &err)
			return f.Validator(supplied, objectContext)
		},
		GetForeignRelSize: func(baserel *types.BaseRel) (err error) {
			defer recoverPanic("GetForeignRelSize", &err)
			f.GetForeignRelSize(baserel)
			return nil
		},
		GetForeignPaths: func(baserel *types.BaseRel) (paths []*ForeignPath, err error) {
			defer recoverPanic("GetForeignPaths", &err)
			return f.GetForeignPaths(baserel)
		},
		GetForeignPlan: func(baserel *types.BaseRel, path *ForeignPath, targetList []string, scanClauses []types.RestrictInfo) (plan *ScanPlan, err error) {
			defer recoverPanic("GetForeignPlan", &err)
			return f.GetForeignPlan(baserel, path, targetList, scanClauses)
		},

		BeginForeignScan: func(ctx context.Context, plan *ScanPlan, flags types.ExecFlags) (h Handle, err error) {
			defer recoverPanic("BeginForeignScan", &err)
			s, err := f.BeginForeignScan(ctx, plan, flags)
			if err != nil {
				return 0, err
			}
			return scans.save(s), nil
		},
		IterateForeignScan: func(h Handle) (row types.Row, err error) {
			defer recoverPanic("IterateForeignScan", &err)
			s, err := getScan("IterateForeignScan", h)
			if err != nil {
				return nil, err
			}
			return f.IterateForeignScan(s)
		},
		ReScanForeignScan: func(h Handle) (err error) {
			defer recoverPanic("ReScanForeignScan", &err)
			s, err := getScan("ReScanForeignScan", h)
			if err != nil {
				return err
			}
			return f.ReScanForeignScan(s)
		},
		EndForeignScan: func(h Handle) (err error) {
			defer recoverPanic("EndForeignScan", &err)
			s, ok := scans.get(h)
			if !ok {
				// already ended
				return nil
			}
			// the handle is released even if the session fails to close cleanly
			defer scans.clear(h)
			return f.EndForeignScan(s)
		},
		ExplainForeignScan: func(h Handle, e Explainer) (err error) {
			defer recoverPanic("ExplainForeignScan", &err)
			s, err := getScan("ExplainForeignScan", h)
			if err != nil {
				return err
			}
			return f.ExplainForeignScan(s, e)
		},

		IsForeignRelUpdatable: f.IsForeignRelUpdatable,
		PlanForeignModify: func(op types.CmdType, rel *types.Relation) (plan *ModifyPlan, err error) {
			defer recoverPanic("PlanForeignModify", &err)
			return f.PlanForeignModify(op, rel)
		},
		BeginForeignModify: func(ctx context.Context, plan *ModifyPlan, resultRel *types.Relation, flags types.ExecFlags) (h Handle, err error) {
			defer recoverPanic("BeginForeignModify", &err)
			s, err := f.BeginForeignModify(ctx, plan, resultRel, flags)
			if err != nil {
				return 0, err
			}
			return modifies.save(s), nil
		},
		ExecForeignInsert: func(h Handle, row types.Row) (res types.Row, err error) {
			defer recoverPanic("ExecForeignInsert", &err)
			s, err := getModify("ExecForeignInsert", h)
			if err != nil {
				return nil, err
			}
			return f.ExecForeignInsert(s, row)
		},
		EndForeignModify: func(h Handle) (err error) {
			defer recoverPanic("EndForeignModify", &err)
			s, ok := modifies.get(h)
			if !ok {
				return nil
			}
			defer modifies.clear(h)
			return f.EndForeignModify(s)
		},

		ImportForeignSchema: func(ctx context.Context, stmt *ImportForeignSchemaStmt) (commands []string, err error) {
			defer recoverPanic("ImportForeignSchema", &err)
			return f.ImportForeignSchema(ctx, stmt)
		},

		LiveScans:    scans.handles,
		LiveModifies: modifies.handles,
	}
}

func recoverPanic(op string, err *error) {
	if r := recover(); r != nil {
		log.Printf("[WARN] %s recovered from panic: %v", op, r)
		*err = fmt.Errorf("%s: %w", op, helpers.ToError(r))
	}
}
