package fdw

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/instrument"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/types/known/structpb"
)

// ModifyPlan is the plan for a foreign modify. Only inserts are supported.
type ModifyPlan struct {
	Operation types.CmdType
	Relation  *types.Relation
	Private   *structpb.Struct
}

type ModifyStatus int

const (
	ModifyBegan ModifyStatus = iota + 1
	ModifyApplying
	ModifyEnded
)

func (s ModifyStatus) String() string {
	switch s {
	case ModifyBegan:
		return "began"
	case ModifyApplying:
		return "applying"
	case ModifyEnded:
		return "ended"
	}
	return "unknown"
}

// ModifySession is the state of one execution of a foreign insert.
type ModifySession struct {
	CallId string
	Plan   *ModifyPlan
	// Relation is the result relation rows are inserted into
	Relation *types.Relation
	Flags    types.ExecFlags

	opts         *options.Set
	writer       Writer
	status       ModifyStatus
	rowsInserted int64
	err          error

	ctx  context.Context
	span trace.Span
}

func (s *ModifySession) Status() ModifyStatus { return s.status }

func (s *ModifySession) RowsInserted() int64 { return s.rowsInserted }

// IsForeignRelUpdatable returns the bitmask of commands rel supports, with
// bit n set for CmdType n.
func (f *FDW) IsForeignRelUpdatable(rel *types.Relation) int {
	return 1 << types.CmdInsert
}

// PlanForeignModify plans a modify of rel. Only CmdInsert is supported; any
// other operation fails with an Unsupported error naming the operation.
func (f *FDW) PlanForeignModify(op types.CmdType, rel *types.Relation) (*ModifyPlan, error) {
	log.Printf("[TRACE] PlanForeignModify %s %s", op, rel.QualifiedName())
	if op != types.CmdInsert {
		return nil, fdwerr.Unsupported(op.String())
	}
	plan := &ModifyPlan{Operation: op, Relation: rel}

	if planner, ok := f.backend.(PrivatePlanner); ok {
		private, err := structpb.NewStruct(planner.PlanPrivate(rel, tableOptions("PlanForeignModify", rel)))
		if err != nil {
			return nil, fdwerr.InvalidState("failed to encode plan payload for %s: %s", rel.QualifiedName(), err)
		}
		plan.Private = private
	}
	return plan, nil
}

// BeginForeignModify starts an insert into resultRel.
func (f *FDW) BeginForeignModify(ctx context.Context, plan *ModifyPlan, resultRel *types.Relation, flags types.ExecFlags) (*ModifySession, error) {
	if plan == nil {
		return nil, fdwerr.InvalidState("BeginForeignModify called with no plan")
	}
	if plan.Operation != types.CmdInsert {
		return nil, fdwerr.Unsupported(plan.Operation.String())
	}
	if resultRel == nil {
		resultRel = plan.Relation
	}
	if resultRel == nil {
		return nil, fdwerr.InvalidState("BeginForeignModify called with no relation")
	}

	s := &ModifySession{
		CallId:   uuid.NewString(),
		Plan:     plan,
		Relation: resultRel,
		Flags:    flags,
	}
	s.ctx, s.span = instrument.StartSessionSpan(ctx, "ForeignModify", s.CallId, resultRel.QualifiedName())
	log.Printf("[TRACE] BeginForeignModify %s call id %s flags %d", resultRel.QualifiedName(), s.CallId, flags)

	opts := tableOptions("BeginForeignModify", resultRel)
	s.opts = opts

	if !flags.Has(types.ExecFlagExplainOnly) {
		writer, err := f.backend.OpenWriter(s.ctx, resultRel, opts)
		if err != nil {
			return nil, f.abortModify(s, asConnectionError(err))
		}
		s.writer = writer
	}
	s.status = ModifyBegan
	return s, nil
}

func (f *FDW) abortModify(s *ModifySession, err error) error {
	log.Printf("[WARN] BeginForeignModify %s failed: %s", s.Relation.QualifiedName(), err)
	s.err = err
	if endErr := f.EndForeignModify(s); endErr != nil {
		log.Printf("[WARN] cleanup after failed BeginForeignModify: %s", endErr)
	}
	return err
}

// ExecForeignInsert inserts row and returns the row as stored.
func (f *FDW) ExecForeignInsert(s *ModifySession, row types.Row) (types.Row, error) {
	if s == nil {
		return nil, fdwerr.InvalidState("ExecForeignInsert called with no modify session")
	}
	if s.status == ModifyEnded {
		return nil, fdwerr.InvalidState("ExecForeignInsert called on modify %s which has ended", s.CallId)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.writer == nil {
		return nil, fdwerr.InvalidState("modify %s was begun for EXPLAIN only", s.CallId)
	}

	s.status = ModifyApplying
	res, err := s.writer.Insert(row)
	if err != nil {
		s.err = asApplyError(err)
		log.Printf("[WARN] ExecForeignInsert %s: %s", s.Relation.QualifiedName(), s.err)
		return nil, s.err
	}
	s.rowsInserted++
	f.counters.RowInserted(s.ctx, s.Relation.QualifiedName())
	return res, nil
}

// EndForeignModify releases the session's write handle. Calling it again is a no-op.
func (f *FDW) EndForeignModify(s *ModifySession) error {
	if s == nil || s.status == ModifyEnded {
		return nil
	}
	log.Printf("[TRACE] EndForeignModify %s: %d rows inserted", s.Relation.QualifiedName(), s.rowsInserted)

	var closeErr error
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			closeErr = asApplyError(err)
			log.Printf("[WARN] EndForeignModify %s: failed to close writer: %s", s.Relation.QualifiedName(), err)
		}
		s.writer = nil
	}
	s.status = ModifyEnded

	s.span.SetAttributes(attribute.Int64("rows_inserted", s.rowsInserted))
	if err := firstError(s.err, closeErr); err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
	return closeErr
}
