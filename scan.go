package fdw

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/instrument"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/types"
	"github.com/turbot/steampipe-plugin-sdk/v5/grpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ScanStatus int

const (
	ScanCreated ScanStatus = iota
	ScanBegan
	ScanIterating
	ScanEnded
)

func (s ScanStatus) String() string {
	switch s {
	case ScanCreated:
		return "created"
	case ScanBegan:
		return "began"
	case ScanIterating:
		return "iterating"
	case ScanEnded:
		return "ended"
	}
	return "unknown"
}

// ScanSession is the state of one execution of a foreign scan.
// It is used by a single goroutine and is never reused once ended.
type ScanSession struct {
	CallId string
	Plan   *ScanPlan
	Flags  types.ExecFlags

	opts         *options.Set
	cursor       Cursor
	status       ScanStatus
	atEnd        bool
	rowsReturned int64
	rescans      int
	err          error

	ctx       context.Context
	span      trace.Span
	startTime time.Time
}

func (s *ScanSession) Status() ScanStatus { return s.status }

// Options returns the relation's validated options.
func (s *ScanSession) Options() *options.Set { return s.opts }

func (s *ScanSession) RowsReturned() int64 { return s.rowsReturned }

func (s *ScanSession) relationName() string {
	return s.Plan.Relation.QualifiedName()
}

// BeginForeignScan starts a scan of plan. If the scan cannot be started, any
// resources already acquired are released before the error is returned.
func (f *FDW) BeginForeignScan(ctx context.Context, plan *ScanPlan, flags types.ExecFlags) (*ScanSession, error) {
	if plan == nil || plan.Relation == nil {
		return nil, fdwerr.InvalidState("BeginForeignScan called with no plan")
	}

	s := &ScanSession{
		CallId:    uuid.NewString(),
		Plan:      plan,
		Flags:     flags,
		status:    ScanCreated,
		startTime: time.Now(),
	}
	s.ctx, s.span = instrument.StartSessionSpan(ctx, "ForeignScan", s.CallId, s.relationName())
	log.Printf("[TRACE] BeginForeignScan %s call id %s flags %d", s.relationName(), s.CallId, flags)

	opts := tableOptions("BeginForeignScan", plan.Relation)
	s.opts = opts

	if flags.Has(types.ExecFlagExplainOnly) {
		log.Printf("[TRACE] BeginForeignScan %s: explain only, not opening cursor", s.relationName())
		s.status = ScanBegan
		return s, nil
	}

	cursor, err := f.backend.OpenCursor(s.ctx, plan, opts)
	if err != nil {
		return nil, f.abortScan(s, asConnectionError(err))
	}
	s.cursor = cursor
	s.status = ScanBegan
	f.counters.ScanBegun(s.ctx, s.relationName())
	return s, nil
}

// abortScan cleans up a scan which failed to begin and returns err
func (f *FDW) abortScan(s *ScanSession, err error) error {
	log.Printf("[WARN] BeginForeignScan %s failed: %s", s.relationName(), err)
	s.err = err
	if endErr := f.EndForeignScan(s); endErr != nil {
		log.Printf("[WARN] cleanup after failed BeginForeignScan: %s", endErr)
	}
	return err
}

// IterateForeignScan returns the next row of the scan, or a nil row once the
// scan is exhausted. Once exhausted, further calls keep returning a nil row
// until the scan is restarted.
func (f *FDW) IterateForeignScan(s *ScanSession) (types.Row, error) {
	if err := s.checkLive("IterateForeignScan"); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.cursor == nil {
		return nil, fdwerr.InvalidState("scan %s was begun for EXPLAIN only", s.CallId)
	}

	s.status = ScanIterating
	if s.atEnd {
		return nil, nil
	}

	row, err := s.cursor.Next()
	if err != nil {
		s.err = asConnectionError(err)
		log.Printf("[WARN] IterateForeignScan %s: %s", s.relationName(), s.err)
		return nil, s.err
	}
	if row == nil {
		log.Printf("[TRACE] IterateForeignScan %s: end of data after %d rows", s.relationName(), s.rowsReturned)
		s.atEnd = true
		return nil, nil
	}
	s.rowsReturned++
	return row, nil
}

// ReScanForeignScan restarts the scan from the beginning. The cursor is
// rewound rather than reopened. Restarting a scan which has not yet been
// iterated does nothing. A scan which has failed stays failed: the error is
// returned again until the scan is ended.
func (f *FDW) ReScanForeignScan(s *ScanSession) error {
	if err := s.checkLive("ReScanForeignScan"); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	if s.status == ScanBegan {
		log.Printf("[TRACE] ReScanForeignScan %s: scan not started, nothing to do", s.relationName())
		return nil
	}

	log.Printf("[TRACE] ReScanForeignScan %s after %d rows", s.relationName(), s.rowsReturned)
	if s.cursor != nil {
		if err := s.cursor.Rewind(); err != nil {
			s.err = asConnectionError(err)
			return s.err
		}
	}
	s.atEnd = false
	s.rescans++
	s.status = ScanBegan
	return nil
}

// EndForeignScan releases the scan's resources. It may be called after a
// partial iteration or a failure, and calling it again is a no-op.
func (f *FDW) EndForeignScan(s *ScanSession) error {
	if s == nil || s.status == ScanEnded {
		return nil
	}
	log.Printf("[TRACE] EndForeignScan %s: %d rows, %d rescans", s.relationName(), s.rowsReturned, s.rescans)

	var closeErr error
	if s.cursor != nil {
		if err := s.cursor.Close(); err != nil {
			closeErr = asConnectionError(err)
			log.Printf("[WARN] EndForeignScan %s: failed to close cursor: %s", s.relationName(), err)
		}
		s.cursor = nil
		f.counters.RowsReturned(s.ctx, s.relationName(), s.rowsReturned)
	}
	s.status = ScanEnded

	if !s.Flags.Has(types.ExecFlagExplainOnly) {
		f.addScanMetadata(s.metadata())
	}

	s.span.SetAttributes(
		attribute.Int64("rows_returned", s.rowsReturned),
		attribute.Int("rescans", s.rescans),
	)
	if err := firstError(s.err, closeErr); err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
	return closeErr
}

func (s *ScanSession) checkLive(op string) error {
	if s == nil {
		return fdwerr.InvalidState("%s called with no scan session", op)
	}
	if s.status == ScanEnded {
		return fdwerr.InvalidState("%s called on scan %s which has ended", op, s.CallId)
	}
	return nil
}

func (s *ScanSession) metadata() ScanMetadata {
	m := ScanMetadata{
		CallId:       s.CallId,
		Table:        s.relationName(),
		RowsReturned: s.rowsReturned,
		Rescans:      s.rescans,
		StartTime:    s.startTime,
		Duration:     time.Since(s.startTime),
	}
	if len(s.Plan.Quals) > 0 {
		m.Quals = grpc.QualMapToString(qualMap(s.Plan.Quals), false)
	}
	if s.err != nil {
		m.Error = s.err.Error()
	}
	return m
}
