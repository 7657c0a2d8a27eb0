package types

import (
	"fmt"

	"github.com/turbot/pg-fdw/options"
)

// Cost is a approximate cost of an operation. See Postgres docs for details.
type Cost float64

// Oid is a Postgres internal object ID.
type Oid uint

// Row is a single tuple, keyed by column name.
type Row map[string]interface{}

// Relation describes a foreign table as the host catalog sees it.
type Relation struct {
	ID        Oid
	Name      string
	Namespace string
	IsValid   bool
	Attr      *TupleDesc
	// Options is the table's OPTIONS clause as stored in the catalog
	Options []options.Supplied
}

// QualifiedName returns schema.table, or just the table name if there is no schema.
func (r *Relation) QualifiedName() string {
	if r == nil {
		return ""
	}
	if r.Namespace == "" {
		return r.Name
	}
	return fmt.Sprintf("%s.%s", r.Namespace, r.Name)
}

// ColumnNames returns the names of all non-dropped columns.
func (r *Relation) ColumnNames() []string {
	if r == nil || r.Attr == nil {
		return nil
	}
	var res []string
	for _, a := range r.Attr.Attrs {
		if !a.Dropped {
			res = append(res, a.Name)
		}
	}
	return res
}

type TupleDesc struct {
	TypeID  Oid
	TypeMod int
	Attrs   []Attr // columns
}

type Attr struct {
	Name       string
	Type       Oid
	Dimensions int
	NotNull    bool
	Dropped    bool
}

// BaseRel is the planner's view of a foreign relation being scanned.
// FdwPrivate holds adapter state for the duration of planning only.
type BaseRel struct {
	// RelID is the range table index of the relation
	RelID    uint
	Relation *Relation
	Rows     float64
	Width    int

	FdwPrivate interface{}
}

type RelSize struct {
	Rows   int
	Width  int
	Tuples int
}

// CmdType is the kind of statement being planned against a foreign table.
type CmdType int

const (
	CmdSelect CmdType = iota + 1
	CmdUpdate
	CmdInsert
	CmdDelete
)

func (c CmdType) String() string {
	switch c {
	case CmdSelect:
		return "SELECT"
	case CmdUpdate:
		return "UPDATE"
	case CmdInsert:
		return "INSERT"
	case CmdDelete:
		return "DELETE"
	}
	return fmt.Sprintf("%d", int(c))
}

// ExecFlags are the executor flags passed when a scan or modify begins.
type ExecFlags int

const (
	ExecFlagExplainOnly ExecFlags = 1 << iota
	ExecFlagRewind
	ExecFlagBackward
	ExecFlagMark
)

func (f ExecFlags) Has(flag ExecFlags) bool {
	return f&flag != 0
}
