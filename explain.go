package fdw

import (
	"github.com/turbot/pg-fdw/fdwerr"
	"github.com/turbot/pg-fdw/version"
)

// Explainable is an optional interface for a Cursor that can explain its execution plan.
type Explainable interface {
	// Explain is called during EXPLAIN query.
	Explain(e Explainer)
}

// Explainer builds an EXPLAIN response.
type Explainer interface {
	// Property adds a key-value property to results of EXPLAIN query.
	Property(k, v string)
}

// Property is a single EXPLAIN property.
type Property struct {
	Key   string
	Value string
}

// PropertyList is an Explainer which collects properties in order.
type PropertyList []Property

func (l *PropertyList) Property(k, v string) {
	*l = append(*l, Property{Key: k, Value: v})
}

// Get returns the value of the first property named k.
func (l PropertyList) Get(k string) (string, bool) {
	for _, p := range l {
		if p.Key == k {
			return p.Value, true
		}
	}
	return "", false
}

// ExplainForeignScan adds the scan's properties to an EXPLAIN.
// No clause is evaluated remotely, so every qual is reported as a local filter.
func (f *FDW) ExplainForeignScan(s *ScanSession, e Explainer) error {
	if err := s.checkLive("ExplainForeignScan"); err != nil {
		return err
	}
	if e == nil {
		return fdwerr.InvalidState("ExplainForeignScan called with no explainer")
	}
	e.Property("Foreign Relation", s.relationName())
	e.Property("Remote Filter", "none")
	e.Property("Local Filter", f.plural.Pluralize("clause", len(s.Plan.Quals), true))
	e.Property("Adapter Version", version.VersionString)

	if explainable, ok := s.cursor.(Explainable); ok {
		explainable.Explain(e)
	}
	return nil
}
