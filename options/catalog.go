// Package options validates the generic options attached to the catalog
// objects that use this wrapper: the foreign data wrapper itself, its servers,
// user mappings and foreign tables.
package options

import (
	"fmt"
	"strings"
)

// Context is the kind of catalog object an option is attached to.
type Context int

const (
	ContextDataWrapper Context = iota + 1
	ContextServer
	ContextUserMapping
	ContextTable
)

func (c Context) String() string {
	switch c {
	case ContextDataWrapper:
		return "foreign data wrapper"
	case ContextServer:
		return "foreign server"
	case ContextUserMapping:
		return "user mapping"
	case ContextTable:
		return "foreign table"
	}
	return fmt.Sprintf("context %d", int(c))
}

// option names
const (
	OptionDb      = "db"
	OptionOption2 = "option2"
	OptionAllow   = "allow"
)

// Descriptor describes one valid option and the object kind it may appear on.
type Descriptor struct {
	Name    string
	Context Context
}

// catalog order is the order used when listing valid options in hints
var catalog = []Descriptor{
	{Name: OptionDb, Context: ContextTable},
	{Name: OptionOption2, Context: ContextTable},
	{Name: OptionAllow, Context: ContextTable},
}

// Catalog returns a copy of the option catalog, in catalog order.
func Catalog() []Descriptor {
	res := make([]Descriptor, len(catalog))
	copy(res, catalog)
	return res
}

// IsValid returns whether name is a valid option for the given context.
func IsValid(name string, context Context) bool {
	for _, d := range catalog {
		if d.Context == context && d.Name == name {
			return true
		}
	}
	return false
}

// ValidNames returns the names of all options valid in context, in catalog order.
func ValidNames(context Context) []string {
	var res []string
	for _, d := range catalog {
		if d.Context == context {
			res = append(res, d.Name)
		}
	}
	return res
}

func validOptionsHint(context Context) string {
	names := ValidNames(context)
	if len(names) == 0 {
		return "There are no valid options in this context."
	}
	return fmt.Sprintf("Valid options in this context are: %s", strings.Join(names, ", "))
}
