package options

import (
	"log"
	"strings"

	"github.com/turbot/pg-fdw/fdwerr"
)

// Supplied is a single option as given in an OPTIONS clause.
type Supplied struct {
	Name  string
	Value string
}

// Set is the result of a successful validation.
// Fields are nil when the option was not supplied.
type Set struct {
	Db      *string
	Option2 *string
	Allow   *bool
}

// DbName returns the db option, or an empty string if it was not supplied.
func (s *Set) DbName() string {
	if s == nil || s.Db == nil {
		return ""
	}
	return *s.Db
}

// AllowEnabled returns the allow option, defaulting to false.
func (s *Set) AllowEnabled() bool {
	if s == nil || s.Allow == nil {
		return false
	}
	return *s.Allow
}

// AsMap returns the supplied options keyed by name.
func (s *Set) AsMap() map[string]interface{} {
	res := make(map[string]interface{})
	if s == nil {
		return res
	}
	if s.Db != nil {
		res[OptionDb] = *s.Db
	}
	if s.Option2 != nil {
		res[OptionOption2] = *s.Option2
	}
	if s.Allow != nil {
		res[OptionAllow] = *s.Allow
	}
	return res
}

// Validate checks options against the catalog for the given context.
//
// Options are processed in order and the first problem found is returned.
// Required options are checked once the whole list has been processed, so
// the position of a required option in the list does not matter.
// No partially populated Set is ever returned.
func Validate(supplied []Supplied, context Context) (*Set, error) {
	log.Printf("[TRACE] options.Validate %d options for %s", len(supplied), context)

	res := &Set{}
	for _, opt := range supplied {
		if !IsValid(opt.Name, context) {
			log.Printf("[TRACE] invalid option '%s' for %s", opt.Name, context)
			return nil, fdwerr.UnknownOption(opt.Name, validOptionsHint(context))
		}

		switch opt.Name {
		case OptionDb:
			if res.Db != nil {
				return nil, fdwerr.ConflictingOption(opt.Name)
			}
			value := opt.Value
			res.Db = &value
		case OptionOption2:
			if res.Option2 != nil {
				return nil, fdwerr.ConflictingOption(opt.Name)
			}
			value := opt.Value
			res.Option2 = &value
		case OptionAllow:
			if res.Allow != nil {
				return nil, fdwerr.ConflictingOption(opt.Name)
			}
			allow, ok := ParseBool(opt.Value)
			if !ok {
				return nil, fdwerr.MalformedValue(opt.Name, opt.Value, "Boolean")
			}
			res.Allow = &allow
		}
	}

	if context == ContextTable && res.Db == nil {
		return nil, fdwerr.MissingRequiredOption(OptionDb, "foreign tables")
	}

	return res, nil
}

// ParseBool parses a boolean option value the way Postgres does for
// string-valued definition options: true, false, on or off in any case.
func ParseBool(value string) (bool, bool) {
	switch {
	case strings.EqualFold(value, "true"), strings.EqualFold(value, "on"):
		return true, true
	case strings.EqualFold(value, "false"), strings.EqualFold(value, "off"):
		return false, true
	}
	return false, false
}
