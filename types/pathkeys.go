package types

import (
	"log"
	"slices"
	"sort"
	"strings"

	"github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"
	"github.com/turbot/steampipe-plugin-sdk/v5/plugin"
)

const requiredKeyColumnBaseCost = 1
const optionalKeyColumnBaseCost = 100
const keyColumnOnlyCostMultiplier = 2

// PathKey is a set of columns on which a parameterized path can be offered,
// with the number of rows a lookup on those columns is expected to return.
type PathKey struct {
	ColumnNames []string
	Rows        Cost
}

func (p PathKey) Equals(other PathKey) bool {
	a := slices.Clone(p.ColumnNames)
	b := slices.Clone(other.ColumnNames)
	sort.Strings(a)
	sort.Strings(b)
	return strings.Join(a, ",") == strings.Join(b, ",") && p.Rows == other.Rows
}

// KeyColumnsToPathKeys converts the key columns a source declares for a
// relation into the path keys used to build parameterized paths.
func KeyColumnsToPathKeys(keyColumns []*proto.KeyColumn, allColumns []string) []PathKey {
	columnPaths, baseCost := keyColumnsToColumnPaths(keyColumns)
	otherColumns := columnsExcluding(allColumns, keyColumns)
	return columnPathsToPathKeys(columnPaths, otherColumns, baseCost)
}

func columnsExcluding(allColumns []string, keyColumns []*proto.KeyColumn) []string {
	var res []string
	for _, c := range allColumns {
		if !slices.ContainsFunc(keyColumns, func(k *proto.KeyColumn) bool { return k.Name == c }) {
			res = append(res, c)
		}
	}
	return res
}

// keyColumnsToColumnPaths returns the column sets to build path keys for
func keyColumnsToColumnPaths(keyColumns []*proto.KeyColumn) ([][]string, Cost) {
	if len(keyColumns) == 0 {
		return nil, 0
	}

	var requiredKeys, optionalKeys, anyOfKeys []string
	for _, c := range keyColumns {
		switch c.Require {
		case plugin.Required:
			requiredKeys = append(requiredKeys, c.Name)
		case plugin.Optional:
			optionalKeys = append(optionalKeys, c.Name)
		case plugin.AnyOf:
			anyOfKeys = append(anyOfKeys, c.Name)
		}
	}

	// each any-of key gets its own path, combined with all required keys
	var requiredPaths [][]string
	if len(anyOfKeys) > 0 {
		for _, a := range anyOfKeys {
			requiredPaths = append(requiredPaths, append([]string{a}, requiredKeys...))
		}
	} else if len(requiredKeys) > 0 {
		requiredPaths = append(requiredPaths, requiredKeys)
	}

	baseCost := Cost(optionalKeyColumnBaseCost)
	if len(requiredPaths) > 0 {
		baseCost = requiredKeyColumnBaseCost
	}

	columnPaths := requiredPaths
	for _, optional := range optionalKeys {
		if len(requiredPaths) == 0 {
			columnPaths = append(columnPaths, []string{optional})
			continue
		}
		for _, requiredPath := range requiredPaths {
			// copy so paths never share a backing array
			p := append(slices.Clone(requiredPath), optional)
			columnPaths = append(columnPaths, p)
		}
	}

	return columnPaths, baseCost
}

func columnPathsToPathKeys(columnPaths [][]string, otherColumns []string, baseCost Cost) []PathKey {
	var res []PathKey

	for _, s := range columnPaths {
		res = append(res, PathKey{
			ColumnNames: s,
			Rows:        baseCost * keyColumnOnlyCostMultiplier,
		})
		// the same path with each other column is cheaper still, so the planner
		// prefers to hand us every qual it has
		for _, c := range otherColumns {
			if slices.Contains(s, c) {
				continue
			}
			res = append(res, PathKey{
				ColumnNames: append([]string{c}, s...),
				Rows:        baseCost,
			})
		}
	}

	log.Printf("[TRACE] columnPathsToPathKeys %d column paths, %d other columns, %d pathkeys", len(columnPaths), len(otherColumns), len(res))
	return res
}
