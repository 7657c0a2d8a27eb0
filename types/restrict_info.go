package types

import "github.com/turbot/steampipe-plugin-sdk/v5/grpc/proto"

// RestrictInfo wraps a restriction clause the planner hands to the adapter.
type RestrictInfo struct {
	Clause *proto.Qual
	// PseudoConstant clauses do not reference the relation; the host
	// evaluates them once, as a gating qual, rather than per row
	PseudoConstant bool
}

// ExtractActualClauses strips the RestrictInfo wrappers, keeping only clauses
// whose PseudoConstant flag matches pseudoConstant.
func ExtractActualClauses(restrictions []RestrictInfo, pseudoConstant bool) []*proto.Qual {
	var res []*proto.Qual
	for _, r := range restrictions {
		if r.PseudoConstant != pseudoConstant || r.Clause == nil {
			continue
		}
		res = append(res, r.Clause)
	}
	return res
}
