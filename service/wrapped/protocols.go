package wrapped

import (
	"sort"

	"github.com/brojonat/wrapped/service/solana"
)

// ProtocolCount is one entry of the ranked protocol tally.
type ProtocolCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AttributeProtocols counts known-program activity across txns. Every
// instruction invoking a known program counts once, and so does every
// account key naming one, so a single transaction may contribute several
// increments. The result is sorted by count descending; equal counts keep
// the order in which the protocols were first seen.
func AttributeProtocols(txns []*solana.Transaction) []ProtocolCount {
	counts := make(map[string]int)
	var order []string

	bump := func(id string) {
		p, ok := solana.LookupProgram(id)
		if !ok {
			return
		}
		if _, seen := counts[p.Name]; !seen {
			order = append(order, p.Name)
		}
		counts[p.Name]++
	}

	for _, txn := range txns {
		keys := txn.AccountKeys()
		for _, inst := range txn.Instructions() {
			if id, ok := solana.ResolveProgramID(inst, keys); ok {
				bump(id)
			}
		}
		for _, key := range keys {
			bump(key.String())
		}
	}

	ranked := make([]ProtocolCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ProtocolCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
