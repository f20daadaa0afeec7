package analysis

import "sort"

// Ranked pairs a label with its indicators for comparison.
type Ranked struct {
	Name string
	// Index is the item's position in the caller's input.
	Index      int
	Indicators Indicators
}

// RankByNPV sorts descending by NPV; ties keep input order.
func RankByNPV(items []Ranked) []Ranked {
	out := make([]Ranked, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Indicators.NPV > out[j].Indicators.NPV
	})
	return out
}
