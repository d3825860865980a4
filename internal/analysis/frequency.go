package analysis

import (
	"sort"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// ValueCount is one row of a frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts each distinct cell, most frequent first. Equal counts keep the
// order in which the values first appear.
func ValueCounts(col *dataset.Column) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for i := 0; i < col.Len(); i++ {
		text := col.Text(i)
		if j, ok := index[text]; ok {
			counts[j].Count++
			continue
		}
		index[text] = len(counts)
		counts = append(counts, ValueCount{Value: text, Count: 1})
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// Mode returns the most frequent cell. Ties go to the smallest value, compared
// numerically for numeric and boolean columns and lexically otherwise. ok is false
// for an empty column.
func Mode(col *dataset.Column) (string, bool) {
	counts := ValueCounts(col)
	if len(counts) == 0 {
		return "", false
	}

	best := counts[0]
	for _, vc := range counts[1:] {
		if vc.Count < best.Count {
			break
		}
		if less(col, vc.Value, best.Value) {
			best = vc
		}
	}
	return best.Value, true
}

func less(col *dataset.Column, a, b string) bool {
	if col.Kind == dataset.KindCategorical {
		return a < b
	}
	fa, fb := sortKey(a), sortKey(b)
	return fa < fb
}

// sortKey orders numeric and boolean cell texts
func sortKey(text string) float64 {
	switch text {
	case "false":
		return 0
	case "true":
		return 1
	}
	v, _ := parseNumber(text)
	return v
}
