package visualizer

import "sort"

// TopN orders labels by value and keeps the first n. Ties keep their
// input order. n <= 0 returns nothing; n beyond the input returns all.
func TopN(labels []string, values []float64, n int, descending bool) ([]string, []float64) {
	size := min(len(labels), len(values))
	if n <= 0 || size == 0 {
		return []string{}, []float64{}
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})

	n = min(n, size)
	outLabels := make([]string, n)
	outValues := make([]float64, n)
	for i := range n {
		outLabels[i] = labels[idx[i]]
		outValues[i] = values[idx[i]]
	}
	return outLabels, outValues
}
