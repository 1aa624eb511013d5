package stats

// Group holds the records folded under one group key, in the order they were
// encountered.
type Group[T any] struct {
	Key     string
	Records []T
}

// GroupBy partitions records by keyFn. Groups are returned in first-seen key
// order and each group's records keep the input order, so downstream
// accumulation order is fully determined by the input sequence.
func GroupBy[T any](records []T, keyFn func(T) string) []Group[T] {
	index := make(map[string]int, len(records))
	var groups []Group[T]
	for _, r := range records {
		key := keyFn(r)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Collect maps each record in the group through fn, preserving order.
func Collect[T any](records []T, fn func(T) float64) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		out = append(out, fn(r))
	}
	return out
}
