package crud

// CountBy counts items per foreign key in one pass. Empty keys are skipped.
// The result is rebuilt from scratch on every call.
func CountBy[A any](items []A, key func(A) string) map[string]int {
	counts := make(map[string]int)
	if key == nil {
		return counts
	}
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		counts[k]++
	}
	return counts
}

// IndexBy maps items by key; later duplicates win.
func IndexBy[A any](items []A, key func(A) string) map[string]A {
	index := make(map[string]A, len(items))
	if key == nil {
		return index
	}
	for _, item := range items {
		if k := key(item); k != "" {
			index[k] = item
		}
	}
	return index
}
