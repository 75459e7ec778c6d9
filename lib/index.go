package lib

// IndexByKey groups items by the key returned from keyFn. Items keep their
// input order within each group.
func IndexByKey[K comparable, V any](items []V, keyFn func(V) K) map[K][]V {
	index := make(map[K][]V, len(items))
	for _, item := range items {
		k := keyFn(item)
		index[k] = append(index[k], item)
	}
	return index
}
