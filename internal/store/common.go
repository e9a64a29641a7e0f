package store

// Prefix constants for all store types
const (
	prefixAccount byte = iota + 1
	prefixBalance
)

// prefixUpperBound returns the smallest key greater than every key starting
// with prefix, for use as an exclusive iterator upper bound.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// makeKey creates a key from a prefix and one or more id segments
func makeKey(prefix byte, ids ...[]byte) []byte {
	n := 1
	for _, id := range ids {
		n += len(id)
	}
	key := make([]byte, 0, n)
	key = append(key, prefix)
	for _, id := range ids {
		key = append(key, id...)
	}
	return key
}
