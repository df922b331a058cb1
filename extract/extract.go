// Package extract turns noisy listing text fragments into typed field
// values. Every extractor is a priority-ordered chain of pure heuristics:
// strategies are tried left to right and the first usable value wins.
// Extractors report a miss with ok=false, never an error; callers treat a
// miss as "leave existing", never as zero.
package extract

// A strategy produces a candidate value from raw text, or reports a miss.
type strategy[T any] func(text string) (T, bool)

// firstOf runs strategies in order and returns the first hit.
func firstOf[T any](text string, strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(text); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
