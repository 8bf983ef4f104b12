package analytics

import "sort"

// groups accumulates values per key and remembers the order in which keys
// were first seen. Finalized output starts in that order, so stable sorts
// break ties by first appearance.
type groups[K comparable, A any] struct {
	order []K
	index map[K]*A
	init  func(K) *A
}

func newGroups[K comparable, A any](init func(K) *A) *groups[K, A] {
	return &groups[K, A]{
		index: make(map[K]*A),
		init:  init,
	}
}

// get returns the accumulator for key, creating it on first use.
func (g *groups[K, A]) get(key K) *A {
	if acc, ok := g.index[key]; ok {
		return acc
	}
	acc := g.init(key)
	g.index[key] = acc
	g.order = append(g.order, key)
	return acc
}

func (g *groups[K, A]) size() int {
	return len(g.order)
}

// sortBy reorders the keys by their accumulators. The sort is stable, so
// equal accumulators keep first-seen order.
func (g *groups[K, A]) sortBy(less func(a, b *A) bool) {
	sort.SliceStable(g.order, func(i, j int) bool {
		return less(g.index[g.order[i]], g.index[g.order[j]])
	})
}

// finalize converts every accumulator into its output form, in first-seen order.
func finalize[K comparable, A any, R any](g *groups[K, A], fn func(*A) R) []R {
	out := make([]R, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, fn(g.index[key]))
	}
	return out
}
