package solver

import "container/heap"

// rankFunc computes a state's ascending priority vector. Ranks are
// compared lexicographically; the last component is always the creation
// tag, so no two states ever compare equal.
type rankFunc func(*SearchState) []int

type frontierItem struct {
	st   *SearchState
	rank []int
}

// frontier is a best-first priority queue over search states. It is
// owned by a single search invocation and never shared.
type frontier struct {
	items []*frontierItem
	rank  rankFunc
}

func newFrontier(rank rankFunc) *frontier {
	return &frontier{rank: rank}
}

func (f *frontier) push(st *SearchState) {
	heap.Push(f, &frontierItem{st: st, rank: f.rank(st)})
}

func (f *frontier) pop() *SearchState {
	return heap.Pop(f).(*frontierItem).st
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i].rank, f.items[j].rank
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

func (f *frontier) Swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
}

func (f *frontier) Push(x any) {
	f.items = append(f.items, x.(*frontierItem))
}

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	f.items = old[:n-1]
	return it
}
