// Package ranking selects medal positions from a scored collection using
// competition ("Olympic") ranking: tied entries share a position and the
// next distinct value skips the positions they consumed.
package ranking

import "sort"

// Direction says which end of the scale is better.
type Direction int

const (
	// Descending ranks higher values first.
	Descending Direction = iota
	// Ascending ranks lower values first.
	Ascending
)

// Podium is the number of medal positions kept by TopThree.
const Podium = 3

func (d Direction) better(a, b float64) bool {
	if d == Ascending {
		return a < b
	}
	return a > b
}

// Ranked pairs an item with its competition position.
type Ranked[T any] struct {
	Item  T
	Value float64
	Rank  int
}

// Rank sorts items best-first (stable on ties) and assigns each its
// competition position: 1 + the number of strictly better entries.
func Rank[T any](items []T, value func(T) float64, dir Direction) []Ranked[T] {
	out := make([]Ranked[T], len(items))
	for i, it := range items {
		out[i] = Ranked[T]{Item: it, Value: value(it)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dir.better(out[i].Value, out[j].Value)
	})
	for i := range out {
		if i > 0 && out[i].Value == out[i-1].Value {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// TopThree returns every entry whose competition position is within the
// podium. Two entries tied for 1st push the next value to 3rd; anything at
// 4th or below is dropped. Inputs of Podium entries or fewer come back whole.
func TopThree[T any](items []T, value func(T) float64, dir Direction) []Ranked[T] {
	ranked := Rank(items, value, dir)
	if len(ranked) <= Podium {
		return ranked
	}
	cut := len(ranked)
	for i, r := range ranked {
		if r.Rank > Podium {
			cut = i
			break
		}
	}
	return ranked[:cut]
}
