// Package align computes minimum-cost alignments between two sequences.
package align

import "math"

// Op is the step an alignment takes for one pair.
type Op int

const (
	Match Op = iota
	Delete
	Insert
)

func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Delete:
		return "delete"
	default:
		return "insert"
	}
}

// Pair is one step of an alignment. I indexes the first sequence and is -1
// on Insert; J indexes the second and is -1 on Delete.
type Pair struct {
	Op Op
	I  int
	J  int
}

// Alignment is an edit script over two sequences and its total cost.
type Alignment struct {
	Pairs []Pair
	Cost  int
}

// Funcs supplies the costs for Align.
type Funcs[T any] struct {
	// Size is the cost of deleting or inserting an element.
	Size func(T) int
	// Cost is the cost of matching two elements. ok=false forbids the match.
	Cost func(a, b T) (cost int, ok bool)
	// Equal, when set, lets Align skip a common prefix and suffix. Equal
	// elements must match at cost zero.
	Equal func(a, b T) bool
}

// cell is one DP entry. matches counts the matches on the best path so that
// among equal-cost alignments the one pairing the most elements wins.
type cell struct {
	cost    int
	matches int
	op      Op
}

func (c cell) better(o cell) bool {
	if c.cost != o.cost {
		return c.cost < o.cost
	}
	return c.matches > o.matches
}

// Align runs the edit-distance dynamic program over a and b. Among
// alignments of equal cost the one with the most matches is chosen; any
// remaining tie prefers a match over a delete, and a delete over an insert.
func Align[T any](a, b []T, f Funcs[T]) Alignment {
	pre, suf := 0, 0
	if f.Equal != nil {
		for pre < len(a) && pre < len(b) && f.Equal(a[pre], b[pre]) {
			pre++
		}
		for suf < len(a)-pre && suf < len(b)-pre && f.Equal(a[len(a)-1-suf], b[len(b)-1-suf]) {
			suf++
		}
	}

	n, m := len(a)-pre-suf, len(b)-pre-suf
	sizeA := make([]int, n)
	for i := range sizeA {
		sizeA[i] = f.Size(a[pre+i])
	}
	sizeB := make([]int, m)
	for j := range sizeB {
		sizeB[j] = f.Size(b[pre+j])
	}

	width := m + 1
	table := make([]cell, (n+1)*width)
	for i := 1; i <= n; i++ {
		table[i*width] = cell{cost: table[(i-1)*width].cost + sizeA[i-1], op: Delete}
	}
	for j := 1; j <= m; j++ {
		table[j] = cell{cost: table[j-1].cost + sizeB[j-1], op: Insert}
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			best := cell{cost: math.MaxInt}
			if c, ok := f.Cost(a[pre+i-1], b[pre+j-1]); ok {
				diag := table[(i-1)*width+j-1]
				best = cell{cost: diag.cost + c, matches: diag.matches + 1, op: Match}
			}
			up := table[(i-1)*width+j]
			if del := (cell{cost: up.cost + sizeA[i-1], matches: up.matches, op: Delete}); del.better(best) {
				best = del
			}
			left := table[i*width+j-1]
			if ins := (cell{cost: left.cost + sizeB[j-1], matches: left.matches, op: Insert}); ins.better(best) {
				best = ins
			}
			table[i*width+j] = best
		}
	}

	pairs := make([]Pair, 0, pre+suf+max(n, m))
	for k := 0; k < pre; k++ {
		pairs = append(pairs, Pair{Op: Match, I: k, J: k})
	}

	var middle []Pair
	for i, j := n, m; i > 0 || j > 0; {
		switch table[i*width+j].op {
		case Match:
			middle = append(middle, Pair{Op: Match, I: pre + i - 1, J: pre + j - 1})
			i--
			j--
		case Delete:
			middle = append(middle, Pair{Op: Delete, I: pre + i - 1, J: -1})
			i--
		case Insert:
			middle = append(middle, Pair{Op: Insert, I: -1, J: pre + j - 1})
			j--
		}
	}
	for k := len(middle) - 1; k >= 0; k-- {
		pairs = append(pairs, middle[k])
	}

	for k := suf; k > 0; k-- {
		pairs = append(pairs, Pair{Op: Match, I: len(a) - k, J: len(b) - k})
	}

	return Alignment{Pairs: pairs, Cost: table[n*width+m].cost}
}

// Positional pairs elements by index. Surplus elements of the longer
// sequence become deletes or inserts.
func Positional(n, m int) []Pair {
	pairs := make([]Pair, 0, max(n, m))
	for k := 0; k < max(n, m); k++ {
		switch {
		case k < n && k < m:
			pairs = append(pairs, Pair{Op: Match, I: k, J: k})
		case k < n:
			pairs = append(pairs, Pair{Op: Delete, I: k, J: -1})
		default:
			pairs = append(pairs, Pair{Op: Insert, I: -1, J: k})
		}
	}
	return pairs
}

// Keyed pairs elements with equal keys, in order of occurrence when a key
// repeats. Unpaired elements of a follow as deletes in their position;
// unpaired elements of b are appended as inserts.
func Keyed[T any, K comparable](a, b []T, key func(T) K) []Pair {
	queues := make(map[K][]int, len(b))
	for j, x := range b {
		k := key(x)
		queues[k] = append(queues[k], j)
	}

	used := make([]bool, len(b))
	pairs := make([]Pair, 0, len(a)+len(b))
	for i, x := range a {
		k := key(x)
		if q := queues[k]; len(q) > 0 {
			pairs = append(pairs, Pair{Op: Match, I: i, J: q[0]})
			used[q[0]] = true
			queues[k] = q[1:]
			continue
		}
		pairs = append(pairs, Pair{Op: Delete, I: i, J: -1})
	}
	for j := range b {
		if !used[j] {
			pairs = append(pairs, Pair{Op: Insert, I: -1, J: j})
		}
	}
	return pairs
}
