package payoff

import "github.com/Veraticus/loan-payoff/internal/model"

// Permutations enumerates every ordering of n indices. Each step performs a
// single swap against the previous ordering, driven by a countdown control
// array, so no ordering is rebuilt from scratch.
//
//	perms := NewPermutations(3)
//	for perms.Next() {
//		use(perms.Ordering())
//	}
type Permutations struct {
	current model.Ordering
	control []int
	n       int
	pos     int
	started bool
	done    bool
}

// NewPermutations returns a generator positioned before the identity ordering.
func NewPermutations(n int) *Permutations {
	p := &Permutations{
		n:       n,
		current: make(model.Ordering, n),
		control: make([]int, n+1),
		pos:     1,
	}
	for i := range p.current {
		p.current[i] = i
	}
	for i := range p.control {
		p.control[i] = i
	}
	if n == 0 {
		p.done = true
	}
	return p
}

// Next advances to the next ordering and reports whether there was one.
func (p *Permutations) Next() bool {
	if p.done {
		return false
	}
	if !p.started {
		p.started = true
		return true
	}
	if p.pos >= p.n {
		p.done = true
		return false
	}

	i := p.pos
	p.control[i]--
	j := 0
	if i%2 == 1 {
		j = p.control[i]
	}
	p.current[i], p.current[j] = p.current[j], p.current[i]

	p.pos = 1
	for p.pos < p.n && p.control[p.pos] == 0 {
		p.control[p.pos] = p.pos
		p.pos++
	}

	return true
}

// Ordering returns a copy of the current ordering.
func (p *Permutations) Ordering() model.Ordering {
	return p.current.Clone()
}

// Count returns n!, the number of orderings Permutations visits.
func Count(n int) int {
	total := 1
	for i := 2; i <= n; i++ {
		total *= i
	}
	return total
}
