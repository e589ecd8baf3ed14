package rewrite

import "strconv"

// IDRegistry records every element id assigned during one run.
type IDRegistry struct {
	used map[string]struct{}
	next map[string]int
}

func NewIDRegistry() *IDRegistry {
	return &IDRegistry{used: map[string]struct{}{}, next: map[string]int{}}
}

// Claim returns id if it is still free, otherwise id followed by the
// smallest positive integer that yields an unused value. The returned value
// is recorded as used.
func (r *IDRegistry) Claim(id string) string {
	if _, ok := r.used[id]; !ok {
		r.used[id] = struct{}{}
		return id
	}
	// Values only ever get added, so the search can resume where the
	// previous collision for this base stopped.
	n := r.next[id]
	if n < 1 {
		n = 1
	}
	for {
		candidate := id + strconv.Itoa(n)
		if _, ok := r.used[candidate]; !ok {
			r.used[candidate] = struct{}{}
			r.next[id] = n + 1
			return candidate
		}
		n++
	}
}

// Len returns the number of ids recorded.
func (r *IDRegistry) Len() int {
	return len(r.used)
}
