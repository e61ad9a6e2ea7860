// README: Demand registry; owns every demand of a run in input order.
package demand

import "sort"

type Registry struct {
	demands []*Demand
	byID    map[int]*Demand
}

func NewRegistry(capacity int) *Registry {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry{
		demands: make([]*Demand, 0, capacity),
		byID:    make(map[int]*Demand, capacity),
	}
}

// Add appends d in input order. When ids repeat, Get returns the first one.
func (r *Registry) Add(d *Demand) {
	r.demands = append(r.demands, d)
	if _, ok := r.byID[d.ID]; !ok {
		r.byID[d.ID] = d
	}
}

func (r *Registry) Len() int { return len(r.demands) }

// At returns the demand at input position i.
func (r *Registry) At(i int) *Demand { return r.demands[i] }

func (r *Registry) Get(id int) (*Demand, bool) {
	d, ok := r.byID[id]
	return d, ok
}

func (r *Registry) All() []*Demand {
	out := make([]*Demand, len(r.demands))
	copy(out, r.demands)
	return out
}

// Sorted reports whether request times are non-decreasing in input order.
func (r *Registry) Sorted() bool {
	for i := 1; i < len(r.demands); i++ {
		if r.demands[i].RequestTime < r.demands[i-1].RequestTime {
			return false
		}
	}
	return true
}

// SortByRequestTime stable-sorts demands by request time, keeping input
// order among equal times.
func (r *Registry) SortByRequestTime() {
	sort.SliceStable(r.demands, func(i, j int) bool {
		return r.demands[i].RequestTime < r.demands[j].RequestTime
	})
}

// CountByStatus tallies demands per status.
func (r *Registry) CountByStatus() map[Status]int {
	out := make(map[Status]int, len(AllowedTransitions)+1)
	for _, d := range r.demands {
		out[d.Status]++
	}
	return out
}
