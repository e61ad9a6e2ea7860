// README: End-to-end run: validate, register demands, match, simulate, order results.
package simulation

import (
	"log"
	"sort"

	"ridepool/internal/modules/demand"
	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/scheduler"
)

// eventsPerDemand sizes the scheduler up front.
const eventsPerDemand = 10

// Simulate runs one complete simulation. Each call owns its registry and
// scheduler, so concurrent calls never share state.
func Simulate(in Input, opts Options) (Report, error) {
	if err := in.Validate(); err != nil {
		return Report{}, err
	}

	reg := demand.NewRegistry(len(in.Demands))
	for _, d := range in.Demands {
		reg.Add(demand.New(d.ID, d.RequestTime, d.Origin, d.Destination))
	}
	if opts.SortInput {
		reg.SortByRequestTime()
	}

	sched := scheduler.New(len(in.Demands) * eventsPerDemand)
	sched.Init()
	defer sched.Finalize()

	rides, err := matching.NewService(in.Params, sched).Match(reg)
	if err != nil {
		return Report{}, err
	}

	completions, err := NewService(sched).Run(reg)
	if err != nil {
		return Report{}, err
	}
	SortCompletions(completions)

	stats := collectStats(reg, completions)
	stats.EventsInserted = sched.Inserted()
	stats.EventsProcessed = sched.Processed()
	log.Printf("[SIM] demands=%d rides=%d pooled=%d events=%d", stats.Demands, len(rides), stats.PooledRides, stats.EventsProcessed)

	return Report{Completions: completions, Stats: stats}, nil
}

// SortCompletions orders completions by ascending time. Completions with the
// same time keep their relative order.
func SortCompletions(cs []Completion) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Time < cs[j].Time })
}

func collectStats(reg *demand.Registry, completions []Completion) Stats {
	st := Stats{Demands: reg.Len(), Rides: len(completions)}
	if len(completions) == 0 {
		return st
	}
	sumEff := 0.0
	for _, c := range completions {
		if c.Ride.Pooled() {
			st.PooledRides++
			st.PooledDemands += c.Ride.NumDemands()
		}
		sumEff += c.Ride.Efficiency()
		st.TotalDistance += c.Ride.Distance()
		if c.Time > st.Makespan {
			st.Makespan = c.Time
		}
	}
	st.MeanEfficiency = sumEff / float64(len(completions))
	return st
}
