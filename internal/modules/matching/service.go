// README: Greedy ride matching; clusters demands and schedules each ride's first stop.
//
// Match scans demands in input order and assumes request times never
// decrease along that order. The time-window check stops scanning at the
// first candidate outside the window, so unsorted input silently loses
// pooling opportunities. Sort the registry first when the source order is
// not guaranteed.
package matching

import (
	"log"

	"ridepool/internal/modules/demand"
	"ridepool/internal/modules/ride"
	"ridepool/internal/modules/scheduler"
)

// EventSink receives the initial event of every ride.
type EventSink interface {
	Insert(ev scheduler.Event)
}

type Service struct {
	params Params
	sink   EventSink
}

func NewService(params Params, sink EventSink) *Service {
	return &Service{params: params, sink: sink}
}

func (s *Service) Params() Params {
	return s.params
}

// Match clusters every requested demand of reg into a ride, assigns the
// members, and schedules one event per ride at its anchor time on stop 0.
// Rides are returned in creation order. Demands must be sorted by request
// time.
func (s *Service) Match(reg *demand.Registry) ([]*ride.Ride, error) {
	if !reg.Sorted() {
		log.Printf("[MATCH] demands are not sorted by request time; time-window pruning may miss candidates")
	}

	rides := make([]*ride.Ride, 0, reg.Len())
	for i := 0; i < reg.Len(); i++ {
		anchor := reg.At(i)
		if anchor.Status != demand.StatusRequested {
			continue
		}

		cluster, err := s.cluster(reg, i)
		if err != nil {
			return nil, err
		}

		r, err := s.build(cluster, anchor.RequestTime)
		if err != nil {
			return nil, err
		}

		pooled := len(cluster) > 1
		for _, m := range cluster {
			if err := m.Assign(r, pooled); err != nil {
				return nil, err
			}
		}
		rides = append(rides, r)

		s.sink.Insert(scheduler.Event{Time: anchor.RequestTime, StopIndex: 0, Ride: r})
	}
	return rides, nil
}

// cluster grows a cluster anchored at position i. The anchor time never
// moves, so the window is measured from the first member only.
func (s *Service) cluster(reg *demand.Registry, i int) ([]*demand.Demand, error) {
	anchor := reg.At(i)
	cluster := make([]*demand.Demand, 1, max(s.params.Capacity, 1))
	cluster[0] = anchor

	for j := i + 1; j < reg.Len() && len(cluster) < s.params.Capacity; j++ {
		cand := reg.At(j)
		if cand.Status != demand.StatusRequested {
			continue
		}
		if cand.RequestTime-anchor.RequestTime >= s.params.Window {
			break
		}
		if !s.compatible(cluster, cand) {
			continue
		}

		cluster = append(cluster, cand)
		r, err := s.build(cluster, anchor.RequestTime)
		if err != nil {
			return nil, err
		}
		if r.Efficiency() < s.params.MinEfficiency {
			cluster = cluster[:len(cluster)-1]
			break
		}
	}
	return cluster, nil
}

// compatible requires cand to be within the origin and destination radius of
// every current member.
func (s *Service) compatible(cluster []*demand.Demand, cand *demand.Demand) bool {
	for _, m := range cluster {
		if m.OriginDistance(cand) > s.params.OriginRadius {
			return false
		}
	}
	for _, m := range cluster {
		if m.DestinationDistance(cand) > s.params.DestinationRadius {
			return false
		}
	}
	return true
}

// build lays out the cluster's route and scores it against solo trips.
func (s *Service) build(cluster []*demand.Demand, start float64) (*ride.Ride, error) {
	ps := passengers(cluster)
	r, err := ride.Build(ps, s.params.Speed, start)
	if err != nil {
		return nil, err
	}
	r.ComputeEfficiency(ride.SoloDistances(ps))
	return r, nil
}

func passengers(cluster []*demand.Demand) []ride.Passenger {
	out := make([]ride.Passenger, len(cluster))
	for i, d := range cluster {
		out[i] = d.Passenger()
	}
	return out
}
