// README: Simulation loop; replays ride progress in virtual time order.
package simulation

import (
	"ridepool/internal/modules/demand"
	"ridepool/internal/modules/ride"
	"ridepool/internal/modules/scheduler"
)

type Service struct {
	sched *scheduler.Scheduler
}

func NewService(sched *scheduler.Scheduler) *Service {
	return &Service{sched: sched}
}

// Run drains the scheduler. Each event either moves its ride to the next
// stop or, on the last stop, completes the ride and its demands. A ride
// never has more than one pending event. Completions are returned in
// extraction order.
func (s *Service) Run(reg *demand.Registry) ([]Completion, error) {
	members := make(map[*ride.Ride][]*demand.Demand)
	for _, d := range reg.All() {
		if r := d.Ride(); r != nil {
			members[r] = append(members[r], d)
		}
	}

	out := make([]Completion, 0, len(members))
	for {
		ev, ok := s.sched.ExtractMin()
		if !ok {
			break
		}
		r := ev.Ride
		k := ev.StopIndex
		if k >= r.NumStops()-1 {
			out = append(out, Completion{Time: ev.Time, Ride: r})
			for _, d := range members[r] {
				if err := d.Complete(ev.Time); err != nil {
					return nil, err
				}
			}
			continue
		}
		s.sched.Insert(scheduler.Event{
			Time:      ev.Time + r.Segment(k).Duration,
			StopIndex: k + 1,
			Ride:      r,
		})
	}
	return out, nil
}
