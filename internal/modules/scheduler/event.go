// README: Time-stamped events driving ride progression.
package scheduler

import "ridepool/internal/modules/ride"

// Event asks the simulation to advance Ride at StopIndex when virtual time
// reaches Time.
type Event struct {
	Time      float64
	StopIndex int
	Ride      *ride.Ride

	seq uint64
}

// before orders events by time, then by insertion sequence.
func (e Event) before(o Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.seq < o.seq
}

type eventQueue []Event

func (q eventQueue) Len() int           { return len(q) }
func (q eventQueue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = Event{}
	*q = old[:n-1]
	return ev
}
