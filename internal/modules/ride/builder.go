// README: Two-phase route construction (all pickups, then all dropoffs).
package ride

import (
	"fmt"

	"ridepool/internal/types"
)

// Passenger is the part of a demand the route builder needs.
type Passenger struct {
	DemandID    int
	Origin      types.Point
	Destination types.Point
}

// SoloDistance is the straight-line distance of the passenger's own trip.
func (p Passenger) SoloDistance() float64 {
	return p.Origin.Distance(p.Destination)
}

// Build lays out one pickup per member in cluster order followed by one
// dropoff per member in the same order, links consecutive stops with
// segments travelled at speed, and totals the route. The route is a fixed
// ordering, not a shortest tour.
func Build(members []Passenger, speed, startTime float64) (*Ride, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: cannot build a ride without demands", types.ErrInvalidState)
	}

	r := New(len(members))
	r.startTime = startTime
	for _, m := range members {
		r.AddDemand(m.DemandID)
	}
	for _, m := range members {
		r.AddStop(Stop{Position: m.Origin, Kind: Pickup, DemandID: m.DemandID})
	}
	for _, m := range members {
		r.AddStop(Stop{Position: m.Destination, Kind: Dropoff, DemandID: m.DemandID})
	}

	for i := 0; i+1 < len(r.stops); i++ {
		from, to := r.stops[i], r.stops[i+1]
		dist := from.Position.Distance(to.Position)
		r.AddSegment(Segment{
			From:     i,
			To:       i + 1,
			Distance: dist,
			Duration: dist / speed,
			Nature:   NatureBetween(from.Kind, to.Kind),
		})
	}
	r.Recompute()
	return r, nil
}

// SoloDistances returns each member's straight-line trip distance, in order.
func SoloDistances(members []Passenger) []float64 {
	out := make([]float64, len(members))
	for i, m := range members {
		out[i] = m.SoloDistance()
	}
	return out
}
