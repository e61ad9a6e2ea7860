// README: Demand entry and its forward-only status machine.
package demand

import (
	"fmt"

	"ridepool/internal/modules/ride"
	"ridepool/internal/types"
)

type Status string

const (
	StatusRequested  Status = "requested"
	StatusIndividual Status = "individual"
	StatusPooled     Status = "pooled"
	StatusCompleted  Status = "completed"
)

// AllowedTransitions represents the demand state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:  {StatusIndividual, StatusPooled},
	StatusIndividual: {StatusCompleted},
	StatusPooled:     {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Demand is a ride request. Its ride is a non-owning reference shared with
// every other member of the same cluster.
type Demand struct {
	ID          int
	RequestTime float64
	Origin      types.Point
	Destination types.Point
	Status      Status

	// Set when the serving ride reaches its last stop.
	CompletedAt      float64
	DistanceTraveled float64

	ride *ride.Ride
}

func New(id int, requestTime float64, origin, destination types.Point) *Demand {
	return &Demand{
		ID:          id,
		RequestTime: requestTime,
		Origin:      origin,
		Destination: destination,
		Status:      StatusRequested,
	}
}

func (d *Demand) Ride() *ride.Ride {
	return d.ride
}

// Passenger projects the demand onto what the route builder consumes.
func (d *Demand) Passenger() ride.Passenger {
	return ride.Passenger{DemandID: d.ID, Origin: d.Origin, Destination: d.Destination}
}

func (d *Demand) OriginDistance(other *Demand) float64 {
	return d.Origin.Distance(other.Origin)
}

func (d *Demand) DestinationDistance(other *Demand) float64 {
	return d.Destination.Distance(other.Destination)
}

func (d *Demand) transition(to Status) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: demand %d cannot move from %s to %s", types.ErrInvalidState, d.ID, d.Status, to)
	}
	d.Status = to
	return nil
}

// Assign associates the demand with the ride that serves it. A demand is
// assigned at most once.
func (d *Demand) Assign(r *ride.Ride, pooled bool) error {
	to := StatusIndividual
	if pooled {
		to = StatusPooled
	}
	if err := d.transition(to); err != nil {
		return err
	}
	d.ride = r
	return nil
}

// Complete records the completion time and on-board distance.
func (d *Demand) Complete(at float64) error {
	if err := d.transition(StatusCompleted); err != nil {
		return err
	}
	d.CompletedAt = at
	if d.ride != nil {
		d.DistanceTraveled = d.ride.OnboardDistance(d.ID)
	}
	return nil
}
