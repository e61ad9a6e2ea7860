// README: Ride aggregate with its stops and segments.
package ride

import "ridepool/internal/types"

type StopKind int

const (
	Pickup StopKind = iota
	Dropoff
)

func (k StopKind) String() string {
	switch k {
	case Pickup:
		return "pickup"
	case Dropoff:
		return "dropoff"
	default:
		return "unknown"
	}
}

// Stop is immutable once created.
type Stop struct {
	Position types.Point
	Kind     StopKind
	DemandID int
}

type SegmentNature int

const (
	// Collection links two pickups.
	Collection SegmentNature = iota
	// Delivery links two dropoffs.
	Delivery
	// Transfer links a pickup and a dropoff.
	Transfer
)

func (n SegmentNature) String() string {
	switch n {
	case Collection:
		return "collection"
	case Delivery:
		return "delivery"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// NatureBetween classifies the segment joining stops of kinds a and b.
func NatureBetween(a, b StopKind) SegmentNature {
	switch {
	case a == Pickup && b == Pickup:
		return Collection
	case a == Dropoff && b == Dropoff:
		return Delivery
	default:
		return Transfer
	}
}

// Segment is the timed link between two stops of the same ride. From and To
// index into the owning ride's stops.
type Segment struct {
	From     int
	To       int
	Duration float64
	Distance float64
	Nature   SegmentNature
}

// Ride owns its stops and segments. Once built it is only mutated by the
// efficiency assignment.
type Ride struct {
	demandIDs  []int
	stops      []Stop
	segments   []Segment
	duration   float64
	distance   float64
	efficiency float64
	startTime  float64
}

// New returns an empty ride sized for capacityHint demands.
func New(capacityHint int) *Ride {
	if capacityHint < 1 {
		capacityHint = 1
	}
	return &Ride{
		demandIDs:  make([]int, 0, capacityHint),
		stops:      make([]Stop, 0, 2*capacityHint),
		segments:   make([]Segment, 0, 2*capacityHint),
		efficiency: 1.0,
	}
}

// AddDemand appends a demand id. Callers must not add the same id twice.
func (r *Ride) AddDemand(id int) {
	r.demandIDs = append(r.demandIDs, id)
}

func (r *Ride) AddStop(s Stop) {
	r.stops = append(r.stops, s)
}

func (r *Ride) AddSegment(s Segment) {
	r.segments = append(r.segments, s)
}

// Recompute sets the total duration and distance to the sums over segments.
func (r *Ride) Recompute() {
	r.duration = 0
	r.distance = 0
	for _, s := range r.segments {
		r.duration += s.Duration
		r.distance += s.Distance
	}
}

// ComputeEfficiency stores and returns the ratio between the members' solo
// trip distances and the ride distance. A ride that covers no distance has
// efficiency 1.
func (r *Ride) ComputeEfficiency(solo []float64) float64 {
	if r.distance == 0 {
		r.efficiency = 1.0
		return r.efficiency
	}
	sum := 0.0
	for i := 0; i < len(r.demandIDs) && i < len(solo); i++ {
		sum += solo[i]
	}
	r.efficiency = sum / r.distance
	return r.efficiency
}

// Contains reports whether the ride serves demand id.
func (r *Ride) Contains(id int) bool {
	for _, d := range r.demandIDs {
		if d == id {
			return true
		}
	}
	return false
}

func (r *Ride) DemandIDs() []int {
	out := make([]int, len(r.demandIDs))
	copy(out, r.demandIDs)
	return out
}

func (r *Ride) Stops() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

func (r *Ride) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

func (r *Ride) Stop(i int) Stop       { return r.stops[i] }
func (r *Ride) Segment(i int) Segment { return r.segments[i] }
func (r *Ride) NumDemands() int       { return len(r.demandIDs) }
func (r *Ride) NumStops() int         { return len(r.stops) }
func (r *Ride) NumSegments() int      { return len(r.segments) }
func (r *Ride) Duration() float64     { return r.duration }
func (r *Ride) Distance() float64     { return r.distance }
func (r *Ride) Efficiency() float64   { return r.efficiency }
func (r *Ride) StartTime() float64    { return r.startTime }
func (r *Ride) Pooled() bool          { return len(r.demandIDs) > 1 }

// SegmentEnds resolves the stops joined by segment i.
func (r *Ride) SegmentEnds(i int) (Stop, Stop) {
	s := r.segments[i]
	return r.stops[s.From], r.stops[s.To]
}

// OnboardDistance is the distance demand id spends in the vehicle, from its
// pickup stop to its dropoff stop. It is 0 when the ride does not serve id.
func (r *Ride) OnboardDistance(id int) float64 {
	pickup, dropoff := -1, -1
	for i, s := range r.stops {
		if s.DemandID != id {
			continue
		}
		if s.Kind == Pickup && pickup < 0 {
			pickup = i
		}
		if s.Kind == Dropoff {
			dropoff = i
		}
	}
	if pickup < 0 || dropoff <= pickup {
		return 0
	}
	d := 0.0
	for i := pickup; i < dropoff; i++ {
		d += r.segments[i].Distance
	}
	return d
}
