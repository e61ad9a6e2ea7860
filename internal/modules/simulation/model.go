// README: Simulation input, completion records and run report.
package simulation

import (
	"fmt"

	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/ride"
	"ridepool/internal/types"
)

// DemandInput is one request line of the input.
type DemandInput struct {
	ID          int         `json:"id"`
	RequestTime float64     `json:"request_time"`
	Origin      types.Point `json:"origin"`
	Destination types.Point `json:"destination"`
}

type Input struct {
	Params  matching.Params `json:"params"`
	Demands []DemandInput   `json:"demands"`
}

func (in Input) Validate() error {
	if err := in.Params.Validate(); err != nil {
		return err
	}
	if len(in.Demands) == 0 {
		return fmt.Errorf("%w: number of demands must be positive", types.ErrInvalidParameter)
	}
	return nil
}

type Options struct {
	// SortInput stable-sorts demands by request time before matching.
	SortInput bool
}

// Completion is a ride reaching its last stop.
type Completion struct {
	Time float64
	Ride *ride.Ride
}

type Stats struct {
	Demands         int     `json:"demands"`
	Rides           int     `json:"rides"`
	PooledRides     int     `json:"pooled_rides"`
	PooledDemands   int     `json:"pooled_demands"`
	MeanEfficiency  float64 `json:"mean_efficiency"`
	TotalDistance   float64 `json:"total_distance"`
	Makespan        float64 `json:"makespan"`
	EventsInserted  int     `json:"events_inserted"`
	EventsProcessed int     `json:"events_processed"`
}

// Report holds completions ordered by completion time.
type Report struct {
	Completions []Completion
	Stats       Stats
}
