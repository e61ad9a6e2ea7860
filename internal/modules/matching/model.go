// README: Matching parameters (vehicle capacity, speed and pooling thresholds).
package matching

import (
	"fmt"
	"math"

	"ridepool/internal/types"
)

// Params controls how demands are clustered into rides.
type Params struct {
	// Capacity is the maximum number of demands per ride (eta).
	Capacity int `json:"eta"`
	// Speed converts segment distance into duration (gama).
	Speed float64 `json:"gama"`
	// Window is the request-time gap from the cluster anchor (delta).
	Window float64 `json:"delta"`
	// OriginRadius bounds the distance between any two origins (alfa).
	OriginRadius float64 `json:"alfa"`
	// DestinationRadius bounds the distance between any two destinations (beta).
	DestinationRadius float64 `json:"beta"`
	// MinEfficiency is the lowest efficiency a pooled ride may have (lambda).
	MinEfficiency float64 `json:"lambda"`
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"vehicle speed (gama)", p.Speed},
		{"time window (delta)", p.Window},
		{"origin distance threshold (alfa)", p.OriginRadius},
		{"destination distance threshold (beta)", p.DestinationRadius},
		{"minimum efficiency (lambda)", p.MinEfficiency},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", types.ErrInvalidParameter, f.name)
		}
	}
	switch {
	case p.Capacity <= 0:
		return fmt.Errorf("%w: vehicle capacity (eta) must be positive", types.ErrInvalidParameter)
	case p.Speed <= 0:
		return fmt.Errorf("%w: vehicle speed (gama) must be positive", types.ErrInvalidParameter)
	case p.Window < 0:
		return fmt.Errorf("%w: time window (delta) must not be negative", types.ErrInvalidParameter)
	case p.OriginRadius < 0:
		return fmt.Errorf("%w: origin distance threshold (alfa) must not be negative", types.ErrInvalidParameter)
	case p.DestinationRadius < 0:
		return fmt.Errorf("%w: destination distance threshold (beta) must not be negative", types.ErrInvalidParameter)
	case p.MinEfficiency < 0 || p.MinEfficiency > 1:
		return fmt.Errorf("%w: minimum efficiency (lambda) must be within [0,1]", types.ErrInvalidParameter)
	}
	return nil
}
