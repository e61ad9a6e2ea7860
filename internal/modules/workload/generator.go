// README: Synthetic demand workloads for experiments; uniform points in a square space.
package workload

import (
	"fmt"
	"math/rand"

	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/simulation"
	"ridepool/internal/types"
)

type Config struct {
	Demands int     `json:"demands"`
	Space   float64 `json:"space"`
	// Horizon is the span of request times; demand i is requested at
	// i/Demands*Horizon.
	Horizon float64 `json:"horizon"`
	Seed    int64   `json:"seed"`
}

func DefaultConfig() Config {
	return Config{Demands: 100, Space: 10000, Horizon: 200, Seed: 42}
}

func (c Config) Validate() error {
	if c.Demands <= 0 {
		return fmt.Errorf("%w: number of demands must be positive", types.ErrInvalidParameter)
	}
	if c.Space <= 0 {
		return fmt.Errorf("%w: space must be positive", types.ErrInvalidParameter)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("%w: horizon must not be negative", types.ErrInvalidParameter)
	}
	return nil
}

// Generate builds an input whose demands have ids 0..n-1, non-decreasing
// request times and origin/destination drawn uniformly from [0,Space]².
// The same config always yields the same demands.
func Generate(cfg Config, params matching.Params) (simulation.Input, error) {
	if err := cfg.Validate(); err != nil {
		return simulation.Input{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	point := func() types.Point {
		return types.Point{X: rng.Float64() * cfg.Space, Y: rng.Float64() * cfg.Space}
	}

	in := simulation.Input{Params: params, Demands: make([]simulation.DemandInput, cfg.Demands)}
	for i := range in.Demands {
		in.Demands[i] = simulation.DemandInput{
			ID:          i,
			RequestTime: float64(i) / float64(cfg.Demands) * cfg.Horizon,
			Origin:      point(),
			Destination: point(),
		}
	}
	return in, nil
}
