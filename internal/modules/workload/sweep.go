// README: Parameter sweeps; each point varies one setting over a fixed workload.
package workload

import (
	"fmt"
	"sort"

	"ridepool/internal/modules/matching"
)

// Sweep varies one parameter while everything else stays at Base/Workload.
type Sweep struct {
	Name     string
	Values   []float64
	Base     matching.Params
	Workload Config
	Apply    func(p *matching.Params, w *Config, v float64)
}

type Point struct {
	Sweep    string
	Value    float64
	Params   matching.Params
	Workload Config
}

func (s Sweep) Points() []Point {
	out := make([]Point, 0, len(s.Values))
	for _, v := range s.Values {
		p, w := s.Base, s.Workload
		s.Apply(&p, &w, v)
		out = append(out, Point{Sweep: s.Name, Value: v, Params: p, Workload: w})
	}
	return out
}

// Linear returns n evenly spaced values from lo to hi inclusive.
func Linear(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)/float64(n-1)*(hi-lo)
	}
	return out
}

func baseParams() matching.Params {
	return matching.Params{
		Capacity:          3,
		Speed:             50,
		Window:            30,
		OriginRadius:      1000,
		DestinationRadius: 1500,
		MinEfficiency:     0.6,
	}
}

var sweeps = map[string]func(steps int) Sweep{
	"eta": func(int) Sweep {
		return Sweep{
			Name:     "eta",
			Values:   []float64{2, 3, 4, 5, 6, 7, 8, 9, 10},
			Base:     baseParams(),
			Workload: DefaultConfig(),
			Apply:    func(p *matching.Params, _ *Config, v float64) { p.Capacity = int(v) },
		}
	},
	"lambda": func(steps int) Sweep {
		base := baseParams()
		base.OriginRadius, base.DestinationRadius = 3000, 4500
		w := DefaultConfig()
		w.Space = 3000
		return Sweep{
			Name:     "lambda",
			Values:   Linear(0.1, 0.9, steps),
			Base:     base,
			Workload: w,
			Apply:    func(p *matching.Params, _ *Config, v float64) { p.MinEfficiency = v },
		}
	},
	"delta": func(steps int) Sweep {
		return Sweep{
			Name:     "delta",
			Values:   Linear(5, 100, steps),
			Base:     baseParams(),
			Workload: DefaultConfig(),
			Apply:    func(p *matching.Params, _ *Config, v float64) { p.Window = v },
		}
	},
	"alfa": func(steps int) Sweep {
		return Sweep{
			Name:     "alfa",
			Values:   Linear(100, 5000, steps),
			Base:     baseParams(),
			Workload: DefaultConfig(),
			Apply:    func(p *matching.Params, _ *Config, v float64) { p.OriginRadius = v },
		}
	},
	"beta": func(steps int) Sweep {
		return Sweep{
			Name:     "beta",
			Values:   Linear(100, 5000, steps),
			Base:     baseParams(),
			Workload: DefaultConfig(),
			Apply:    func(p *matching.Params, _ *Config, v float64) { p.DestinationRadius = v },
		}
	},
	"demands": func(steps int) Sweep {
		return Sweep{
			Name:     "demands",
			Values:   Linear(100, 5000, steps),
			Base:     baseParams(),
			Workload: DefaultConfig(),
			Apply:    func(_ *matching.Params, w *Config, v float64) { w.Demands = int(v) },
		}
	},
}

// SweepNames lists the known sweeps in a stable order.
func SweepNames() []string {
	names := make([]string, 0, len(sweeps))
	for n := range sweeps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupSweep builds the named sweep with steps points (ignored by sweeps
// over a fixed value list).
func LookupSweep(name string, steps int) (Sweep, error) {
	build, ok := sweeps[name]
	if !ok {
		return Sweep{}, fmt.Errorf("unknown sweep %q", name)
	}
	return build(steps), nil
}
