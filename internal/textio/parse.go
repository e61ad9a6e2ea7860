// README: Whitespace-token input reader for simulation parameters and demands.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"ridepool/internal/modules/simulation"
	"ridepool/internal/types"
)

type tokenReader struct {
	sc  *bufio.Scanner
	pos int
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next(field string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("read %s: %w", field, err)
		}
		return "", fmt.Errorf("%w: missing %s (token %d)", types.ErrInvalidParameter, field, t.pos+1)
	}
	t.pos++
	return t.sc.Text(), nil
}

func (t *tokenReader) int(field string) (int, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", types.ErrInvalidParameter, field, tok)
	}
	return n, nil
}

const maxDemandPrealloc = 1024

func (t *tokenReader) float(field string) (float64, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", types.ErrInvalidParameter, field, tok)
	}
	return f, nil
}

// Parse reads "eta gama delta alfa beta lambda n" followed by n lines of
// "id time ox oy dx dy". Parameters are validated before any demand is read.
// Tokens after the last demand are ignored.
func Parse(r io.Reader) (simulation.Input, error) {
	var in simulation.Input
	t := newTokenReader(r)

	var err error
	p := &in.Params
	if p.Capacity, err = t.int("eta"); err != nil {
		return in, err
	}
	floats := []struct {
		name string
		dst  *float64
	}{
		{"gama", &p.Speed},
		{"delta", &p.Window},
		{"alfa", &p.OriginRadius},
		{"beta", &p.DestinationRadius},
		{"lambda", &p.MinEfficiency},
	}
	for _, f := range floats {
		if *f.dst, err = t.float(f.name); err != nil {
			return in, err
		}
	}
	n, err := t.int("num_demandas")
	if err != nil {
		return in, err
	}
	if err := p.Validate(); err != nil {
		return in, err
	}
	if n <= 0 {
		return in, fmt.Errorf("%w: number of demands must be positive", types.ErrInvalidParameter)
	}

	// n is untrusted; grow from a bounded capacity so a huge count fails on
	// the first missing demand instead of on allocation.
	in.Demands = make([]simulation.DemandInput, 0, min(n, maxDemandPrealloc))
	for i := 0; i < n; i++ {
		d, err := readDemand(t, i)
		if err != nil {
			return in, err
		}
		in.Demands = append(in.Demands, d)
	}
	return in, nil
}

func readDemand(t *tokenReader, i int) (simulation.DemandInput, error) {
	var d simulation.DemandInput
	var err error
	label := func(f string) string { return fmt.Sprintf("demand %d %s", i+1, f) }

	if d.ID, err = t.int(label("id")); err != nil {
		return d, err
	}
	fields := []struct {
		name string
		dst  *float64
	}{
		{"request_time", &d.RequestTime},
		{"origin_x", &d.Origin.X},
		{"origin_y", &d.Origin.Y},
		{"dest_x", &d.Destination.X},
		{"dest_y", &d.Destination.Y},
	}
	for _, f := range fields {
		if *f.dst, err = t.float(label(f.name)); err != nil {
			return d, err
		}
	}
	return d, nil
}
