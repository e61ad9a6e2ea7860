// README: Completion line formatting.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ridepool/internal/modules/simulation"
)

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCompletion renders
// "completion_time total_distance efficiency stop_count x1 y1 ... xn yn"
// with every real printed to two decimals.
func FormatCompletion(c simulation.Completion) string {
	r := c.Ride
	var b strings.Builder
	b.WriteString(fixed2(c.Time))
	b.WriteByte(' ')
	b.WriteString(fixed2(r.Distance()))
	b.WriteByte(' ')
	b.WriteString(fixed2(r.Efficiency()))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.NumStops()))
	for _, s := range r.Stops() {
		b.WriteByte(' ')
		b.WriteString(fixed2(s.Position.X))
		b.WriteByte(' ')
		b.WriteString(fixed2(s.Position.Y))
	}
	return b.String()
}

// WriteCompletions writes one line per completion in the given order.
func WriteCompletions(w io.Writer, cs []simulation.Completion) error {
	bw := bufio.NewWriter(w)
	for _, c := range cs {
		if _, err := bw.WriteString(FormatCompletion(c)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render returns the full output text for cs.
func Render(cs []simulation.Completion) string {
	var b strings.Builder
	_ = WriteCompletions(&b, cs)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteInput writes in using the input text format, one parameter per line
// followed by one demand per line. Parse reads the output back unchanged.
func WriteInput(w io.Writer, in simulation.Input) error {
	bw := bufio.NewWriter(w)
	p := in.Params
	for _, v := range []string{
		strconv.Itoa(p.Capacity),
		num(p.Speed),
		num(p.Window),
		num(p.OriginRadius),
		num(p.DestinationRadius),
		num(p.MinEfficiency),
		strconv.Itoa(len(in.Demands)),
	} {
		bw.WriteString(v)
		bw.WriteByte('\n')
	}
	for _, d := range in.Demands {
		fmt.Fprintf(bw, "%d %s %s %s %s %s\n", d.ID, num(d.RequestTime),
			num(d.Origin.X), num(d.Origin.Y), num(d.Destination.X), num(d.Destination.Y))
	}
	return bw.Flush()
}
