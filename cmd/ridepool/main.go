// README: Command-line simulator; reads parameters and demands, prints ride completions in time order.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"ridepool/internal/config"
	"ridepool/internal/modules/simulation"
	"ridepool/internal/textio"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	In      string
	Out     string
	Sort    bool
	Stats   bool
	Verbose bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("ridepool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.In, "in", "", "Input file (default stdin)")
	fs.StringVar(&opts.Out, "out", "", "Output file (default stdout)")
	fs.BoolVar(&opts.Sort, "sort", config.EnvOrDefaultBool("RIDEPOOL_SORT_INPUT", false), "Sort demands by request time before matching")
	fs.BoolVar(&opts.Stats, "stats", false, "Print run statistics to stderr")
	fs.BoolVar(&opts.Verbose, "v", config.EnvOrDefaultBool("RIDEPOOL_LOG", false), "Enable logs on stderr")
	err := fs.Parse(args)
	return opts, err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	log.SetOutput(io.Discard)
	if opts.Verbose {
		log.SetOutput(stderr)
	}

	if err := simulate(opts, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "simulation error: %v\n", err)
		return 1
	}
	return 0
}

func simulate(opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	in := stdin
	if opts.In != "" {
		f, err := os.Open(opts.In)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	input, err := textio.Parse(in)
	if err != nil {
		return err
	}
	rep, err := simulation.Simulate(input, simulation.Options{SortInput: opts.Sort})
	if err != nil {
		return err
	}

	if opts.Out == "" {
		if err := textio.WriteCompletions(stdout, rep.Completions); err != nil {
			return err
		}
	} else {
		f, err := os.Create(opts.Out)
		if err != nil {
			return err
		}
		if err := textio.WriteCompletions(f, rep.Completions); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if opts.Stats {
		printStats(stderr, rep.Stats)
	}
	return nil
}

func printStats(w io.Writer, st simulation.Stats) {
	fmt.Fprintf(w, "demands=%d rides=%d pooled_rides=%d pooled_demands=%d\n", st.Demands, st.Rides, st.PooledRides, st.PooledDemands)
	fmt.Fprintf(w, "mean_efficiency=%.2f total_distance=%.2f makespan=%.2f\n", st.MeanEfficiency, st.TotalDistance, st.Makespan)
	fmt.Fprintf(w, "events_inserted=%d events_processed=%d\n", st.EventsInserted, st.EventsProcessed)
}
