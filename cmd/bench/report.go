// README: Summary table and CSV export for sweep results.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

var csvHeader = []string{"experiment", "value", "demands", "rides", "pooled_rides", "mean_efficiency", "makespan", "elapsed_ms"}

func printSummary(w io.Writer, results []Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SWEEP\tVALUE\tDEMANDS\tRIDES\tPOOLED\tEFFICIENCY\tMAKESPAN\tSTATUS")
	pass, fail := 0, 0
	for _, r := range results {
		if r.Status == "PASS" {
			pass++
		} else {
			fail++
		}
		fmt.Fprintf(tw, "%s\t%g\t%d\t%d\t%d\t%.3f\t%.2f\t%s\n",
			r.Sweep, r.Value, r.Stats.Demands, r.Stats.Rides, r.Stats.PooledRides,
			r.Stats.MeanEfficiency, r.Stats.Makespan, r.Status)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "PASS=%d FAIL=%d\n", pass, fail)
}

func writeCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.Sweep,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			strconv.Itoa(r.Stats.Demands),
			strconv.Itoa(r.Stats.Rides),
			strconv.Itoa(r.Stats.PooledRides),
			strconv.FormatFloat(r.Stats.MeanEfficiency, 'f', 4, 64),
			strconv.FormatFloat(r.Stats.Makespan, 'f', 2, 64),
			strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
