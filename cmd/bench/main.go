// README: Experiment runner; sweeps matching parameters over synthetic workloads and reports results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results, err := bench.RunAll(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("\n== Summary ==")
	printSummary(os.Stdout, results)

	if cfg.CSVPath != "" {
		if err := writeCSVFile(cfg.CSVPath, results); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("csv written to %s\n", cfg.CSVPath)
	}

	for _, r := range results {
		if r.Status == "FAIL" {
			os.Exit(1)
		}
	}
}

type Config struct {
	Sweeps    []string
	Steps     int
	Seed      int64
	Demands   int
	InputDir  string
	CSVPath   string
	SortInput bool
	BaseURL   string
	Token     string
	Timeout   time.Duration
}

func loadConfig() Config {
	var cfg Config
	var sweeps string
	flag.StringVar(&sweeps, "sweep", envOrDefault("RIDEPOOL_BENCH_SWEEP", "all"), "Comma separated sweeps (eta,lambda,delta,alfa,beta,demands) or all")
	flag.IntVar(&cfg.Steps, "steps", envOrDefaultInt("RIDEPOOL_BENCH_STEPS", 10), "Points per linear sweep")
	flag.Int64Var(&cfg.Seed, "seed", int64(envOrDefaultInt("RIDEPOOL_BENCH_SEED", 42)), "Workload seed")
	flag.IntVar(&cfg.Demands, "demands", envOrDefaultInt("RIDEPOOL_BENCH_DEMANDS", 0), "Override demand count for non-demand sweeps")
	flag.StringVar(&cfg.InputDir, "inputs", envOrDefault("RIDEPOOL_BENCH_INPUTS", ""), "Directory to write generated input files")
	flag.StringVar(&cfg.CSVPath, "csv", envOrDefault("RIDEPOOL_BENCH_CSV", ""), "CSV results path")
	flag.BoolVar(&cfg.SortInput, "sort", envOrDefaultBool("RIDEPOOL_SORT_INPUT", false), "Sort demands before matching")
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("RIDEPOOL_BENCH_BASE_URL", ""), "Submit runs to this API instead of simulating in-process")
	flag.StringVar(&cfg.Token, "token", envOrDefault("RIDEPOOL_BENCH_TOKEN", ""), "Bearer token for the API")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("RIDEPOOL_BENCH_TIMEOUT", 10*time.Minute), "Total timeout")
	flag.Parse()
	cfg.Sweeps = splitList(sweeps)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
