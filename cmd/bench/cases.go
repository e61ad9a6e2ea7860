// README: Sweep execution; runs each point in-process or through the HTTP API and collects statistics.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ridepool/internal/modules/simulation"
	"ridepool/internal/modules/workload"
	"ridepool/internal/textio"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
}

type Result struct {
	Sweep   string
	Value   float64
	Status  string
	Stats   simulation.Stats
	Elapsed time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Point workload.Point
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	tests, err := r.cases()
	if err != nil {
		return nil, err
	}
	if r.cfg.InputDir != "" {
		if err := os.MkdirAll(r.cfg.InputDir, 0o755); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(tests))
	for i, tc := range tests {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.runCase(ctx, i, tc)
		results = append(results, res)
		fmt.Printf("%-5s %s (%s)", res.Status, tc.Name, res.Elapsed)
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results, nil
}

func (r *Runner) cases() ([]TestCase, error) {
	names := r.cfg.Sweeps
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		names = workload.SweepNames()
	}
	var out []TestCase
	for _, name := range names {
		s, err := workload.LookupSweep(name, r.cfg.Steps)
		if err != nil {
			return nil, err
		}
		s.Workload.Seed = r.cfg.Seed
		if r.cfg.Demands > 0 && name != "demands" {
			s.Workload.Demands = r.cfg.Demands
		}
		for _, p := range s.Points() {
			out = append(out, TestCase{Name: fmt.Sprintf("%s=%g", p.Sweep, p.Value), Point: p})
		}
	}
	return out, nil
}

func (r *Runner) runCase(ctx context.Context, idx int, tc TestCase) Result {
	res := Result{Sweep: tc.Point.Sweep, Value: tc.Point.Value}
	in, err := workload.Generate(tc.Point.Workload, tc.Point.Params)
	if err != nil {
		res.Status, res.Note = "FAIL", err.Error()
		return res
	}
	if r.cfg.InputDir != "" {
		if err := r.writeInput(idx, tc, in); err != nil {
			res.Status, res.Note = "FAIL", err.Error()
			return res
		}
	}

	start := time.Now()
	if r.cfg.BaseURL != "" {
		res.Stats, err = r.submit(ctx, in)
	} else {
		var rep simulation.Report
		rep, err = simulation.Simulate(in, simulation.Options{SortInput: r.cfg.SortInput})
		res.Stats = rep.Stats
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Status, res.Note = "FAIL", err.Error()
		return res
	}
	res.Status = "PASS"
	return res
}

func (r *Runner) writeInput(idx int, tc TestCase, in simulation.Input) error {
	path := filepath.Join(r.cfg.InputDir, fmt.Sprintf("%s_%03d.txt", tc.Point.Sweep, idx+1))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := textio.WriteInput(f, in); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (r *Runner) submit(ctx context.Context, in simulation.Input) (simulation.Stats, error) {
	var body bytes.Buffer
	if err := textio.WriteInput(&body, in); err != nil {
		return simulation.Stats{}, err
	}
	url := r.cfg.BaseURL + "/api/runs"
	if r.cfg.SortInput {
		url += "?sort=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return simulation.Stats{}, err
	}
	req.Header.Set("Content-Type", "text/plain")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return simulation.Stats{}, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return simulation.Stats{}, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	var out struct {
		Stats simulation.Stats `json:"stats"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return simulation.Stats{}, err
	}
	return out.Stats, nil
}
