package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ridepool/internal/ai"
	"ridepool/internal/modules/simulation"
	"ridepool/internal/textio"
)

// Usage: ai_demo < input.txt
func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	in, err := textio.Parse(os.Stdin)
	if err != nil {
		log.Fatalf("simulation error: %v", err)
	}
	rep, err := simulation.Simulate(in, simulation.Options{SortInput: true})
	if err != nil {
		log.Fatalf("simulation error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(textio.Render(rep.Completions), "\n"), "\n")
	fmt.Printf("Rides: %d (pooled %d), mean efficiency %.2f\n", rep.Stats.Rides, rep.Stats.PooledRides, rep.Stats.MeanEfficiency)

	insight, err := provider.SummarizeRun(ctx, ai.RunSummary{Params: in.Params, Stats: rep.Stats, SampleLines: lines})
	if err != nil {
		log.Fatalf("Error summarizing run: %v", err)
	}

	fmt.Printf("AI: %s\n", insight.Headline)
	for _, o := range insight.Observations {
		fmt.Printf("  - %s\n", o)
	}
	for _, s := range insight.Suggestions {
		fmt.Printf("  > %s\n", s)
	}
}
