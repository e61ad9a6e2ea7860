package ai

import (
	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/simulation"
)

// RunSummary is what the model sees about a run.
type RunSummary struct {
	Params matching.Params  `json:"params"`
	Stats  simulation.Stats `json:"stats"`
	// SampleLines holds the first output lines, already formatted.
	SampleLines []string `json:"sample_lines"`
}

// Insight captures the structured output from the AI model.
type Insight struct {
	Headline     string   `json:"headline"`
	Observations []string `json:"observations"`

	// Suggestions are parameter changes worth trying next, e.g. "raise delta to 60".
	Suggestions []string `json:"suggestions"`
}
