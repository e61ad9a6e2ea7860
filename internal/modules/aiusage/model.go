package aiusage

import "errors"

// ErrInsufficientTokens is returned when a caller has no insight tokens left for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of insight requests granted per month.
const DefaultTokens = 100
