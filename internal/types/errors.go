// README: Error taxonomy shared by input validation and the simulation core.
package types

import "errors"

var (
	// ErrInvalidParameter marks rejected simulation parameters or malformed input.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidState marks operations the core can never legally perform.
	ErrInvalidState = errors.New("invalid state")
)
