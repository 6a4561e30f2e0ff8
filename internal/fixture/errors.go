package fixture

import "errors"

var (
	// ErrFixture is returned when a fixture file cannot be read, parsed or
	// validated.
	ErrFixture = errors.New("invalid fixture")

	// ErrResult is returned when a result or manifest file cannot be read
	// or parsed.
	ErrResult = errors.New("invalid result file")
)
