package breaker

import "errors"

// ErrOpen is returned by Allow when the circuit is open, or when a
// half-open trial is already in flight.
var ErrOpen = errors.New("breaker: circuit is open")
