package fusion

import "errors"

var (
	// ErrInvalidHostAddress is returned when the bridge address is not in
	// "host:port" format.
	ErrInvalidHostAddress = errors.New("invalid host address: expected host:port")

	// ErrNoActiveDesign is returned when the host is reachable but has no
	// design open.
	ErrNoActiveDesign = errors.New("no active design found in the host application")

	// ErrForeignTarget is returned when an export target did not come from
	// this client's design snapshot, so the host has no ID for it.
	ErrForeignTarget = errors.New("export target does not belong to this design snapshot")
)
