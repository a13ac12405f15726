// Package service implements the reservation core: the table assignment
// engine, the reservation lifecycle and the table plan synchronisation.
// Failures are reported through the sentinel errors below; handlers
// translate them into HTTP status codes and error kinds.
package service

import "errors"

// ErrNoTablePlan is returned when a restaurant has no table plan at all,
// meaning no tables have ever been configured.  Handlers should
// translate this into an HTTP 404 response.
var ErrNoTablePlan = errors.New("no_table_plan")

// ErrNoCompatibleTable is returned when the requested party size maps to
// a capacity tier that no table in the plan provides, or when the party
// size is outside 1–8.  Handlers should translate this into 400.
var ErrNoCompatibleTable = errors.New("no_compatible_table")

// ErrNoAvailableTable is returned when every compatible table is already
// occupied for the requested interval.  Handlers should translate this
// into 409.
var ErrNoAvailableTable = errors.New("no_available_table")

// ErrConflictingReservation is returned when the commit-time conflict
// check detects an overlapping interval that appeared after the
// availability scan.  Handlers should translate this into 409.
var ErrConflictingReservation = errors.New("conflicting_reservation")

// ErrNotFound is returned when the addressed reservation does not exist,
// or when cancel is invoked on an already-canceled reservation.
var ErrNotFound = errors.New("not_found")

// ErrInvalidStatus is returned when a lifecycle transition is attempted
// from a state that does not allow it, e.g. confirming a reservation
// that is not waiting.
var ErrInvalidStatus = errors.New("invalid_status")

// ErrNoTableReservation is returned when a reservation's ledger entry
// cannot be located while mirroring a status change.  The reservation
// and the ledger have diverged; the condition is reported, not healed.
var ErrNoTableReservation = errors.New("no_table_reservation")

// ErrInvalidTime is returned when a time string is not a valid "HH:mm"
// value.  Handlers should translate this into a validation failure (400).
var ErrInvalidTime = errors.New("invalid_time")
