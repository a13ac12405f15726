// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// service core and handlers to distinguish between different failure
// scenarios, e.g. a missing row versus a conditional write that found
// conflicting state.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a conditional write cannot be performed
// because of conflicting state, such as inserting a ledger interval
// that overlaps an existing one.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering a user whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrRestaurantNotFound is returned when a restaurant lookup yields no rows.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrPlanNotFound is returned when a table plan lookup yields no rows.
var ErrPlanNotFound = errors.New("table plan not found")

// ErrReservationNotFound is returned when a reservation lookup yields no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrLedgerEntryNotFound is returned when a status mirror targets a
// ledger row that does not exist.
var ErrLedgerEntryNotFound = errors.New("table reservation entry not found")

// ErrHoursNotFound is returned when a restaurant has no opening hours
// for the requested weekday.
var ErrHoursNotFound = errors.New("opening hours not found")

// ErrDuplicateNumber is returned when creating or renaming a table to a
// number already used by a non-archived table of the same restaurant.
var ErrDuplicateNumber = errors.New("table number already in use")
