package model

import "time"

// Reservation records a booking placed through the assignment engine.
// The table number is denormalized so the dashboard can render a
// reservation without loading the table row.  The occupied interval is
// always [combine(DateSelected, TimeSelected), +60min).
//
// Fields:
//  ID           – primary key identifier.
//  Code         – public UUID returned to widget clients.
//  RestaurantID – restaurant being booked.
//  UserID       – booking customer (nil for anonymous widget bookings).
//  TableID      – table assigned by the engine.
//  TableNumber  – label of the assigned table at booking time.
//  DateSelected – booked day (UTC midnight).
//  TimeSelected – booked time as an "HH:mm" string.
//  NbrPersons   – party size (1–8).
//  Details      – free-text note from the guest.
//  Status       – waiting, confirmed or canceled.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    // reservations.id
	Code         string    // reservations.code
	RestaurantID uint64    // reservations.restaurant_id
	UserID       *uint64   // reservations.user_id (nullable)
	TableID      uint64    // reservations.table_id
	TableNumber  string    // reservations.table_number
	DateSelected time.Time // reservations.date_selected
	TimeSelected string    // reservations.time_selected
	NbrPersons   uint32    // reservations.nbr_persons
	Details      string    // reservations.details
	Status       string    // reservations.status
	CreatedAt    time.Time // reservations.created_at
	UpdatedAt    time.Time // reservations.updated_at
}

// Reservation statuses.  New reservations start as waiting; managers
// confirm or cancel them.  Canceled reservations free their interval.
const (
	ReservationWaiting   = "waiting"
	ReservationConfirmed = "confirmed"
	ReservationCanceled  = "canceled"
)
