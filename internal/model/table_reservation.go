package model

import "time"

// TableReservation is one ledger row in the `table_reservations` table:
// a single occupied interval on a table for a given restaurant and day.
// The ledger is the serialization surface for all availability checks:
// a table is free for an interval exactly when no non-canceled ledger
// row for that (restaurant, day, table) overlaps it.
//
// Fields:
//  ID            – primary key identifier.
//  RestaurantID  – restaurant the interval belongs to.
//  Date          – reservation day (UTC midnight), same normalization as plans.
//  TableID       – occupied table.
//  ReservationID – the reservation holding the interval (unique, 1:1).
//  Status        – mirrors the reservation status.
//  OccupiedStart – start of the occupied interval (inclusive).
//  OccupiedEnd   – end of the occupied interval (exclusive).
//  CreatedAt     – creation timestamp.
type TableReservation struct {
	ID            uint64    // table_reservations.id
	RestaurantID  uint64    // table_reservations.restaurant_id
	Date          time.Time // table_reservations.reservation_date
	TableID       uint64    // table_reservations.table_id
	ReservationID uint64    // table_reservations.reservation_id
	Status        string    // table_reservations.status
	OccupiedStart time.Time // table_reservations.occupied_start
	OccupiedEnd   time.Time // table_reservations.occupied_end
	CreatedAt     time.Time // table_reservations.created_at
}
