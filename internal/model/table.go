package model

import "time"

// Table describes a physical table in a restaurant as stored in the
// `restaurant_tables` table.  The number is unique per restaurant among
// non-archived tables.  Capacity is an even seat count (2, 4, 6 or 8)
// used by the booking engine's capacity-tier matching.  Position and
// rotation place the table on the floor layout rendered by the
// dashboard.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant to which this table belongs.
//  Number       – label shown to staff and guests (unique while not archived).
//  Capacity     – number of seats (2, 4, 6 or 8).
//  Shape        – rendered shape (e.g. rectangle, circle).
//  PositionX    – horizontal layout coordinate.
//  PositionY    – vertical layout coordinate.
//  Rotate       – rotation of the table in degrees.
//  Status       – available, unavailable or archived.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    // restaurant_tables.id
	RestaurantID uint64    // restaurant_tables.restaurant_id
	Number       string    // restaurant_tables.number
	Capacity     uint32    // restaurant_tables.capacity
	Shape        string    // restaurant_tables.shape
	PositionX    float64   // restaurant_tables.position_x
	PositionY    float64   // restaurant_tables.position_y
	Rotate       float64   // restaurant_tables.rotate
	Status       string    // restaurant_tables.status
	CreatedAt    time.Time // restaurant_tables.created_at
	UpdatedAt    time.Time // restaurant_tables.updated_at
}

// Table statuses.  Archived is a soft delete: the table disappears from
// future plans and from duplicate-number checks but is retained for
// history.
const (
	TableAvailable   = "available"
	TableUnavailable = "unavailable"
	TableArchived    = "archived"
)
