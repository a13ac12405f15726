package model

import "time"

// TableSnapshot is one table as captured inside a daily table plan.
// It is a copy of the table's layout fields at snapshot time, stored in
// the `table_plan_tables` table.  Snapshots drift from the live table
// rows by design; the plan service keeps them in sync for today and
// future days.
//
// Fields:
//  TableID   – the snapshotted table.
//  Number    – table label at snapshot time.
//  Capacity  – seat count at snapshot time.
//  Shape     – rendered shape.
//  PositionX – horizontal layout coordinate.
//  PositionY – vertical layout coordinate.
//  Rotate    – rotation in degrees (sticky across re-syncs).
//  Status    – available or unavailable; archived tables are never snapshotted.
type TableSnapshot struct {
	TableID   uint64  // table_plan_tables.table_id
	Number    string  // table_plan_tables.number
	Capacity  uint32  // table_plan_tables.capacity
	Shape     string  // table_plan_tables.shape
	PositionX float64 // table_plan_tables.position_x
	PositionY float64 // table_plan_tables.position_y
	Rotate    float64 // table_plan_tables.rotate
	Status    string  // table_plan_tables.status
}

// TablePlan is the floor layout of a restaurant for one calendar day,
// stored in the `table_plans` table with its snapshots.  There is at
// most one plan per (restaurant, day); dates are normalized to UTC
// midnight.  Plans are created lazily and never deleted.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the plan belongs to.
//  Date         – the day this plan covers (UTC midnight).
//  Tables       – ordered snapshots of the active tables.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type TablePlan struct {
	ID           uint64          // table_plans.id
	RestaurantID uint64          // table_plans.restaurant_id
	Date         time.Time       // table_plans.plan_date
	Tables       []TableSnapshot // table_plan_tables rows, ordered by table id
	CreatedAt    time.Time       // table_plans.created_at
	UpdatedAt    time.Time       // table_plans.updated_at
}
