package model

import "time"

// Restaurant represents a venue owned by a manager.  A restaurant has
// physical tables, daily table plans and opening hours.  This struct
// corresponds to a row in the `restaurants` table.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user ID of the owning manager.
//  Name       – display name of the restaurant.
//  Address    – street address.
//  City       – city name.
//  PostalCode – postal code.
//  CreatedAt  – timestamp when the restaurant was created.
//  UpdatedAt  – timestamp of last update.
type Restaurant struct {
	ID         uint64    // restaurants.id
	UserID     uint64    // restaurants.user_id
	Name       string    // restaurants.name
	Address    string    // restaurants.address
	City       string    // restaurants.city
	PostalCode string    // restaurants.postal_code
	CreatedAt  time.Time // restaurants.created_at
	UpdatedAt  time.Time // restaurants.updated_at
}
