package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/table-reservation/internal/model"
)

// RestaurantRepo provides methods to create and retrieve restaurants.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// Create inserts a new restaurant.  On success the ID and timestamp
// fields of the passed struct are populated from the stored row.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const qInsert = `INSERT INTO restaurants (user_id, name, address, city, postal_code)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, rest.UserID, rest.Name, rest.Address, rest.City, rest.PostalCode)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM restaurants WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rest.ID).Scan(&rest.CreatedAt, &rest.UpdatedAt)
}

// GetByID retrieves a restaurant by its ID regardless of owner.  It
// returns ErrRestaurantNotFound when no row is found.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT id, user_id, name, address, city, postal_code, created_at, updated_at
	           FROM restaurants WHERE id = ?`
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.Address, &rest.City, &rest.PostalCode, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// GetByIDAndOwner retrieves a restaurant but only if it belongs to the
// given manager.  This helper is used to enforce resource ownership.
func (r *RestaurantRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (*model.Restaurant, error) {
	const q = `SELECT id, user_id, name, address, city, postal_code, created_at, updated_at
	           FROM restaurants WHERE id = ? AND user_id = ?`
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx, q, id, userID).
		Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.Address, &rest.City, &rest.PostalCode, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// ListByOwner returns all restaurants of a manager ordered by id.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, userID uint64) ([]*model.Restaurant, error) {
	const q = `SELECT id, user_id, name, address, city, postal_code, created_at, updated_at
	           FROM restaurants WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		rest := new(model.Restaurant)
		if err := rows.Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.Address, &rest.City, &rest.PostalCode, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates name and address fields when the restaurant
// belongs to the given manager.  Returns ErrRestaurantNotFound when no
// row matches.
func (r *RestaurantRepo) UpdateByIDAndOwner(ctx context.Context, rest *model.Restaurant) error {
	const q = `UPDATE restaurants
	           SET name = ?, address = ?, city = ?, postal_code = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, rest.Name, rest.Address, rest.City, rest.PostalCode, rest.ID, rest.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a restaurant owned by the given manager.
// Dependent rows cascade at the database level.
func (r *RestaurantRepo) DeleteByIDAndOwner(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
