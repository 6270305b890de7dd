package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// StoreRepository handles persistence for stores and their record links.
type StoreRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new StoreRepository with the given database connection
func NewStoreRepository(db *sql.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// FindOrCreate returns the id of a matching store, inserting a new row when
// none exists. A store matches by name and address when an address is given,
// otherwise by name alone.
//
// A whitespace-only name is a no-op and returns id 0.
func (r *StoreRepository) FindOrCreate(name string, state, address *string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var (
		id  int64
		err error
	)
	if address != nil {
		err = r.db.QueryRow("SELECT store_id FROM stores WHERE name = ? AND address = ?", name, *address).Scan(&id)
	} else {
		err = r.db.QueryRow("SELECT store_id FROM stores WHERE name = ?", name).Scan(&id)
	}
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up store: %w", err)
	}

	result, err := r.db.Exec("INSERT INTO stores (name, state, address) VALUES (?, ?, ?)", name, state, address)
	if err != nil {
		return 0, fmt.Errorf("failed to insert store: %w", err)
	}

	return result.LastInsertId()
}

// List retrieves all stores ordered by name ascending.
func (r *StoreRepository) List() ([]models.Store, error) {
	rows, err := r.db.Query("SELECT store_id, name, state, address FROM stores ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var (
			store   models.Store
			state   sql.NullString
			address sql.NullString
		)
		if err := rows.Scan(&store.ID, &store.Name, &state, &address); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		if state.Valid {
			store.State = &state.String
		}
		if address.Valid {
			store.Address = &address.String
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return stores, nil
}

// Update overwrites a store's name, state and address.
func (r *StoreRepository) Update(id int64, name string, state, address *string) error {
	result, err := r.db.Exec("UPDATE stores SET name = ?, state = ?, address = ? WHERE store_id = ?", name, state, address, id)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}

	return nil
}

// Delete removes a store, cascading by deleting its record links first.
func (r *StoreRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM record_stores WHERE store_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete store links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM stores WHERE store_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	return tx.Commit()
}

// LinkCount returns how many records are linked to the store.
func (r *StoreRepository) LinkCount(id int64) (int, error) {
	return countRows(r.db, "SELECT COUNT(*) FROM record_stores WHERE store_id = ?", id)
}
