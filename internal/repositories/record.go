package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// RecordRepository handles persistence for records and their store links.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Add validates and inserts a record, linking it to a store when one is given.
// Returns the new record id.
func (r *RecordRepository) Add(input models.RecordInput) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO records (title, artist_id, genre_id, year, condition, price, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, input.Title, input.ArtistID, input.GenreID, input.Year, input.Condition, input.Price, input.PurchaseDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get record id: %w", err)
	}

	if input.StoreID != nil {
		_, err = tx.Exec("INSERT OR IGNORE INTO record_stores (record_id, store_id) VALUES (?, ?)", id, *input.StoreID)
		if err != nil {
			return 0, fmt.Errorf("failed to link store: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit record: %w", err)
	}

	return id, nil
}

// Update validates and overwrites all scalar fields of a record, replacing
// its store links with the single provided store (nil clears them).
func (r *RecordRepository) Update(id int64, input models.RecordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE records
		SET title = ?, artist_id = ?, genre_id = ?, year = ?, condition = ?, price = ?, purchase_date = ?
		WHERE record_id = ?
	`, input.Title, input.ArtistID, input.GenreID, input.Year, input.Condition, input.Price, input.PurchaseDate, id)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record %d: %w", id, shared.ErrNotFound)
	}

	if _, err := tx.Exec("DELETE FROM record_stores WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear store links: %w", err)
	}
	if input.StoreID != nil {
		_, err = tx.Exec("INSERT OR IGNORE INTO record_stores (record_id, store_id) VALUES (?, ?)", id, *input.StoreID)
		if err != nil {
			return fmt.Errorf("failed to link store: %w", err)
		}
	}

	return tx.Commit()
}

// Delete removes a record in a single transaction: store links first, then
// the row, then the record's artist when no other record references it.
func (r *RecordRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var artistID sql.NullInt64
	err = tx.QueryRow("SELECT artist_id FROM records WHERE record_id = ?", id).Scan(&artistID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up record: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM record_stores WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete store links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	// Orphaned artists go with their last record.
	if artistID.Valid {
		var remaining int
		err := tx.QueryRow("SELECT COUNT(*) FROM records WHERE artist_id = ?", artistID.Int64).Scan(&remaining)
		if err != nil {
			return fmt.Errorf("failed to count artist records: %w", err)
		}
		if remaining == 0 {
			if _, err := tx.Exec("DELETE FROM artists WHERE artist_id = ?", artistID.Int64); err != nil {
				return fmt.Errorf("failed to delete orphaned artist: %w", err)
			}
		}
	}

	return tx.Commit()
}

// recordViewSelect is the joined projection shared by FetchAll and the
// report engine. Store names aggregate into one comma-joined string when a
// record links to multiple stores.
const recordViewSelect = `
	SELECT r.record_id, r.title, a.name AS artist, g.name AS genre,
		GROUP_CONCAT(s.name, ', ') AS store,
		r.year, r.condition, r.price, r.purchase_date
	FROM records r
	LEFT JOIN artists a ON r.artist_id = a.artist_id
	LEFT JOIN genres g ON r.genre_id = g.genre_id
	LEFT JOIN record_stores rs ON r.record_id = rs.record_id
	LEFT JOIN stores s ON rs.store_id = s.store_id
`

// FetchAll retrieves the joined record view, newest id first.
func (r *RecordRepository) FetchAll() ([]models.RecordView, error) {
	rows, err := r.db.Query(recordViewSelect + " GROUP BY r.record_id ORDER BY r.record_id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecordViews(rows)
}

// scanRecordViews drains a record view result set.
func scanRecordViews(rows *sql.Rows) ([]models.RecordView, error) {
	var views []models.RecordView
	for rows.Next() {
		var (
			view         models.RecordView
			artist       sql.NullString
			genre        sql.NullString
			store        sql.NullString
			year         sql.NullInt64
			condition    sql.NullString
			price        sql.NullFloat64
			purchaseDate sql.NullString
		)
		err := rows.Scan(&view.RecordID, &view.Title, &artist, &genre, &store, &year, &condition, &price, &purchaseDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if artist.Valid {
			view.Artist = &artist.String
		}
		if genre.Valid {
			view.Genre = &genre.String
		}
		if store.Valid {
			view.Store = &store.String
		}
		if year.Valid {
			y := int(year.Int64)
			view.Year = &y
		}
		if condition.Valid {
			view.Condition = &condition.String
		}
		if price.Valid {
			view.Price = &price.Float64
		}
		if purchaseDate.Valid {
			view.PurchaseDate = &purchaseDate.String
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return views, nil
}
