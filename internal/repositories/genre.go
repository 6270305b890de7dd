package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// GenreRepository handles persistence for genres.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new GenreRepository with the given database connection
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// FindOrCreate returns the id of the genre with an exact name match,
// inserting a new row when none exists.
//
// A whitespace-only name is a no-op and returns id 0.
func (r *GenreRepository) FindOrCreate(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var id int64
	err := r.db.QueryRow("SELECT genre_id FROM genres WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up genre: %w", err)
	}

	result, err := r.db.Exec("INSERT INTO genres (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert genre: %w", err)
	}

	return result.LastInsertId()
}

// List retrieves all genres ordered by name ascending.
func (r *GenreRepository) List() ([]models.Genre, error) {
	rows, err := r.db.Query("SELECT genre_id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

// Update overwrites a genre's name.
func (r *GenreRepository) Update(id int64, name string) error {
	result, err := r.db.Exec("UPDATE genres SET name = ? WHERE genre_id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("genre %d: %w", id, shared.ErrNotFound)
	}

	return nil
}

// Delete removes a genre unconditionally. Callers enforce the
// reference-count guard before deleting.
func (r *GenreRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM genres WHERE genre_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	return nil
}

// RecordCount returns how many records reference the genre.
func (r *GenreRepository) RecordCount(id int64) (int, error) {
	return countRows(r.db, "SELECT COUNT(*) FROM records WHERE genre_id = ?", id)
}
