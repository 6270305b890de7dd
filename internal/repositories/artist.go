package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// ArtistRepository handles persistence for artists.
//
// Artists follow a find-or-create lifecycle: they come into existence the
// first time a record references them by name, and the record repository
// removes them again once their last record is deleted.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// FindOrCreate returns the id of the artist with an exact name match,
// inserting a new row when none exists.
//
// A whitespace-only name is a no-op and returns id 0.
func (r *ArtistRepository) FindOrCreate(name string, country *string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var id int64
	err := r.db.QueryRow("SELECT artist_id FROM artists WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up artist: %w", err)
	}

	result, err := r.db.Exec("INSERT INTO artists (name, country) VALUES (?, ?)", name, country)
	if err != nil {
		return 0, fmt.Errorf("failed to insert artist: %w", err)
	}

	return result.LastInsertId()
}

// List retrieves all artists ordered by name ascending.
func (r *ArtistRepository) List() ([]models.Artist, error) {
	rows, err := r.db.Query("SELECT artist_id, name, country FROM artists ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var (
			artist  models.Artist
			country sql.NullString
		)
		if err := rows.Scan(&artist.ID, &artist.Name, &country); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		if country.Valid {
			artist.Country = &country.String
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// Update overwrites an artist's name and country.
func (r *ArtistRepository) Update(id int64, name string, country *string) error {
	result, err := r.db.Exec("UPDATE artists SET name = ?, country = ? WHERE artist_id = ?", name, country, id)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist %d: %w", id, shared.ErrNotFound)
	}

	return nil
}

// Delete removes an artist unconditionally. Callers enforce the
// reference-count guard before deleting.
func (r *ArtistRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM artists WHERE artist_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	return nil
}

// RecordCount returns how many records reference the artist.
func (r *ArtistRepository) RecordCount(id int64) (int, error) {
	return countRows(r.db, "SELECT COUNT(*) FROM records WHERE artist_id = ?", id)
}
