// package models defines the data model for the record collection catalog
package models

import (
	"fmt"

	"github.com/desertthunder/crate/internal/shared"
)

// Year bounds accepted for a record's release year.
const (
	MinYear = 1800
	MaxYear = 2100
)

// Artist represents a recording artist. Artists are created on first
// reference by name and removed when their last record is deleted.
type Artist struct {
	ID      int64   `json:"artist_id"`
	Name    string  `json:"name"`
	Country *string `json:"country"`
}

// Genre represents a musical genre, unique by name.
type Genre struct {
	ID   int64  `json:"genre_id"`
	Name string `json:"name"`
}

// Store represents a shop where records were purchased.
type Store struct {
	ID      int64   `json:"store_id"`
	Name    string  `json:"name"`
	State   *string `json:"state"`
	Address *string `json:"address"`
}

// RecordInput is the validated, normalized shape a record mutation carries
// into the repository layer. Optional relations are already resolved to ids.
type RecordInput struct {
	Title        string
	ArtistID     *int64
	GenreID      *int64
	Year         int
	Condition    *string
	Price        float64
	PurchaseDate *string
	StoreID      *int64
}

// Validate checks the record invariants: non-empty title, year within
// [MinYear, MaxYear] and a non-negative price.
func (r RecordInput) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title required", shared.ErrValidation)
	}
	if r.Year < MinYear || r.Year > MaxYear {
		return fmt.Errorf("%w: year must be a valid number between %d and %d", shared.ErrValidation, MinYear, MaxYear)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: price must be a valid non-negative number", shared.ErrValidation)
	}
	return nil
}

// RecordView is the joined record row served to clients: entity names in
// place of foreign keys, store names aggregated when a record links to
// multiple stores.
type RecordView struct {
	RecordID     int64    `json:"record_id"`
	Title        string   `json:"title"`
	Artist       *string  `json:"artist"`
	Genre        *string  `json:"genre"`
	Store        *string  `json:"store"`
	Year         *int     `json:"year"`
	Condition    *string  `json:"condition"`
	Price        *float64 `json:"price"`
	PurchaseDate *string  `json:"purchase_date"`
}

// RecordPayload is the wire shape of a record create/update request.
//
// Year, price and store_id are declared any because clients submit them
// either as JSON numbers or as raw form strings; the facade coerces them
// with the shared parse helpers.
type RecordPayload struct {
	Title        string `json:"title"`
	ArtistName   string `json:"artist_name,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Year         any    `json:"year"`
	Condition    string `json:"condition,omitempty"`
	Price        any    `json:"price"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	StoreID      any    `json:"store_id,omitempty"`
}

// ArtistPayload is the wire shape of an artist create/update request.
type ArtistPayload struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// GenrePayload is the wire shape of a genre create/update request.
type GenrePayload struct {
	Name string `json:"name"`
}

// StorePayload is the wire shape of a store create/update request.
type StorePayload struct {
	Name    string `json:"name"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
}

// ReportPayload is the wire shape of a report request. Ids tolerate both
// numeric and string encodings, like [RecordPayload].
type ReportPayload struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	ArtistID  any    `json:"artist_id,omitempty"`
	StoreID   any    `json:"store_id,omitempty"`
	GenreID   any    `json:"genre_id,omitempty"`
}

// ReportFilters is the parsed, conjunctive filter set for the report engine.
// Nil fields are absent and impose no constraint.
type ReportFilters struct {
	StartDate *string
	EndDate   *string
	ArtistID  *int64
	GenreID   *int64
	StoreID   *int64
}

// ReportStats holds aggregate statistics over the filtered record set.
type ReportStats struct {
	Count    int      `json:"count"`
	AvgPrice *float64 `json:"avg_price"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	AvgYear  *float64 `json:"avg_year"`
}

// ArtistStat is one row of the per-artist report breakdown.
type ArtistStat struct {
	ArtistID *int64   `json:"artist_id"`
	Name     *string  `json:"name"`
	Count    int      `json:"count"`
	AvgPrice *float64 `json:"avg_price"`
}

// Report is the full report engine response: matching rows, aggregate
// stats and the per-artist breakdown, all over the same filter predicate.
type Report struct {
	Rows     []RecordView `json:"rows"`
	Stats    ReportStats  `json:"stats"`
	ByArtist []ArtistStat `json:"by_artist"`
}
