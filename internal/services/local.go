package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/repositories"
	"github.com/desertthunder/crate/internal/shared"
)

// LocalCatalog implements [Catalog] directly over the repositories.
//
// Sanitization, coercion and the reference-count guards all happen here, so
// the HTTP facade (which wraps a LocalCatalog) and the offline fallback path
// behave identically.
type LocalCatalog struct {
	records *repositories.RecordRepository
	artists *repositories.ArtistRepository
	genres  *repositories.GenreRepository
	stores  *repositories.StoreRepository
	reports *repositories.ReportRepository
	policy  shared.PolicyConfig
}

var _ Catalog = (*LocalCatalog)(nil)

// NewLocalCatalog creates a LocalCatalog over the given database handle.
func NewLocalCatalog(db *sql.DB, policy shared.PolicyConfig) *LocalCatalog {
	return &LocalCatalog{
		records: repositories.NewRecordRepository(db),
		artists: repositories.NewArtistRepository(db),
		genres:  repositories.NewGenreRepository(db),
		stores:  repositories.NewStoreRepository(db),
		reports: repositories.NewReportRepository(db),
		policy:  policy,
	}
}

// Records retrieves the joined record view, newest first.
func (c *LocalCatalog) Records(ctx context.Context) ([]models.RecordView, error) {
	views, err := c.records.FetchAll()
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.RecordView{}
	}
	return views, nil
}

// AddRecord validates and inserts a record. Artist and genre names resolve
// via find-or-create before the insert.
func (c *LocalCatalog) AddRecord(ctx context.Context, payload models.RecordPayload) (int64, error) {
	input, err := c.buildRecordInput(payload)
	if err != nil {
		return 0, err
	}
	return c.records.Add(*input)
}

// UpdateRecord validates and overwrites a record, replacing its store links.
func (c *LocalCatalog) UpdateRecord(ctx context.Context, id int64, payload models.RecordPayload) error {
	input, err := c.buildRecordInput(payload)
	if err != nil {
		return err
	}
	return c.records.Update(id, *input)
}

// DeleteRecord removes a record, cascading to its orphaned artist.
func (c *LocalCatalog) DeleteRecord(ctx context.Context, id int64) error {
	return c.records.Delete(id)
}

// buildRecordInput sanitizes a wire payload into a validated RecordInput,
// resolving entity names to ids.
func (c *LocalCatalog) buildRecordInput(payload models.RecordPayload) (*models.RecordInput, error) {
	title := shared.SanitizeText(payload.Title, shared.MaxTextLen)
	if title == nil {
		return nil, fmt.Errorf("%w: title required", shared.ErrValidation)
	}

	input := &models.RecordInput{Title: *title}

	if name := shared.SanitizeText(payload.ArtistName, shared.MaxTextLen); name != nil {
		id, err := c.artists.FindOrCreate(*name, nil)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			input.ArtistID = &id
		}
	}

	if name := shared.SanitizeText(payload.Genre, shared.MaxTextLen); name != nil {
		id, err := c.genres.FindOrCreate(*name)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			input.GenreID = &id
		}
	}

	year := shared.ParseInt(payload.Year, models.MinYear, models.MaxYear)
	if year == nil {
		return nil, fmt.Errorf("%w: year must be a valid number between %d and %d",
			shared.ErrValidation, models.MinYear, models.MaxYear)
	}
	input.Year = *year

	price := shared.ParseFloat(payload.Price, 0)
	if price == nil {
		return nil, fmt.Errorf("%w: price must be a valid non-negative number", shared.ErrValidation)
	}
	input.Price = *price

	input.Condition = shared.SanitizeText(payload.Condition, shared.MaxTextLen)
	input.PurchaseDate = shared.ParseDate(payload.PurchaseDate)

	if storeID := shared.ParseInt(payload.StoreID, 1, math.MaxInt); storeID != nil {
		id := int64(*storeID)
		input.StoreID = &id
	}

	return input, nil
}

// Artists lists all artists by name ascending.
func (c *LocalCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	artists, err := c.artists.List()
	if err != nil {
		return nil, err
	}
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, nil
}

// CreateArtist find-or-creates an artist by name.
func (c *LocalCatalog) CreateArtist(ctx context.Context, payload models.ArtistPayload) (int64, error) {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return 0, fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.artists.FindOrCreate(*name, shared.SanitizeText(payload.Country, shared.MaxTextLen))
}

// UpdateArtist overwrites an artist's name and country.
func (c *LocalCatalog) UpdateArtist(ctx context.Context, id int64, payload models.ArtistPayload) error {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.artists.Update(id, *name, shared.SanitizeText(payload.Country, shared.MaxTextLen))
}

// DeleteArtist removes an artist, rejecting the delete while records still
// reference it.
func (c *LocalCatalog) DeleteArtist(ctx context.Context, id int64) error {
	count, err := c.artists.RecordCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("artist has records, cannot delete: %w", shared.ErrInUse)
	}
	return c.artists.Delete(id)
}

// Genres lists all genres by name ascending.
func (c *LocalCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	genres, err := c.genres.List()
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	return genres, nil
}

// CreateGenre find-or-creates a genre by name.
func (c *LocalCatalog) CreateGenre(ctx context.Context, payload models.GenrePayload) (int64, error) {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return 0, fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.genres.FindOrCreate(*name)
}

// UpdateGenre overwrites a genre's name.
func (c *LocalCatalog) UpdateGenre(ctx context.Context, id int64, payload models.GenrePayload) error {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.genres.Update(id, *name)
}

// DeleteGenre removes a genre, rejecting the delete while records still
// reference it.
func (c *LocalCatalog) DeleteGenre(ctx context.Context, id int64) error {
	count, err := c.genres.RecordCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("genre in use by records, cannot delete: %w", shared.ErrInUse)
	}
	return c.genres.Delete(id)
}

// Stores lists all stores by name ascending.
func (c *LocalCatalog) Stores(ctx context.Context) ([]models.Store, error) {
	stores, err := c.stores.List()
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []models.Store{}
	}
	return stores, nil
}

// CreateStore find-or-creates a store by name, or name plus address when an
// address is given.
func (c *LocalCatalog) CreateStore(ctx context.Context, payload models.StorePayload) (int64, error) {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return 0, fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.stores.FindOrCreate(*name,
		shared.SanitizeText(payload.State, shared.MaxTextLen),
		shared.SanitizeText(payload.Address, shared.MaxTextLen))
}

// UpdateStore overwrites a store's name, state and address.
func (c *LocalCatalog) UpdateStore(ctx context.Context, id int64, payload models.StorePayload) error {
	name := shared.SanitizeText(payload.Name, shared.MaxTextLen)
	if name == nil {
		return fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return c.stores.Update(id, *name,
		shared.SanitizeText(payload.State, shared.MaxTextLen),
		shared.SanitizeText(payload.Address, shared.MaxTextLen))
}

// DeleteStore removes a store. With guard_store_delete enabled the delete is
// rejected while record links exist; otherwise the links cascade away.
func (c *LocalCatalog) DeleteStore(ctx context.Context, id int64) error {
	if c.policy.GuardStoreDelete {
		count, err := c.stores.LinkCount(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("store has linked records, cannot delete: %w", shared.ErrInUse)
		}
	}
	return c.stores.Delete(id)
}

// Report parses the filter payload and runs the report engine.
func (c *LocalCatalog) Report(ctx context.Context, payload models.ReportPayload) (*models.Report, error) {
	var filters models.ReportFilters

	filters.StartDate = shared.ParseDate(payload.StartDate)
	filters.EndDate = shared.ParseDate(payload.EndDate)
	if id := shared.ParseInt(payload.ArtistID, 1, math.MaxInt); id != nil {
		v := int64(*id)
		filters.ArtistID = &v
	}
	if id := shared.ParseInt(payload.GenreID, 1, math.MaxInt); id != nil {
		v := int64(*id)
		filters.GenreID = &v
	}
	if id := shared.ParseInt(payload.StoreID, 1, math.MaxInt); id != nil {
		v := int64(*id)
		filters.StoreID = &v
	}

	return c.reports.Report(filters)
}
