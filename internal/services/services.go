// package services defines the Catalog interface shared by every access path
//
// HTTP facade client, direct repository access, and the probing fallback
package services

import (
	"context"

	"github.com/desertthunder/crate/internal/models"
)

// Catalog defines the full catalog operation set. The HTTP facade, the
// terminal UI and the CLI all speak this interface, so business logic lives
// in exactly one place regardless of whether calls travel over HTTP or hit
// the repositories directly.
type Catalog interface {
	// Records retrieves the joined record view, newest first.
	Records(ctx context.Context) ([]models.RecordView, error)

	// AddRecord validates and inserts a record, resolving artist/genre names
	// via find-or-create. Returns the new record id.
	AddRecord(ctx context.Context, payload models.RecordPayload) (int64, error)

	// UpdateRecord validates and overwrites a record, replacing its store links.
	UpdateRecord(ctx context.Context, id int64, payload models.RecordPayload) error

	// DeleteRecord removes a record, cascading to its orphaned artist.
	DeleteRecord(ctx context.Context, id int64) error

	// Artists lists all artists by name ascending.
	Artists(ctx context.Context) ([]models.Artist, error)

	// CreateArtist find-or-creates an artist by name.
	CreateArtist(ctx context.Context, payload models.ArtistPayload) (int64, error)

	// UpdateArtist overwrites an artist's fields.
	UpdateArtist(ctx context.Context, id int64, payload models.ArtistPayload) error

	// DeleteArtist removes an artist; rejected while records reference it.
	DeleteArtist(ctx context.Context, id int64) error

	// Genres lists all genres by name ascending.
	Genres(ctx context.Context) ([]models.Genre, error)

	// CreateGenre find-or-creates a genre by name.
	CreateGenre(ctx context.Context, payload models.GenrePayload) (int64, error)

	// UpdateGenre overwrites a genre's name.
	UpdateGenre(ctx context.Context, id int64, payload models.GenrePayload) error

	// DeleteGenre removes a genre; rejected while records reference it.
	DeleteGenre(ctx context.Context, id int64) error

	// Stores lists all stores by name ascending.
	Stores(ctx context.Context) ([]models.Store, error)

	// CreateStore find-or-creates a store by name (and address when given).
	CreateStore(ctx context.Context, payload models.StorePayload) (int64, error)

	// UpdateStore overwrites a store's fields.
	UpdateStore(ctx context.Context, id int64, payload models.StorePayload) error

	// DeleteStore removes a store. Cascades its record links unless the
	// guard_store_delete policy is enabled.
	DeleteStore(ctx context.Context, id int64) error

	// Report runs the query/report engine over the given filters.
	Report(ctx context.Context, payload models.ReportPayload) (*models.Report, error)
}
