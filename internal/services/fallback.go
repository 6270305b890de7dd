package services

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crate/internal/models"
)

// ProbeTimeout bounds the single facade availability check. Only the probe
// is time-limited; once a path is chosen, calls run unbounded like every
// other catalog operation.
const ProbeTimeout = 2 * time.Second

// Fallback implements [Catalog] by probing the HTTP facade once and then
// routing every call either through it or through direct repository access.
//
// Transport failures never reach the caller as a distinct error class; the
// strategy decision happens up front, exactly once.
type Fallback struct {
	remote *HTTPCatalog
	local  *LocalCatalog
	logger *log.Logger

	once   sync.Once
	active Catalog
}

var _ Catalog = (*Fallback)(nil)

// NewFallback creates a Fallback preferring remote and degrading to local.
func NewFallback(remote *HTTPCatalog, local *LocalCatalog, logger *log.Logger) *Fallback {
	return &Fallback{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

// catalog returns the selected access path, probing on first use.
func (f *Fallback) catalog() Catalog {
	f.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
		defer cancel()

		if f.remote != nil && f.remote.Available(ctx) {
			f.logger.Debug("facade reachable, using HTTP access", "base_url", f.remote.baseURL)
			f.active = f.remote
			return
		}

		f.logger.Warn("facade unreachable, falling back to direct repository access")
		f.active = f.local
	})
	return f.active
}

func (f *Fallback) Records(ctx context.Context) ([]models.RecordView, error) {
	return f.catalog().Records(ctx)
}

func (f *Fallback) AddRecord(ctx context.Context, payload models.RecordPayload) (int64, error) {
	return f.catalog().AddRecord(ctx, payload)
}

func (f *Fallback) UpdateRecord(ctx context.Context, id int64, payload models.RecordPayload) error {
	return f.catalog().UpdateRecord(ctx, id, payload)
}

func (f *Fallback) DeleteRecord(ctx context.Context, id int64) error {
	return f.catalog().DeleteRecord(ctx, id)
}

func (f *Fallback) Artists(ctx context.Context) ([]models.Artist, error) {
	return f.catalog().Artists(ctx)
}

func (f *Fallback) CreateArtist(ctx context.Context, payload models.ArtistPayload) (int64, error) {
	return f.catalog().CreateArtist(ctx, payload)
}

func (f *Fallback) UpdateArtist(ctx context.Context, id int64, payload models.ArtistPayload) error {
	return f.catalog().UpdateArtist(ctx, id, payload)
}

func (f *Fallback) DeleteArtist(ctx context.Context, id int64) error {
	return f.catalog().DeleteArtist(ctx, id)
}

func (f *Fallback) Genres(ctx context.Context) ([]models.Genre, error) {
	return f.catalog().Genres(ctx)
}

func (f *Fallback) CreateGenre(ctx context.Context, payload models.GenrePayload) (int64, error) {
	return f.catalog().CreateGenre(ctx, payload)
}

func (f *Fallback) UpdateGenre(ctx context.Context, id int64, payload models.GenrePayload) error {
	return f.catalog().UpdateGenre(ctx, id, payload)
}

func (f *Fallback) DeleteGenre(ctx context.Context, id int64) error {
	return f.catalog().DeleteGenre(ctx, id)
}

func (f *Fallback) Stores(ctx context.Context) ([]models.Store, error) {
	return f.catalog().Stores(ctx)
}

func (f *Fallback) CreateStore(ctx context.Context, payload models.StorePayload) (int64, error) {
	return f.catalog().CreateStore(ctx, payload)
}

func (f *Fallback) UpdateStore(ctx context.Context, id int64, payload models.StorePayload) error {
	return f.catalog().UpdateStore(ctx, id, payload)
}

func (f *Fallback) DeleteStore(ctx context.Context, id int64) error {
	return f.catalog().DeleteStore(ctx, id)
}

func (f *Fallback) Report(ctx context.Context, payload models.ReportPayload) (*models.Report, error) {
	return f.catalog().Report(ctx, payload)
}
