// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/crate/internal/models"
)

// MockCatalog is a test double for [services.Catalog]. Each operation
// delegates to the matching func field when set and returns an empty result
// otherwise.
type MockCatalog struct {
	RecordsFunc      func(ctx context.Context) ([]models.RecordView, error)
	AddRecordFunc    func(ctx context.Context, payload models.RecordPayload) (int64, error)
	UpdateRecordFunc func(ctx context.Context, id int64, payload models.RecordPayload) error
	DeleteRecordFunc func(ctx context.Context, id int64) error
	ReportFunc       func(ctx context.Context, payload models.ReportPayload) (*models.Report, error)
}

func (m *MockCatalog) Records(ctx context.Context) ([]models.RecordView, error) {
	if m.RecordsFunc != nil {
		return m.RecordsFunc(ctx)
	}
	return []models.RecordView{}, nil
}

func (m *MockCatalog) AddRecord(ctx context.Context, payload models.RecordPayload) (int64, error) {
	if m.AddRecordFunc != nil {
		return m.AddRecordFunc(ctx, payload)
	}
	return 1, nil
}

func (m *MockCatalog) UpdateRecord(ctx context.Context, id int64, payload models.RecordPayload) error {
	if m.UpdateRecordFunc != nil {
		return m.UpdateRecordFunc(ctx, id, payload)
	}
	return nil
}

func (m *MockCatalog) DeleteRecord(ctx context.Context, id int64) error {
	if m.DeleteRecordFunc != nil {
		return m.DeleteRecordFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	return []models.Artist{}, nil
}

func (m *MockCatalog) CreateArtist(ctx context.Context, payload models.ArtistPayload) (int64, error) {
	return 1, nil
}

func (m *MockCatalog) UpdateArtist(ctx context.Context, id int64, payload models.ArtistPayload) error {
	return nil
}

func (m *MockCatalog) DeleteArtist(ctx context.Context, id int64) error { return nil }

func (m *MockCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	return []models.Genre{}, nil
}

func (m *MockCatalog) CreateGenre(ctx context.Context, payload models.GenrePayload) (int64, error) {
	return 1, nil
}

func (m *MockCatalog) UpdateGenre(ctx context.Context, id int64, payload models.GenrePayload) error {
	return nil
}

func (m *MockCatalog) DeleteGenre(ctx context.Context, id int64) error { return nil }

func (m *MockCatalog) Stores(ctx context.Context) ([]models.Store, error) {
	return []models.Store{}, nil
}

func (m *MockCatalog) CreateStore(ctx context.Context, payload models.StorePayload) (int64, error) {
	return 1, nil
}

func (m *MockCatalog) UpdateStore(ctx context.Context, id int64, payload models.StorePayload) error {
	return nil
}

func (m *MockCatalog) DeleteStore(ctx context.Context, id int64) error { return nil }

func (m *MockCatalog) Report(ctx context.Context, payload models.ReportPayload) (*models.Report, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, payload)
	}
	return &models.Report{
		Rows:     []models.RecordView{},
		ByArtist: []models.ArtistStat{},
	}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
