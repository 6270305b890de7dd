// HTTP client for the crate facade
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// HTTPCatalog implements [Catalog] over the HTTP facade's JSON API.
//
// Facade error responses map back onto the shared error taxonomy so callers
// can't tell which access path served them.
type HTTPCatalog struct {
	baseURL    string
	httpClient *http.Client
}

var _ Catalog = (*HTTPCatalog)(nil)

// NewHTTPCatalog creates an HTTPCatalog for the facade at baseURL.
func NewHTTPCatalog(baseURL string, client *http.Client) *HTTPCatalog {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPCatalog{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *HTTPCatalog) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *HTTPCatalog) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.raw(ctx, http.MethodPost, path, data)
}

// raw performs a request and captures the response without interpreting status codes.
func (a *HTTPCatalog) raw(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Available reports whether the facade answers at all. Callers supply a
// context with a short timeout when probing.
func (a *HTTPCatalog) Available(ctx context.Context) bool {
	resp, err := a.Get(ctx, "/api/records")
	return err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300
}

// do performs a JSON round trip, decoding a successful response into out and
// translating error responses into the shared error taxonomy.
func (a *HTTPCatalog) do(ctx context.Context, method, path string, payload, out any) error {
	var data []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		data = encoded
	}

	resp, err := a.raw(ctx, method, path, data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(resp.Body) > 0 {
			if err := json.Unmarshal(resp.Body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}

	msg := strings.TrimSpace(string(resp.Body))
	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(resp.Body, &apiErr) == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}

	// The facade tags every error body with a code, so the mapping never
	// depends on message wording.
	switch {
	case apiErr.Code == "in_use":
		return fmt.Errorf("%s: %w", msg, shared.ErrInUse)
	case apiErr.Code == "not_found" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, shared.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", shared.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}
}

// Records retrieves the joined record view, newest first.
func (a *HTTPCatalog) Records(ctx context.Context) ([]models.RecordView, error) {
	var views []models.RecordView
	if err := a.do(ctx, http.MethodGet, "/api/records", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// AddRecord creates a record via the facade and returns the new id.
func (a *HTTPCatalog) AddRecord(ctx context.Context, payload models.RecordPayload) (int64, error) {
	var created struct {
		RecordID int64 `json:"record_id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/records", payload, &created); err != nil {
		return 0, err
	}
	return created.RecordID, nil
}

// UpdateRecord overwrites a record via the facade.
func (a *HTTPCatalog) UpdateRecord(ctx context.Context, id int64, payload models.RecordPayload) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/records/%d", id), payload, nil)
}

// DeleteRecord removes a record via the facade.
func (a *HTTPCatalog) DeleteRecord(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/records/%d", id), nil, nil)
}

// Artists lists all artists.
func (a *HTTPCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := a.do(ctx, http.MethodGet, "/api/artists", nil, &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// CreateArtist find-or-creates an artist via the facade.
func (a *HTTPCatalog) CreateArtist(ctx context.Context, payload models.ArtistPayload) (int64, error) {
	var created struct {
		ArtistID int64 `json:"artist_id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/artists", payload, &created); err != nil {
		return 0, err
	}
	return created.ArtistID, nil
}

// UpdateArtist overwrites an artist via the facade.
func (a *HTTPCatalog) UpdateArtist(ctx context.Context, id int64, payload models.ArtistPayload) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/artists/%d", id), payload, nil)
}

// DeleteArtist removes an artist via the facade.
func (a *HTTPCatalog) DeleteArtist(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/artists/%d", id), nil, nil)
}

// Genres lists all genres.
func (a *HTTPCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := a.do(ctx, http.MethodGet, "/api/genres", nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// CreateGenre find-or-creates a genre via the facade.
func (a *HTTPCatalog) CreateGenre(ctx context.Context, payload models.GenrePayload) (int64, error) {
	var created struct {
		GenreID int64 `json:"genre_id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/genres", payload, &created); err != nil {
		return 0, err
	}
	return created.GenreID, nil
}

// UpdateGenre overwrites a genre via the facade.
func (a *HTTPCatalog) UpdateGenre(ctx context.Context, id int64, payload models.GenrePayload) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/genres/%d", id), payload, nil)
}

// DeleteGenre removes a genre via the facade.
func (a *HTTPCatalog) DeleteGenre(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/genres/%d", id), nil, nil)
}

// Stores lists all stores.
func (a *HTTPCatalog) Stores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := a.do(ctx, http.MethodGet, "/api/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// CreateStore find-or-creates a store via the facade.
func (a *HTTPCatalog) CreateStore(ctx context.Context, payload models.StorePayload) (int64, error) {
	var created struct {
		StoreID int64 `json:"store_id"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/stores", payload, &created); err != nil {
		return 0, err
	}
	return created.StoreID, nil
}

// UpdateStore overwrites a store via the facade.
func (a *HTTPCatalog) UpdateStore(ctx context.Context, id int64, payload models.StorePayload) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/stores/%d", id), payload, nil)
}

// DeleteStore removes a store via the facade.
func (a *HTTPCatalog) DeleteStore(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/stores/%d", id), nil, nil)
}

// Report runs the report engine via the facade.
func (a *HTTPCatalog) Report(ctx context.Context, payload models.ReportPayload) (*models.Report, error) {
	var report models.Report
	if err := a.do(ctx, http.MethodPost, "/api/reports/records", payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
