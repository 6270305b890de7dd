package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
	tu "github.com/desertthunder/crate/internal/testing"
)

func TestHTTPCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("AddRecord decodes the created id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/records" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var payload models.RecordPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("failed to decode payload: %v", err)
			}
			if payload.Title != "Kind of Blue" {
				t.Errorf("expected title Kind of Blue, got %q", payload.Title)
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]int64{"record_id": 42})
		}))
		defer server.Close()

		catalog := NewHTTPCatalog(server.URL, server.Client())
		id, err := catalog.AddRecord(ctx, models.RecordPayload{Title: "Kind of Blue", Year: 1959, Price: 20})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != 42 {
			t.Errorf("expected id 42, got %d", id)
		}
	})

	t.Run("Records decodes the joined view", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{
				{"record_id": 1, "title": "Kind of Blue", "artist": "Miles Davis"},
			})
		}))
		defer server.Close()

		catalog := NewHTTPCatalog(server.URL, server.Client())
		views, err := catalog.Records(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 1 || views[0].Title != "Kind of Blue" {
			t.Errorf("unexpected views: %v", views)
		}
		if views[0].Artist == nil || *views[0].Artist != "Miles Davis" {
			t.Errorf("expected artist Miles Davis, got %v", views[0].Artist)
		}
	})

	t.Run("maps facade errors onto the shared taxonomy", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
			want   error
		}{
			{"validation failure", http.StatusBadRequest, `{"error":"validation failed: title required","code":"validation"}`, shared.ErrValidation},
			{"referenced entity", http.StatusBadRequest, `{"error":"artist is referenced by records","code":"in_use"}`, shared.ErrInUse},
			{"missing entity", http.StatusNotFound, `{"error":"record not found","code":"not_found"}`, shared.ErrNotFound},
			{"server failure", http.StatusInternalServerError, `{"error":"internal error","code":"internal"}`, shared.ErrAPIRequest},
			{"bad request without a code", http.StatusBadRequest, `{"error":"validation failed: year out of range"}`, shared.ErrValidation},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				catalog := NewHTTPCatalog(server.URL, server.Client())
				err := catalog.DeleteArtist(ctx, 1)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("transport failures map to API errors", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}

		catalog := NewHTTPCatalog("http://127.0.0.1:5000", client)
		_, err := catalog.Records(ctx)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected API request error, got %v", err)
		}
	})

	t.Run("Available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		reachable := NewHTTPCatalog(server.URL, server.Client())
		if !reachable.Available(ctx) {
			t.Error("expected facade to be available")
		}

		server.Close()
		if reachable.Available(ctx) {
			t.Error("expected closed facade to be unavailable")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		catalog := NewHTTPCatalog("", nil)
		if catalog.baseURL != "http://127.0.0.1:5000" {
			t.Errorf("expected default base URL, got %s", catalog.baseURL)
		}
		if catalog.httpClient != http.DefaultClient {
			t.Error("expected default HTTP client")
		}
	})
}
