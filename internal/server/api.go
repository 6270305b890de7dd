package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/services"
	"github.com/desertthunder/crate/internal/shared"
	"golang.org/x/time/rate"
)

// API is the explicit server context for the catalog facade: a
// [services.Catalog] handle and a logger, shared by every handler. There is
// no process-global application state.
type API struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewAPI creates the facade context over a catalog.
func NewAPI(catalog services.Catalog, logger *log.Logger) *API {
	return &API{catalog: catalog, logger: logger}
}

// Router builds the facade router with request logging and, when rateLimit
// is positive, throughput throttling.
func (a *API) Router(rateLimit float64) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(a.logger))
	if rateLimit > 0 {
		router.Use(Throttle(rate.Limit(rateLimit)))
	}

	router.Handler(&RecordsHandler{api: a})
	router.Handler(&ArtistsHandler{api: a})
	router.Handler(&GenresHandler{api: a})
	router.Handler(&StoresHandler{api: a})
	router.Handler(&ReportsHandler{api: a})

	return router
}

// writeJSON writes v as a JSON response with the given status.
func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

// errorBody builds the JSON error contract: a human-readable message plus a
// machine-readable code, so clients branch on the code rather than parsing
// the message.
func errorBody(msg, code string) map[string]string {
	return map[string]string{"error": msg, "code": code}
}

// writeError translates a catalog error into the JSON error contract.
// Validation and reference-guard failures are client errors; everything else
// is an internal error with the message withheld.
func (a *API) writeError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, shared.ErrValidation):
		a.writeJSON(w, http.StatusBadRequest, errorBody(msg, "validation"))
	case errors.Is(err, shared.ErrInUse):
		a.writeJSON(w, http.StatusBadRequest, errorBody(msg, "in_use"))
	case errors.Is(err, shared.ErrNotFound):
		a.writeJSON(w, http.StatusNotFound, errorBody(msg, "not_found"))
	default:
		a.logger.Error("catalog operation failed", "error", err)
		a.writeJSON(w, http.StatusInternalServerError, errorBody("internal error", "internal"))
	}
}

// decodeJSON decodes a request body into v, reporting a client error for
// malformed JSON.
func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body", "validation"))
		return false
	}
	return true
}

// pathID parses the {id} path value, reporting a client error when it is
// not a positive integer.
func (a *API) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		a.writeJSON(w, http.StatusBadRequest, errorBody("invalid id", "validation"))
		return 0, false
	}
	return id, true
}

// RecordsHandler serves record CRUD.
type RecordsHandler struct {
	api *API
}

// Routes returns the HTTP routes this handler serves.
func (h *RecordsHandler) Routes() []string {
	return []string{
		"GET /api/records",
		"POST /api/records",
		"PUT /api/records/{id}",
		"DELETE /api/records/{id}",
	}
}

func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		views, err := h.api.catalog.Records(r.Context())
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusOK, views)
	case http.MethodPost:
		var payload models.RecordPayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		id, err := h.api.catalog.AddRecord(r.Context(), payload)
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusCreated, map[string]int64{"record_id": id})
	case http.MethodPut:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		var payload models.RecordPayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		if err := h.api.catalog.UpdateRecord(r.Context(), id, payload); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		if err := h.api.catalog.DeleteRecord(r.Context(), id); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ArtistsHandler serves artist CRUD. Deletes are rejected while records
// still reference the artist.
type ArtistsHandler struct {
	api *API
}

// Routes returns the HTTP routes this handler serves.
func (h *ArtistsHandler) Routes() []string {
	return []string{
		"GET /api/artists",
		"POST /api/artists",
		"PUT /api/artists/{id}",
		"DELETE /api/artists/{id}",
	}
}

func (h *ArtistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		artists, err := h.api.catalog.Artists(r.Context())
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusOK, artists)
	case http.MethodPost:
		var payload models.ArtistPayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		id, err := h.api.catalog.CreateArtist(r.Context(), payload)
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusCreated, map[string]int64{"artist_id": id})
	case http.MethodPut:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		var payload models.ArtistPayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		if err := h.api.catalog.UpdateArtist(r.Context(), id, payload); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		if err := h.api.catalog.DeleteArtist(r.Context(), id); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GenresHandler serves genre CRUD. Deletes are rejected while records still
// reference the genre.
type GenresHandler struct {
	api *API
}

// Routes returns the HTTP routes this handler serves.
func (h *GenresHandler) Routes() []string {
	return []string{
		"GET /api/genres",
		"POST /api/genres",
		"PUT /api/genres/{id}",
		"DELETE /api/genres/{id}",
	}
}

func (h *GenresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		genres, err := h.api.catalog.Genres(r.Context())
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusOK, genres)
	case http.MethodPost:
		var payload models.GenrePayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		id, err := h.api.catalog.CreateGenre(r.Context(), payload)
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusCreated, map[string]int64{"genre_id": id})
	case http.MethodPut:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		var payload models.GenrePayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		if err := h.api.catalog.UpdateGenre(r.Context(), id, payload); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		if err := h.api.catalog.DeleteGenre(r.Context(), id); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// StoresHandler serves store CRUD. Store deletion follows the configured
// policy: cascade link removal, or reject while links exist.
type StoresHandler struct {
	api *API
}

// Routes returns the HTTP routes this handler serves.
func (h *StoresHandler) Routes() []string {
	return []string{
		"GET /api/stores",
		"POST /api/stores",
		"PUT /api/stores/{id}",
		"DELETE /api/stores/{id}",
	}
}

func (h *StoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stores, err := h.api.catalog.Stores(r.Context())
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusOK, stores)
	case http.MethodPost:
		var payload models.StorePayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		id, err := h.api.catalog.CreateStore(r.Context(), payload)
		if err != nil {
			h.api.writeError(w, err)
			return
		}
		h.api.writeJSON(w, http.StatusCreated, map[string]int64{"store_id": id})
	case http.MethodPut:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		var payload models.StorePayload
		if !h.api.decodeJSON(w, r, &payload) {
			return
		}
		if err := h.api.catalog.UpdateStore(r.Context(), id, payload); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id, ok := h.api.pathID(w, r)
		if !ok {
			return
		}
		if err := h.api.catalog.DeleteStore(r.Context(), id); err != nil {
			h.api.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ReportsHandler serves the query/report engine.
type ReportsHandler struct {
	api *API
}

// Routes returns the HTTP routes this handler serves.
func (h *ReportsHandler) Routes() []string {
	return []string{"POST /api/reports/records"}
}

func (h *ReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload models.ReportPayload
	if !h.api.decodeJSON(w, r, &payload) {
		return
	}

	report, err := h.api.catalog.Report(r.Context(), payload)
	if err != nil {
		h.api.writeError(w, err)
		return
	}

	h.api.writeJSON(w, http.StatusOK, report)
}
