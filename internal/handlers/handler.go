// file: internal/handlers/handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"personahub/internal/contextutils"
	"personahub/internal/models"
	"personahub/internal/response"
	"personahub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Base carries the dependencies shared by all handlers
type Base struct {
	builder *response.Builder
	logger  *zap.Logger
}

// NewBase creates the shared handler base
func NewBase(builder *response.Builder, logger *zap.Logger) *Base {
	return &Base{builder: builder, logger: logger}
}

// decodeJSON decodes the request body into dst, limiting body size
func (b *Base) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return services.NewValidationError("malformed request body", err)
	}
	return nil
}

// pathID parses a numeric URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError("invalid "+name, err)
	}
	return id, nil
}

// paginationFromQuery parses limit/offset/sort/order query parameters
func paginationFromQuery(r *http.Request) models.PaginationParams {
	query := r.URL.Query()

	params := models.PaginationParams{
		Sort:  query.Get("sort"),
		Order: query.Get("order"),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		params.Offset = offset
	}

	return params
}

// optionalQueryID parses an optional numeric query parameter
func optionalQueryID(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// actingProfileID returns the profile selected by the auth middleware
func actingProfileID(r *http.Request) (int64, error) {
	if id, ok := contextutils.GetProfileID(r.Context()); ok {
		return id, nil
	}
	return 0, services.NewUnauthorizedError("no acting profile resolved")
}

// viewerProfileID returns the acting profile when one is present, for
// decorating public reads
func viewerProfileID(r *http.Request) *int64 {
	if id, ok := contextutils.GetProfileID(r.Context()); ok {
		return &id
	}
	return nil
}
