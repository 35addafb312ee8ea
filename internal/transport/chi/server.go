// Package chi serves the remote collection API over an in-memory catalog.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	logpkg "github.com/kailas-cloud/catalog/internal/logger"
	"github.com/kailas-cloud/catalog/internal/metrics"
	"github.com/kailas-cloud/catalog/internal/transport/catalogapi"
)

const maxRequestBytes = 1 << 20

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Catalog is the data the server exposes.
type Catalog interface {
	Filter(ctx context.Context, expr filter.Expression, cur page.Cursor) ([]item.Item, int)
	Categories(ctx context.Context) []category.Category
}

// Config holds the router options.
type Config struct {
	AllowedOrigins []string
}

// Server implements the remote collection endpoints.
type Server struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewServer creates a server over catalog.
func NewServer(catalog Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{catalog: catalog, logger: logger}
}

// Router builds the HTTP handler with the middleware chain.
func (s *Server) Router(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware())
	r.Use(chiMiddleware.Compress(5, "application/json"))

	r.Post("/metadata/filter/", s.FilterItems)
	r.Get("/categories/", s.ListCategories)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
	return r
}

// FilterItems handles POST /metadata/filter/.
func (s *Server) FilterItems(w http.ResponseWriter, r *http.Request) {
	var req catalogapi.FilterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrInvalidExpression) {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = page.DefaultLimit
	}
	cur, err := page.New(req.Page, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	var expr filter.Expression
	if req.Filter != nil {
		expr = *req.Filter
	}

	items, total := s.catalog.Filter(r.Context(), expr, cur)
	metrics.ObserveItemsServed(len(items), !expr.IsEmpty())
	logpkg.FromContext(r.Context()).Debug("filter served",
		zap.Stringer("cursor", cur),
		zap.Bool("filtered", !expr.IsEmpty()),
		zap.Int("items", len(items)),
		zap.Int("total", total),
	)

	resp := catalogapi.FilterResponse{
		Metadata: make([]catalogapi.ItemDTO, 0, len(items)),
		Pagination: &catalogapi.Pagination{
			Page:  cur.Page(),
			Limit: cur.Limit(),
			Total: total,
		},
	}
	for i := range items {
		resp.Metadata = append(resp.Metadata, catalogapi.ItemFromDomain(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /categories/.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.catalog.Categories(r.Context())
	resp := catalogapi.CategoriesResponse{Categories: make([]catalogapi.CategoryDTO, 0, len(cats))}
	for i := range cats {
		resp.Categories = append(resp.Categories, catalogapi.CategoryFromDomain(&cats[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
