// Package httpapi wires the course-search use cases onto a chi router and
// owns the JSON rendering of results and domain errors.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
	"github.com/learnia-cloud/course-search/internal/logger"
	cataloguc "github.com/learnia-cloud/course-search/internal/usecase/catalog"
	favoritesuc "github.com/learnia-cloud/course-search/internal/usecase/favorites"
	healthuc "github.com/learnia-cloud/course-search/internal/usecase/health"
	searchuc "github.com/learnia-cloud/course-search/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API server.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	favorites     *favoritesuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	favorites *favoritesuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		catalog:   catalog,
		favorites: favorites,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidBody, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidAction, http.StatusBadRequest),
		verbatimHandler(domain.ErrInvalidParameter, http.StatusBadRequest),
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		verbatimHandler(domain.ErrRouteNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusInternalServerError),
		sentinelHandler(domain.ErrServiceUnavailable, http.StatusInternalServerError),
	}
	return s
}

// Register mounts all API routes on the router. Unmatched paths and methods
// both render the not-found error so clients see one shape.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/search", s.handleSearch)
	r.Get("/api/courses/categories", s.handleCategories)
	r.Get("/api/courses/trending", s.handleTrending)
	r.Get("/api/courses/{courseID}", s.handleCourse)
	r.Post("/api/courses/{courseID}/favorite", s.handleFavoriteToggle)
	r.Get("/api/favorites", s.handleFavoritesList)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.NotFound(s.handleRouteNotFound)
	r.MethodNotAllowed(s.handleRouteNotFound)
}

type searchRequest struct {
	Query   string               `json:"query"`
	Limit   *int                 `json:"limit"`
	Filters domain.SearchFilters `json:"filters"`
}

type searchResponse struct {
	Results []domain.Course `json:"results"`
	Total   int             `json:"total"`
	Query   string          `json:"query"`
}

// handleSearch handles POST /api/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	result, err := s.search.Search(r.Context(), req.Query, req.Limit, req.Filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if result.Courses == nil {
		result.Courses = []domain.Course{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Results: result.Courses,
		Total:   len(result.Courses),
		Query:   result.Query,
	})
}

// handleCategories handles GET /api/courses/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// handleTrending handles GET /api/courses/trending.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	effective := cataloguc.DefaultTrendingLimit
	if limit != nil {
		effective = *limit
		if effective < 1 {
			effective = 1
		}
		if effective > searchuc.MaxLimit {
			effective = searchuc.MaxLimit
		}
	}

	courses, err := s.catalog.Trending(r.Context(), effective)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if courses == nil {
		courses = []domain.Course{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"courses": courses,
		"total":   len(courses),
	})
}

// handleCourse handles GET /api/courses/{courseID}.
func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := s.catalog.CourseByID(r.Context(), courseID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"course": course})
}

type favoriteRequest struct {
	Action string `json:"action"`
}

// handleFavoriteToggle handles POST /api/courses/{courseID}/favorite.
func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	userID := identityFromRequest(r)
	if userID == "" {
		s.handleDomainError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req favoriteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	isFavorite, err := s.favorites.Toggle(r.Context(), userID, courseID, req.Action)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"course_id":   courseID,
		"is_favorite": isFavorite,
	})
}

// handleFavoritesList handles GET /api/favorites.
func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	userID := identityFromRequest(r)
	if userID == "" {
		s.handleDomainError(w, r, domain.ErrUnauthenticated)
		return
	}

	favorites, err := s.favorites.List(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"favorites": favorites,
		"total":     len(favorites),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	s.handleDomainError(w, r,
		fmt.Errorf("%w: %s %s", domain.ErrRouteNotFound, r.Method, r.URL.Path))
}

// sentinelHandler matches a sentinel error and renders its message, dropping
// any wrapped detail.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error())
		return true
	}
}

// verbatimHandler matches a sentinel error and renders the full error text,
// which carries request-derived detail such as the offending path or value.
func verbatimHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
