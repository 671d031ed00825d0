package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
)

// maxBodyBytes bounds the POST search body.
const maxBodyBytes = 1 << 20

// searcher is the consumer interface for the search use case (ISP).
type searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
	Suggest(ctx context.Context, prefix, lang string, limit int) ([]result.Suggestion, error)
}

// healthChecker is the consumer interface for health reporting (ISP).
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements ServerInterface.
type Server struct {
	search        searcher
	health        healthChecker
	limits        request.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(search searcher, health healthChecker, limits request.Limits, logger *zap.Logger) *Server {
	return &Server{
		search: search,
		health: health,
		limits: limits,
		logger: logger,
		errorHandlers: []errorHandler{
			invalidQueryHandler,
			sentinelHandler(domain.ErrSearchTimeout, http.StatusGatewayTimeout, ErrorCodeSearchTimeout),
			sentinelHandler(domain.ErrSnapshotUnavailable, http.StatusServiceUnavailable, ErrorCodeSnapshotUnavailable),
		},
	}
}

// SearchProducts handles POST /api/v1/products/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.runSearch(w, r, &body)
}

// SearchProductsByQuery handles GET /api/v1/products/search.
func (s *Server) SearchProductsByQuery(w http.ResponseWriter, r *http.Request, params SearchProductsByQueryParams) {
	body := bodyFromQuery(params)
	s.runSearch(w, r, &body)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, body *SearchRequest) {
	p, err := searchParamsFromBody(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	req, err := request.NewWithLimits(p, s.limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	r = r.WithContext(logger.With(r.Context(),
		zap.String("search_mode", string(req.Mode())),
		zap.Int("page", req.Page()),
	))
	out, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcomeToResponse(&out))
}

// SuggestProducts handles GET /api/v1/products/suggest.
func (s *Server) SuggestProducts(w http.ResponseWriter, r *http.Request, params SuggestProductsParams) {
	lang := ""
	if params.Language != nil {
		lang = *params.Language
	}
	limit := 0
	if params.Limit != nil {
		if *params.Limit < 0 || *params.Limit > request.MaxPageSize {
			writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, "limit must be between 0 and 100")
			return
		}
		limit = *params.Limit
	}

	suggestions, err := s.search.Suggest(r.Context(), params.Q, lang, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: suggestionsToDTO(suggestions)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves searches.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:          string(report.Status),
		Checks:          checks,
		SnapshotVersion: report.SnapshotVersion,
		SnapshotAgeSec:  int64(report.SnapshotAge.Seconds()),
	})
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

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// invalidQueryHandler returns the validation message verbatim.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	msg := domain.ErrInvalidQuery.Error()
	var iq *domain.InvalidQueryError
	if errors.As(err, &iq) {
		msg = iq.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, msg)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Debug("Request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
