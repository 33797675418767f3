package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"staybook/internal/availability"
	"staybook/internal/config"
	"staybook/internal/dashboard"
	"staybook/internal/domain"
	"staybook/internal/export"
	"staybook/internal/models"
	"staybook/internal/order"
	"staybook/internal/service"

	"github.com/rs/zerolog"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Dashboard    domain.DashboardService
	Availability domain.AvailabilityService
	Orders       domain.OrderService
}

// ReadinessCheck reports whether a backing dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// HTTPServer exposes the booking engine as a JSON API.
type HTTPServer struct {
	cfg      *config.APIConfig
	services Services
	ready    ReadinessCheck
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, services Services, ready ReadinessCheck, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	mux := http.NewServeMux()
	srv := &HTTPServer{cfg: cfg, services: services, ready: ready, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("GET /healthz", srv.handleHealthz)
	mux.HandleFunc("GET /readyz", srv.handleReadyz)

	mux.HandleFunc("GET /api/v1/availability/blocked", srv.handleBlocked)
	mux.HandleFunc("GET /api/v1/availability/check", srv.handleCheckStay)
	mux.HandleFunc("GET /api/v1/dashboard/summary", srv.handleSummary)
	mux.HandleFunc("GET /api/v1/dashboard/summary.xlsx", srv.handleSummaryXLSX)
	mux.HandleFunc("GET /api/v1/menu", srv.handleMenu)
	mux.HandleFunc("POST /api/v1/orders", srv.handleNewOrder)
	mux.HandleFunc("GET /api/v1/orders/{id}", srv.handleGetOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/items", srv.handleAddItem)
	mux.HandleFunc("POST /api/v1/orders/{id}/confirm", srv.handleConfirm)

	handler := chain(mux, corsMiddleware(cfg), loggingMiddleware(logger), srv.auth.Wrap)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not ready: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleBlocked(w http.ResponseWriter, r *http.Request) {
	ranges, err := s.services.Availability.BlockedRanges(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocked": ranges})
}

func (s *HTTPServer) handleCheckStay(w http.ResponseWriter, r *http.Request) {
	checkIn, ok := parseDayParam(w, r, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDayParam(w, r, "check_out")
	if !ok {
		return
	}

	err := s.services.Availability.CheckStay(r.Context(), checkIn, checkOut)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"available": true})
	case errors.Is(err, availability.ErrDatesUnavailable):
		writeJSON(w, http.StatusConflict, map[string]any{"available": false, "error": err.Error()})
	default:
		s.writeServiceError(w, r, err)
	}
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Dashboard.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Dashboard.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.WriteSummary(&buf, *res, now); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"summary_%s.xlsx\"", now.Format(models.DayLayout)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) handleMenu(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	items, err := s.services.Orders.Menu(r.Context(), category)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *HTTPServer) handleNewOrder(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": s.services.Orders.NewSession()})
}

type cartResponse struct {
	SessionID string             `json:"session_id"`
	Lines     []models.OrderLine `json:"lines"`
	Total     float64            `json:"total"`
}

func (s *HTTPServer) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	lines, err := s.services.Orders.Cart(r.Context(), sessionID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{SessionID: sessionID, Lines: lines, Total: order.Total(lines)})
}

func (s *HTTPServer) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FoodID int64 `json:"food_id"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.FoodID <= 0 {
		writeError(w, http.StatusBadRequest, "food_id is required")
		return
	}

	sessionID := r.PathValue("id")
	lines, err := s.services.Orders.AddItem(r.Context(), sessionID, body.FoodID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{SessionID: sessionID, Lines: lines, Total: order.Total(lines)})
}

func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	confirmed, err := s.services.Orders.Confirm(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmed)
}

func parseDayParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return time.Time{}, false
	}
	day, err := time.Parse(models.DayLayout, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s format; expected YYYY-MM-DD", name))
		return time.Time{}, false
	}
	return day, true
}

// statusFor maps domain errors to HTTP status codes. Anything unrecognized
// is an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, availability.ErrInvalidStay),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, availability.ErrDatesUnavailable):
		return http.StatusConflict
	case errors.Is(err, order.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dashboard.ErrSummaryUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
