// Package httpapi HTTP API дашборда и живой ленты.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	app "misbar/internal/application"
	"misbar/internal/container"
	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

const (
	maxUploadBytes = 20 << 20
	operatorHeader = "X-Operator-ID"
)

// Server обработчики HTTP API поверх контейнера сервисов
type Server struct {
	c   *container.Container
	hub *Hub
}

func NewServer(c *container.Container, hub *Hub) *Server {
	return &Server{c: c, hub: hub}
}

// RegisterRoutes регистрирует маршруты API в mux
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/panels", s.handlePanels)
	mux.HandleFunc("GET /api/v1/panels/{id}", s.handlePanel)
	mux.HandleFunc("GET /api/v1/alerts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.c.LiveFeed.Alerts())
	})
	mux.HandleFunc("POST /api/v1/alerts/{id}/ack", s.handleAck)
	mux.HandleFunc("POST /api/v1/ai-test", s.handleAITest)

	if s.hub != nil {
		mux.HandleFunc("GET /ws/live", s.hub.HandleLive)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := s.dashboardRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.c.DashboardService.Metrics(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// dashboardRequest: preset, system, locale, year, start и end в RFC 3339.
func (s *Server) dashboardRequest(r *http.Request) (app.DashboardRequest, error) {
	q := r.URL.Query()
	req := app.DashboardRequest{Locale: s.locale(r)}

	system, ok := entity.ParseSystemType(q.Get("system"))
	if !ok {
		return req, fmt.Errorf("unknown system type %q", q.Get("system"))
	}
	req.SystemType = system

	if v := q.Get("preset"); v != "" {
		p, err := entity.ParsePreset(v)
		if err != nil {
			return req, err
		}
		req.Preset = p
	}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: %q", app.ErrInvalidYear, v)
		}
		req.Year = year
	}

	start, end := q.Get("start"), q.Get("end")
	if start == "" && end == "" {
		return req, nil
	}
	if start == "" || end == "" {
		return req, errors.New("start and end must be given together")
	}
	from, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return req, fmt.Errorf("start: %w", err)
	}
	to, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return req, fmt.Errorf("end: %w", err)
	}
	req.Range = &entity.DateRange{Start: from, End: to}
	return req, nil
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	system, ok := entity.ParseSystemType(q.Get("system"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown system type %q", q.Get("system")))
		return
	}
	gq := app.GalleryQuery{Term: q.Get("term"), SystemType: system}
	if v := q.Get("preset"); v != "" {
		p, err := entity.ParsePreset(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		gq.Preset = p
	}

	panels, err := s.c.GalleryService.Search(r.Context(), gq)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panels)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid panel id")
		return
	}

	detail, err := s.c.GalleryService.Panel(r.Context(), id, s.locale(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	alert, err := s.c.LiveFeed.Acknowledge(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

type aiTestResponse struct {
	Sequence    int                    `json:"sequence"`
	Result      *entity.AnalysisResult `json:"result"`
	Defects     []app.DecoratedDefect  `json:"defects"`
	Description string                 `json:"description"`
	Highlighted []byte                 `json:"highlighted,omitempty"`
}

// handleAITest принимает изображение в поле формы image или телом запроса.
func (s *Server) handleAITest(w http.ResponseWriter, r *http.Request) {
	operator, err := operatorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	image, err := readImage(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	locale := s.locale(r)
	out, err := s.c.AITestService.Submit(r.Context(), operator, operator, image, locale)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, aiTestResponse{
		Sequence:    out.Sequence,
		Result:      out.Result,
		Defects:     app.Decorate(s.c.Catalog, out.Result.Defects, locale),
		Description: out.Description,
		Highlighted: out.Highlighted,
	})
}

func operatorID(r *http.Request) (int64, error) {
	v := r.Header.Get(operatorHeader)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header", operatorHeader)
	}
	return id, nil
}

func readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		f, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("read form: %w", err)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (s *Server) locale(r *http.Request) catalog.Locale {
	if v := r.URL.Query().Get("locale"); v != "" {
		return catalog.ParseLocale(v)
	}
	return s.c.UserService.Locale(nil)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var rangeErr *entity.InvalidRangeError
	switch {
	case errors.As(err, &rangeErr),
		errors.Is(err, entity.ErrUnknownPreset),
		errors.Is(err, app.ErrInvalidYear),
		errors.Is(err, app.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, port.ErrPanelNotFound),
		errors.Is(err, app.ErrAlertNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}
