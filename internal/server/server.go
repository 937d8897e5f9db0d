// Package server exposes the analysis pipeline over HTTP: workbook
// uploads become sessions, session sections are readable until the
// registry expires them.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/marketing-insights/internal/analysis"
	"github.com/sells-group/marketing-insights/internal/config"
	"github.com/sells-group/marketing-insights/internal/metrics"
	"github.com/sells-group/marketing-insights/internal/workbook"
)

// Server routes HTTP requests to the analysis runner and the session
// registry.
type Server struct {
	cfg      config.ServerConfig
	runner   *analysis.Runner
	sessions *analysis.Registry
	limiter  *ipLimiter
	router   *chi.Mux
}

// New assembles the router with its middleware stack.
func New(cfg config.ServerConfig, runner *analysis.Runner, sessions *analysis.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		limiter:  newIPLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/analyses", s.handleCreateAnalysis)
		r.Route("/analyses/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetAnalysis)
			r.Get("/competitors", s.section(func(res *analysis.Result) any { return res.Competitive.Competitors }))
			r.Get("/gaps", s.section(func(res *analysis.Result) any { return res.Competitive.Gaps }))
			r.Get("/tactics", s.section(func(res *analysis.Result) any { return res.Tactics }))
			r.Get("/recommendations", s.section(func(res *analysis.Result) any { return res.Recommendations }))
			r.Get("/roadmap", s.section(func(res *analysis.Result) any { return res.Roadmap }))
			r.Get("/insights", s.section(func(res *analysis.Result) any { return res.Insights }))
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateAnalysis accepts a multipart workbook upload plus an
// optional goals field, runs the full analysis and stores the result
// under a fresh session.
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("workbook")
	if err != nil {
		writeError(w, http.StatusBadRequest, "workbook file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload")
		return
	}
	metrics.ObserveUpload(int64(len(data)))

	start := time.Now()
	wb, err := workbook.LoadBinary(data)
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeInvalid, time.Since(start))
		writeError(w, http.StatusBadRequest, "file is not a readable xlsx workbook")
		return
	}
	if v := wb.Validate(); !v.Valid {
		metrics.ObserveAnalysis(metrics.OutcomeInvalid, time.Since(start))
		writeJSON(w, http.StatusUnprocessableEntity, v)
		return
	}

	result, err := s.runner.Run(r.Context(), wb, goalsFromForm(r.MultipartForm.Value["goals"]))
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeError, time.Since(start))
		zap.L().Error("server: analysis failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	metrics.ObserveAnalysis(metrics.OutcomeOK, time.Since(start))

	session := s.sessions.Put(header.Filename, result)
	w.Header().Set("Location", "/api/v1/analyses/"+session.ID)
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// section returns a handler serving one sub-view of a stored result.
func (s *Server) section(pick func(*analysis.Result) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessions.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "session not found or expired")
			return
		}
		writeJSON(w, http.StatusOK, pick(session.Result))
	}
}

// goalsFromForm flattens repeated and comma-separated goals fields.
// Normalization happens inside analysis.Run.
func goalsFromForm(values []string) []string {
	var goals []string
	for _, v := range values {
		for _, g := range strings.Split(v, ",") {
			if g = strings.TrimSpace(g); g != "" {
				goals = append(goals, g)
			}
		}
	}
	return goals
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
