// =============================================================================
// INFRA3 Curator - HTTP Upload Surface
// =============================================================================
//
// This module serves a minimal upload page and a conversion endpoint:
//
//   GET  /             upload form
//   POST /api/convert  multipart field "file" -> INFRA3 .xlsx download
//   GET  /healthz      liveness
//   GET  /metrics      Prometheus metrics
//
// Conversions run in memory; nothing is written to disk. Failures return a
// JSON body {"status":"error","error":"..."} with a 4xx/5xx status.
//
// =============================================================================

package server

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ginjaninja78/infra3-curator/internal/config"
	"github.com/ginjaninja78/infra3-curator/internal/converter"
	"github.com/ginjaninja78/infra3-curator/internal/csvparser"
	"github.com/ginjaninja78/infra3-curator/internal/validation"
	"github.com/ginjaninja78/infra3-curator/internal/xlsxparser"
	"github.com/ginjaninja78/infra3-curator/pkg/utils"
)

// UploadField is the multipart field carrying the source file.
const UploadField = "file"

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// xlsxContentType is the MIME type of the generated workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =============================================================================
// METRICS
// =============================================================================

type metrics struct {
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	rows        prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "infra3",
			Name:      "conversions_total",
			Help:      "Conversions handled, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "infra3",
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting one upload.",
			Buckets:   prometheus.DefBuckets,
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "infra3",
			Name:      "source_rows_total",
			Help:      "Source rows converted.",
		}),
	}
	reg.MustRegister(m.conversions, m.duration, m.rows)
	return m
}

// =============================================================================
// SERVER STRUCTURE
// =============================================================================

// Server handles HTTP conversion requests.
type Server struct {
	config     *config.ServerConfig
	nameFormat string
	converter  *converter.Converter
	logger     *log.Logger
	registry   *prometheus.Registry
	metrics    *metrics
	router     chi.Router
}

// New creates a Server. Each Server owns its metrics registry.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		config:     &cfg.Server,
		nameFormat: cfg.OutputNameFormat,
		converter:  converter.New(cfg, logger),
		logger:     logger,
		registry:   reg,
		metrics:    newMetrics(reg),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until the server fails.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("starting server", "addr", s.config.Addr)
	return srv.ListenAndServe()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
	})
	return r
}

// =============================================================================
// HANDLERS
// =============================================================================

var homePage = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>INFRA3 Curator</title></head>
<body>
<h1>INFRA3 Curator</h1>
<p>Upload a pipeline export (.xlsx, .xls or .csv) to download the INFRA3 upload workbook.</p>
<form method="post" action="/api/convert" enctype="multipart/form-data">
<input type="file" name="{{.Field}}" accept=".xlsx,.xlsm,.xls,.csv">
<button type="submit">Convert</button>
</form>
</body>
</html>
`))

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homePage.Execute(w, struct{ Field string }{UploadField}); err != nil {
		s.logger.Warn("failed to render page", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := s.config.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit", err)
			return
		}
		s.fail(w, r, http.StatusBadRequest, "multipart field \""+UploadField+"\" required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	workbook, out, err := s.converter.ConvertBytes(data, header.Filename)
	if err != nil {
		s.fail(w, r, statusFor(err), err.Error(), err)
		return
	}

	s.metrics.conversions.WithLabelValues("success").Inc()
	s.metrics.duration.Observe(time.Since(start).Seconds())
	s.metrics.rows.Add(float64(out.Stats.SourceRows))

	name := utils.GenerateOutputFileName(s.nameFormat, utils.BaseName(header.Filename))
	s.logger.Info("converted upload",
		"file", header.Filename,
		"rows", out.Stats.SourceRows,
		"warnings", out.Stats.Warnings,
		"request_id", w.Header().Get(RequestIDHeader),
	)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(workbook)))
	w.Header().Set("X-Source-Warnings", strconv.Itoa(out.Stats.Warnings))
	if _, err := w.Write(workbook); err != nil {
		s.logger.Warn("failed to write workbook response", "err", err)
	}
}

// statusFor maps conversion errors onto HTTP statuses: problems with the
// upload are the client's, anything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, xlsxparser.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, validation.ErrMissingIdentifier),
		errors.Is(err, validation.ErrNoRows),
		errors.Is(err, xlsxparser.ErrNoData),
		errors.Is(err, csvparser.ErrEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, converter.ErrRender):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// fail logs the error and returns a minimal JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	s.metrics.conversions.WithLabelValues("failure").Inc()
	s.logger.Warn("request error",
		"status", status,
		"msg", message,
		"err", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", w.Header().Get(RequestIDHeader),
	)
	render.Status(r, status)
	render.JSON(w, r, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// requestID tags every response with a fresh UUID unless the client sent
// one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// withLogging logs request start and completion.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}
