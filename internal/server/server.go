// Package server exposes the models over HTTP for browser front-ends:
// JSON curve and diagram data, rendered SVG and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/san-kum/forcefield/internal/automation"
	"github.com/san-kum/forcefield/internal/config"
	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/export"
	"github.com/san-kum/forcefield/internal/metrics"
	"github.com/san-kum/forcefield/internal/potential"
	"github.com/san-kum/forcefield/internal/render"
)

// errBadQuery marks query values that could not be parsed.
var errBadQuery = errors.New("server: bad query")

// query keys that are not model parameters
const (
	keyStep   = "step"
	keyPreset = "preset"
	keyWidth  = "width"
	keyHeight = "height"
	keyParam  = "param"
	keyMin    = "min"
	keyMax    = "max"
	keySteps  = "steps"
)

// Server serves model evaluations. It holds no per-request state.
type Server struct {
	Registry *potential.Registry
	Config   *config.Config
	Log      *slog.Logger
	Metrics  *metrics.Collector
}

// ModelInfo describes one model for clients building sliders.
type ModelInfo struct {
	Name   string           `json:"name"`
	Title  string           `json:"title"`
	Domain potential.Domain `json:"domain"`
	Labels potential.Labels `json:"labels"`
}

// EvalResponse is one evaluation with its diagram caption.
type EvalResponse struct {
	Model   string           `json:"model"`
	Params  potential.Params `json:"params"`
	Sample  potential.Sample `json:"sample"`
	Caption string           `json:"caption"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors(s.Config.Server.CORSOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Route("/api/models", func(r chi.Router) {
		r.Get("/", s.listModels)
		r.Route("/{model}", func(r chi.Router) {
			r.Get("/defaults", s.defaults)
			r.Get("/eval", s.eval)
			r.Get("/sweep", s.sweep)
			r.Get("/curve", s.curve)
			r.Get("/diagram", s.diagram)
			r.Get("/frame", s.frame)
			r.Get("/diagram.svg", s.diagramSVG)
			r.Get("/curve.svg", s.curveSVG)
		})
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)

	case <-ctx.Done():
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("close server: %w", err)
			}
		}
		log.Info("server stopped")
		return nil
	}
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	models := s.Registry.All()
	out := make([]ModelInfo, len(models))
	for i, m := range models {
		out[i] = ModelInfo{Name: m.Name(), Title: m.Title(), Domain: m.Domain(), Labels: m.Labels()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) defaults(w http.ResponseWriter, r *http.Request) {
	m, err := s.Registry.Get(chi.URLParam(r, "model"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, potential.DefaultParams(m.Domain()))
}

func (s *Server) eval(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, _, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sample, err := potential.Evaluate(m, p)
	var d *potential.Diagram
	if err == nil {
		d, err = m.Diagram(p)
	}
	s.Metrics.Observe(m.Name(), metrics.KindEval, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, EvalResponse{Model: m.Name(), Params: p, Sample: sample, Caption: d.Caption})
}

// sweep steps one parameter, the curve variable by default, across its
// slider range or the given min and max.
func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, _, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	param := r.URL.Query().Get(keyParam)
	if param == "" {
		param = m.Domain().Sweep
	}
	spec, ok := m.Domain().Spec(param)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: %s", potential.ErrUnknownParam, param))
		return
	}
	lo, err := floatQuery(r, keyMin, spec.Min)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	hi, err := floatQuery(r, keyMax, spec.Max)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	steps, err := intQuery(r, keySteps, 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := automation.RunSweep(r.Context(), &automation.ParameterSweep{
		Model:     m.Name(),
		ParamName: param,
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  steps,
		Base:      p,
		CurveStep: s.Config.SampleStep,
	}, s.Registry)
	s.Metrics.Observe(m.Name(), metrics.KindSweep, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) curve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, opts, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	series, err := curve.Build(m, p, opts...)
	s.Metrics.Observe(m.Name(), metrics.KindCurve, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Metrics.Samples(m.Name(), series.Len())
	s.writeJSON(w, http.StatusOK, series)
}

func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, _, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := m.Diagram(p)
	s.Metrics.Observe(m.Name(), metrics.KindDiagram, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, opts, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := render.Build(m, p, opts...)
	s.Metrics.Observe(m.Name(), metrics.KindFrame, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Metrics.Samples(m.Name(), f.Series.Len())
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) diagramSVG(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, _, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	width, err := intQuery(r, keyWidth, 960)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := m.Diagram(p)
	s.Metrics.Observe(m.Name(), metrics.KindSVG, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSVG(w, export.DiagramToSVG(d, width))
}

func (s *Server) curveSVG(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, p, opts, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	width, err := intQuery(r, keyWidth, 480)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := intQuery(r, keyHeight, 360)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	series, err := curve.Build(m, p, opts...)
	s.Metrics.Observe(m.Name(), metrics.KindSVG, start, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSVG(w, export.SeriesToSVG(series, width, height))
}

// resolve reads the model from the path and its parameters from the
// query: config and preset values first, then one override per key.
func (s *Server) resolve(r *http.Request) (potential.Model, potential.Params, []curve.Option, error) {
	m, err := s.Registry.Get(chi.URLParam(r, "model"))
	if err != nil {
		return nil, nil, nil, err
	}

	q := r.URL.Query()
	overrides := potential.Params{}
	opts := []curve.Option{curve.WithStep(s.Config.SampleStep)}
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		switch key {
		case keyPreset, keyWidth, keyHeight, keyParam, keyMin, keyMax, keySteps:
			continue
		case keyStep:
			step, err := strconv.ParseFloat(values[0], 64)
			if err != nil || !(step > 0) || math.IsInf(step, 0) {
				return nil, nil, nil, fmt.Errorf("%w: step=%q", errBadQuery, values[0])
			}
			opts = append(opts, curve.WithStep(step))
		default:
			v, err := strconv.ParseFloat(values[0], 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: %s=%q", errBadQuery, key, values[0])
			}
			overrides[key] = v
		}
	}

	p, err := s.Config.Resolve(m, q.Get(keyPreset), overrides)
	if err != nil {
		return nil, nil, nil, err
	}
	return m, p, opts, nil
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > 10000 {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, key, raw)
	}
	return v, nil
}

func floatQuery(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, key, raw)
	}
	return v, nil
}

// status maps domain errors onto HTTP codes.
func status(err error) int {
	switch {
	case errors.Is(err, potential.ErrUnknownModel):
		return http.StatusNotFound
	case errors.Is(err, potential.ErrDivisionSingularity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, potential.ErrUnknownParam),
		errors.Is(err, potential.ErrMissingParam),
		errors.Is(err, config.ErrUnknownPreset),
		errors.Is(err, curve.ErrTooManySamples),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	if code >= 500 {
		s.Log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.Log.Debug("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	s.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := export.WriteJSON(w, v); err != nil {
		s.Log.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := export.WriteSVG(w, svg); err != nil {
		s.Log.Error("response write failed", "error", err)
	}
}
