package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ranaumarnadeem/opentestability/pkg/buildinfo"
	"github.com/ranaumarnadeem/opentestability/pkg/cache"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// apiKeyHeader selects a per-caller cache namespace.
const apiKeyHeader = "X-API-Key"

// errorBody is the JSON body of every failed request.
type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(w, r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, res)

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.WriteMarkdown(w, res.Report, report.Options{}); err != nil {
			s.logger.Warn("write markdown response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res.Report)
}

func (s *Server) handleSCOAP(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(w, r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, res)
	writeJSON(w, http.StatusOK, res.Report.Nets)
}

// execute decodes the body and runs the pipeline with options from the
// query string.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, scoapOnly bool) (*pipeline.Result, error) {
	q := r.URL.Query()
	opts, err := parseOptions(q)
	if err != nil {
		return nil, err
	}
	if scoapOnly {
		opts.SkipReconvergence = true
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()
	format := netio.FormatJSON
	if v := q.Get("input"); v != "" {
		format = netio.Format(v)
	}
	in, warnings, err := netio.ReadNetlist(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		return nil, err
	}
	return s.runnerFor(r).Execute(r.Context(), pipeline.Source{Input: in, Warnings: warnings}, opts)
}

// runnerFor returns the shared runner, or a copy with a scoped keyer when
// the caller sent an API key.
func (s *Server) runnerFor(r *http.Request) *pipeline.Runner {
	key := r.Header.Get(apiKeyHeader)
	if key == "" {
		return s.runner
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "tenant:"+cache.Hash([]byte(key))[:16]+":")
	return &scoped
}

// parseOptions reads analysis options from query parameters.
func parseOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Name:    q.Get("name"),
		Rules:   q.Get("rules"),
		Unknown: q.Get("unknown"),
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"observe_all_inputs", &opts.ObserveAllInputs},
		{"skip_reconvergence", &opts.SkipReconvergence},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		if v := q.Get(b.name); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", b.name, v)
			}
			*b.dst = parsed
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"max_iterations", &opts.MaxIterations},
		{"max_depth", &opts.MaxDepth},
	}
	for _, n := range ints {
		if v := q.Get(n.name); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", n.name, v)
			}
			*n.dst = parsed
		}
	}
	if q.Has("max_depth") && opts.MaxDepth == 0 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "max_depth must be positive")
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeFormat, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNonConvergence:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func setCacheHeader(w http.ResponseWriter, res *pipeline.Result) {
	if res.CacheInfo.AnalysisHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
