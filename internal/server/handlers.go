package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/schedulator/pkg/buildinfo"
	"github.com/matzehuels/schedulator/pkg/errors"
	"github.com/matzehuels/schedulator/pkg/pipeline"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.analyze(w, r)
	if !ok {
		return
	}
	w.Header().Set("X-Run-ID", res.RunID.String())
	writeJSON(w, http.StatusOK, res.Report())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}

	res, opts, ok := s.analyze(w, r)
	if !ok {
		return
	}
	data, hit, err := s.runner.RenderWithCacheInfo(r.Context(), res, format, opts)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Run-ID", res.RunID.String())
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// analyze reads and schedules the request body. On failure it writes the
// error response and returns ok == false.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*pipeline.Result, pipeline.Options, bool) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, opts, false
	}

	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	records, err := pipeline.ReadBody(body, inputFormat(r))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return nil, opts, false
	}

	res, err := s.runner.Analyze(r.Context(), records, opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return nil, opts, false
	}
	return res, opts, true
}

func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		PathLimit: s.opts.PathLimit,
		Parallel:  s.opts.Parallel,
		Detailed:  s.opts.Detailed,
		Logger:    s.logger,
	}
	q := r.URL.Query()
	if v := q.Get("paths"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "paths must be a non-negative integer, got %q", v)
		}
		opts.PathLimit = n
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v)
		}
		opts.Detailed = b
	}
	opts.Refresh = q.Get("refresh") == "true"
	return opts, nil
}

// inputFormat picks the task document format from the query or Content-Type.
func inputFormat(r *http.Request) string {
	if v := r.URL.Query().Get("input"); v != "" {
		return v
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		return "json"
	case "application/toml":
		return "toml"
	case "application/yaml", "application/x-yaml":
		return "yaml"
	}
	return "text"
}

// statusFor maps error codes to HTTP statuses: malformed documents are
// client errors, well-formed documents describing an invalid graph are
// unprocessable.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidWeight, errors.ErrCodeInvalidTask, errors.ErrCodeDuplicateTask,
		errors.ErrCodeUnknownPredecessor, errors.ErrCodeCycle:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
