package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"intellicoach/internal/analysis"
	"intellicoach/internal/logging"
	"intellicoach/internal/services"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithContext(r.Context(), s.logger)

	if r.ContentLength > s.opts.MaxUploadBytes {
		s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size")
			return
		}
		s.writeError(w, http.StatusBadRequest, "expected a multipart upload with a \"file\" field")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()
	if header.Size == 0 {
		s.writeError(w, http.StatusBadRequest, analysis.UserMessage(analysis.ErrEmptyPayload))
		return
	}

	if !s.acquire(r.Context()) {
		s.writeError(w, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	defer s.release()

	// The analysis outlives a disconnecting client so cleanup always runs.
	ctx := context.WithoutCancel(r.Context())
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	result, err := s.analyzer.Analyze(ctx, analysis.Request{
		Body:     file,
		Size:     header.Size,
		Filename: header.Filename,
	})
	if errors.Is(err, analysis.ErrEmptyPayload) {
		s.writeError(w, http.StatusBadRequest, analysis.UserMessage(err))
		return
	}
	if err != nil {
		logger.Error("analysis returned an unexpected error", logging.Error(err))
		s.writeJSON(w, http.StatusOK, analysis.Failed(analysis.UserMessage(err)))
		return
	}
	if r.Context().Err() != nil {
		logger.Info("client disconnected before the result was ready",
			logging.String(logging.FieldEventType, "result_abandoned"),
			logging.String("status", string(result.Status)),
		)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Message:  "IntelliCoach analysis backend ready",
		Strategy: s.opts.Strategy,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload := StatusResponse{}
	if s.opts.Status != nil {
		payload = s.opts.Status(r.Context())
	}
	payload.Strategy = s.opts.Strategy
	payload.InFlight = len(s.slots)
	payload.Capacity = cap(s.slots)
	s.writeJSON(w, http.StatusOK, payload)
}

// acquire waits for a worker slot until ctx is done.
func (s *Server) acquire(ctx context.Context) bool {
	select {
	case s.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) release() {
	<-s.slots
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

// StateReporter is implemented by services.Lazy handles.
type StateReporter interface {
	State() (services.LazyState, error)
}

// ProviderStates converts lazy handle states for the status payload, in name
// order.
func ProviderStates(handles map[string]StateReporter) []ProviderState {
	names := make([]string, 0, len(handles))
	for name, handle := range handles {
		if handle != nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	out := make([]ProviderState, 0, len(names))
	for _, name := range names {
		state, err := handles[name].State()
		ps := ProviderState{Name: name, State: state}
		if err != nil {
			ps.LastError = err.Error()
		}
		out = append(out, ps)
	}
	return out
}
