package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"minitwit/internal/metrics"
	"minitwit/internal/service"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEmpty answers 200 with no body, which is how absent messages are reported.
func writeEmpty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

// --- Error helpers ---

// rejectionReason names the error kind for logs and metrics. It never
// reaches the response body.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return "validation"
	case errors.Is(err, service.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	case errors.Is(err, service.ErrBackend):
		return "backend"
	default:
		return "bad_request"
	}
}

func (s *server) reject(w http.ResponseWriter, r *http.Request, operation string, status int, err error) {
	reason := rejectionReason(err)
	metrics.RecordRejection(operation, reason)

	entry := s.log.WithFields(logrus.Fields{
		"operation": operation,
		"path":      r.URL.Path,
		"reason":    reason,
		"trace_id":  w.Header().Get("X-Trace-ID"),
	}).WithError(err)
	if reason == "backend" {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	w.WriteHeader(status)
}

// --- Middleware ---

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-ID", traceID)

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		s.log.WithFields(logrus.Fields{
			"trace_id": traceID,
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.status,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
