package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger stamps each request with an id and a scoped logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		l := logger.Get().With("request_id", reqID)
		r = r.WithContext(logger.WithContext(r.Context(), l))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// activityRecorder writes an activity log entry for every named mutating route.
func (s *Server) activityRecorder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if r.Method == http.MethodGet || r.Method == http.MethodOptions {
			return
		}
		route := mux.CurrentRoute(r)
		if route == nil || route.GetName() == "" {
			return
		}

		entry := &domain.ActivityLog{
			Action:     route.GetName(),
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rec.status,
			IPAddress:  clientIP(r),
			RequestID:  w.Header().Get(requestIDHeader),
		}
		if user := r.Header.Get("X-User"); user != "" {
			entry.Details = "user=" + user
		}
		if err := s.svc.Activity.Record(r.Context(), entry); err != nil {
			logger.WarnContext(r.Context(), "Failed to record activity", "action", entry.Action, "error", err)
		}
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logger.Error("Recovered from panic", "panic", strings.TrimSpace(fmt.Sprintln(v...)))
}
