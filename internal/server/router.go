package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/whisperwork/crm/internal/handlers"
	"github.com/whisperwork/crm/internal/httpx"
	"github.com/whisperwork/crm/internal/services"
)

const apiVersion = "1.0.0"

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"message": "WhisperWork CRM API is running!",
			"version": apiVersion,
		})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Client endpoints
	ch := handlers.NewClientHandler(services.NewClientService(db))
	mux.HandleFunc("POST /clients", ch.Create)
	mux.HandleFunc("POST /clients/{$}", ch.Create)
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("GET /clients/{$}", ch.List)
	mux.HandleFunc("POST /clients/merge", ch.Merge)
	mux.HandleFunc("GET /clients/search/{$}", ch.Search)
	mux.HandleFunc("GET /clients/search", ch.Search)
	mux.HandleFunc("GET /clients/{id}", ch.Get)
	mux.HandleFunc("PUT /clients/{id}", ch.Update)
	mux.HandleFunc("DELETE /clients/{id}", ch.Archive)
	mux.HandleFunc("GET /clients/{id}/history", ch.History)
	mux.HandleFunc("POST /clients/{id}/resend-invoice", ch.ResendInvoice)
	mux.HandleFunc("POST /clients/{id}/resend-job-summary", ch.ResendJobSummary)

	return withRecover(withLogging(mux, log), log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
