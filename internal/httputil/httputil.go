package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"eduflow/internal/block"
	"eduflow/internal/extract"
	"eduflow/internal/llm"
	"eduflow/internal/pipeline"
)

// Validator validates inbound request payloads via struct tags.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// NewRouter creates a chi router with standard middleware (RequestID, Recoverer, Logger, Timeout, RealIP).
func NewRouter(log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))

	return r
}

// WriteJSON writes a JSON response with proper headers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

// ErrorBody is the JSON shape of every failure response.
type ErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

// WriteError maps a pipeline failure to its boundary status and JSON body.
// Only malformed-response failures carry a diagnostic preview; its size is
// bounded upstream so error bodies stay small.
func WriteError(log *slog.Logger, w http.ResponseWriter, err error) {
	var (
		confErr       *pipeline.ConfigurationError
		extractionErr *extract.ExtractionError
		backendErr    *llm.BackendError
		malformedErr  *block.MalformedResponseError
		schemaErr     *block.SchemaViolationError
	)

	status := http.StatusInternalServerError
	body := ErrorBody{Error: "internal", Message: "internal server error"}

	switch {
	case errors.As(err, &confErr):
		status = http.StatusServiceUnavailable
		body = ErrorBody{Error: "backend_not_configured", Message: confErr.Error()}
	case errors.As(err, &extractionErr):
		status = http.StatusBadRequest
		body = ErrorBody{Error: "extraction_failed", Message: extractionErr.Error()}
	case errors.Is(err, pipeline.ErrEmptyDocument):
		status = http.StatusBadRequest
		body = ErrorBody{Error: "empty_document", Message: "no usable text could be extracted from the document"}
	case errors.As(err, &malformedErr):
		status = http.StatusBadGateway
		body = ErrorBody{Error: "malformed_response", Message: "backend returned output that is not valid JSON", RawPreview: malformedErr.Preview}
	case errors.As(err, &schemaErr):
		status = http.StatusBadGateway
		body = ErrorBody{Error: "schema_violation", Message: schemaErr.Error(), Field: schemaErr.Field}
	case errors.As(err, &backendErr):
		status = http.StatusBadGateway
		body = ErrorBody{Error: "backend_failed", Message: backendErr.Error()}
	}

	log.Error("request failed", "status", status, "kind", body.Error, "err", err)
	WriteJSON(w, status, body)
}

// ValidationError writes a 400 for payloads that fail struct validation.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	log.Warn("invalid request payload", "err", err)

	var fieldErrs validator.ValidationErrors
	body := ErrorBody{Error: "invalid_request", Message: "request validation failed"}
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		body.Field = fieldErrs[0].Field()
	}
	WriteJSON(w, http.StatusBadRequest, body)
}

// Fail writes an error response with consistent logging.
func Fail(log *slog.Logger, w http.ResponseWriter, message string, err error, status int) {
	log.Error(message, "err", err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	http.Error(w, message, status)
}

// RequestLogger is a lightweight HTTP logger that uses slog.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Recoverer logs panics via slog while preserving chi's Recoverer behavior.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", "panic", rec, "path", r.URL.Path, "method", r.Method, "request_id", middleware.GetReqID(r.Context()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
