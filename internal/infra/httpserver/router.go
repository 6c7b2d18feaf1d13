package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pau-interconnect/cv-analyzer/internal/application/analyses"
	"github.com/pau-interconnect/cv-analyzer/internal/domain/analyze"
	"github.com/pau-interconnect/cv-analyzer/internal/middleware"
)

const maxUploadSize = 20 << 20 // 20MB

type Router struct {
	svc *analyses.Service
	log zerolog.Logger
}

// NewRouter wires the HTTP surface: the analyze pipeline endpoint, the stored
// history read side, health and metrics.
func NewRouter(svc *analyses.Service, corsOrigin string, checkers map[string]middleware.HealthChecker, log zerolog.Logger) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	if corsOrigin == "" {
		corsOrigin = "*"
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/users/{email}/analyses", r.wrap(r.handleHistory))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorPayload struct {
	Error string `json:"error"`
}

// badRequestError marks client-side input problems; everything else is
// treated as a pipeline failure.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

// wrap converts handler errors into the single error payload shape. Every
// failure kind travels through the same {"error": "..."} body; the message
// identifies the failing step.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := http.StatusInternalServerError
			var bad *badRequestError
			if errors.As(err, &bad) {
				status = http.StatusBadRequest
			}
			if step, ok := analyze.StepOf(err); ok {
				middleware.IncrementAnalysesFailed()
				r.log.Error().Err(err).Str("step", string(step)).Msg("analyze pipeline failed")
			}
			writeJSON(w, status, errorPayload{Error: err.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /analyze
// Multipart form: name, email, internships (raw role-list string, passed
// through to the prompt untouched), file (PDF).
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		return badRequest("file too large or invalid multipart form")
	}

	name := middleware.SanitizeString(req.FormValue("name"))
	email := req.FormValue("email")
	internships := req.FormValue("internships")

	if name == "" {
		return badRequest("name is required")
	}
	if err := middleware.ValidateEmail(email); err != nil {
		return badRequest(err.Error())
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("missing file in request")
	}
	defer file.Close()

	fileName, err := middleware.SanitizeFileName(header.Filename)
	if err != nil {
		return badRequest(err.Error())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read uploaded file: %w", err)
	}

	middleware.IncrementAnalyses()
	result, err := r.svc.Analyze(req.Context(), analyses.AnalyzeCommand{
		Name:        name,
		Email:       email,
		Internships: internships,
		FileName:    fileName,
		Data:        data,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}

// GET /users/{email}/analyses
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	email := chi.URLParam(req, "email")
	if err := middleware.ValidateEmail(email); err != nil {
		return badRequest(err.Error())
	}

	u, err := r.svc.History(req.Context(), email)
	if err != nil {
		return err
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "user not found"})
		return nil
	}

	writeJSON(w, http.StatusOK, u)
	return nil
}
