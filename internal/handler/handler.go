package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smarttrainer/smarttrainer/internal/extract"
	appI18n "github.com/smarttrainer/smarttrainer/internal/i18n"
	"github.com/smarttrainer/smarttrainer/internal/model"
	"github.com/smarttrainer/smarttrainer/internal/trainer"
)

// Generator produces questions from study material. *llm.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) ([]model.GeneratedQuestion, error)
}

// Config holds request limits for the API.
type Config struct {
	MaxUploadBytes  int64
	LLMTimeout      time.Duration
	DefaultLanguage model.Language
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc    *trainer.Service
	gen    Generator
	config Config
}

// New creates a new Handler.
func New(svc *trainer.Service, gen Generator, cfg Config) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = model.LanguageArabic
	}
	return &Handler{svc: svc, gen: gen, config: cfg}
}

// Routes registers all API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/categories", h.handleListCategories)
	r.Post("/categories", h.handleCreateCategory)
	r.Delete("/categories/{id}", h.handleDeleteCategory)

	r.Get("/questions", h.handleListQuestions)
	r.Post("/questions", h.handleCreateQuestion)
	r.Post("/questions/batch", h.handleCreateQuestions)
	r.Post("/questions/import", h.handleImportQuestions)
	r.Delete("/questions/{id}", h.handleDeleteQuestion)

	r.Get("/exams", h.handleListExams)
	r.Post("/exams", h.handleCreateExam)
	r.Get("/exams/{id}", h.handleStartExam)
	r.Delete("/exams/{id}", h.handleDeleteExam)
	r.Post("/exams/{id}/submit", h.handleSubmitExam)

	r.Get("/progress", h.handleProgress)
	r.Post("/generate-questions", h.handleGenerateQuestions)
	r.Get("/translations", h.handleTranslations)
}

type errorResponse struct {
	Error   string             `json:"error"`
	Details string             `json:"details,omitempty"`
	Fields  []model.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// fail converts err into the matching HTTP error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *model.ValidationError
		ge *model.GenerationError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: ve.Fields})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, extract.ErrUnsupportedType):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unsupported file type", Details: err.Error()})
	case errors.As(err, &ge):
		slog.Error("question generation failed", "op", ge.Op, "error", ge.Err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to generate questions", Details: ge.Error()})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.Invalid("body", "invalid JSON: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.Invalid("id", "invalid id %q", raw)
	}
	return id, nil
}

// optionalID parses an optional numeric form or query value.
func optionalID(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, model.Invalid(field, "invalid id %q", raw)
	}
	return &id, nil
}

type idResponse struct {
	ID int64 `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleTranslations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"language": appI18n.LanguageFromCtx(r.Context()),
		"messages": appI18n.Dictionary(r.Context()),
	})
}
