package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/smarttrainer/smarttrainer/internal/extract"
	"github.com/smarttrainer/smarttrainer/internal/model"
)

const (
	defaultNumQuestions = 5
	maxNumQuestions     = 50
)

type generateResponse struct {
	Questions []model.GeneratedQuestion `json:"questions"`
}

func (h *Handler) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err)
		return
	}

	req, categoryID, err := generationParams(r, h.config.DefaultLanguage)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if categoryID != nil {
		c, err := h.svc.GetCategory(r.Context(), *categoryID)
		if errors.Is(err, model.ErrNotFound) {
			h.fail(w, r, model.Invalid("category_id", "category %d does not exist", *categoryID))
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		req.CategoryHint = c.Name
	}

	content, err := h.uploadedContent(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(content) == "" {
		h.fail(w, r, model.Invalid("text", "No file or text provided"))
		return
	}
	req.Content = content

	ctx := r.Context()
	if h.config.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.LLMTimeout)
		defer cancel()
	}
	questions, err := h.gen.Generate(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Questions: questions})
}

// parseForm accepts multipart and urlencoded bodies up to the upload limit.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	err := r.ParseMultipartForm(h.config.MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return model.Invalid("body", "invalid form: %v", err)
	}
	return nil
}

func generationParams(r *http.Request, defaultLang model.Language) (model.GenerationRequest, *int64, error) {
	v := &model.ValidationError{}
	req := model.GenerationRequest{Count: defaultNumQuestions, Language: defaultLang}

	if raw := strings.TrimSpace(r.FormValue("num_questions")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNumQuestions {
			v.Add("num_questions", "must be a number between 1 and %d", maxNumQuestions)
		}
		req.Count = n
	}
	if raw := strings.TrimSpace(r.FormValue("language")); raw != "" {
		req.Language = model.Language(raw)
		if !req.Language.Valid() {
			v.Add("language", "must be ar or en")
		}
	}
	categoryID, err := optionalID("category_id", strings.TrimSpace(r.FormValue("category_id")))
	if err != nil {
		v.Add("category_id", "invalid id")
	}
	return req, categoryID, v.Err()
}

// uploadedContent returns the text of the uploaded file, or the text field
// when no file was sent.
func (h *Handler) uploadedContent(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return r.FormValue("text"), nil
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return r.FormValue("text"), nil
	}
	if err != nil {
		return "", model.Invalid("file", "failed to read upload: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return extract.FromUpload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
}
