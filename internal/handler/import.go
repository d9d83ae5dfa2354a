package handler

import (
	"io"
	"net/http"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

type importResponse struct {
	Imported int `json:"imported"`
}

// handleImportQuestions loads an uploaded question bank file. A bank whose
// content was already imported is skipped.
func (h *Handler) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, model.Invalid("file", "no file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, model.Invalid("file", "failed to read file"))
		return
	}

	n, err := h.svc.ImportUpload(r.Context(), data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}
