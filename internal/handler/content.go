package handler

import (
	"net/http"

	appI18n "github.com/smarttrainer/smarttrainer/internal/i18n"
	"github.com/smarttrainer/smarttrainer/internal/model"
)

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for i := range cats {
		cats[i].DisplayName = appI18n.CategoryName(r.Context(), cats[i].Name)
		cats[i].DisplayDescription = appI18n.CategoryDescription(r.Context(), cats[i].Description)
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.NewCategory
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, err := optionalID("category_id", r.URL.Query().Get("category_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	qs, err := h.svc.ListQuestions(r.Context(), categoryID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in model.NewQuestion
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.svc.CreateQuestion(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

type batchRequest struct {
	Questions  []model.NewQuestion `json:"questions"`
	CategoryID *int64              `json:"category_id"`
}

func (h *Handler) handleCreateQuestions(w http.ResponseWriter, r *http.Request) {
	var in batchRequest
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ids, err := h.svc.CreateQuestions(r.Context(), in.Questions, in.CategoryID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"ids": ids})
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.ListExams(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

func (h *Handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	var in model.NewExam
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.svc.CreateExam(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteExam(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
