package handler

import (
	"net/http"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

func (h *Handler) handleStartExam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	session, err := h.svc.StartExam(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSubmitExam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var sub model.Submission
	if err := decodeJSON(r, &sub); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.SubmitExam(r.Context(), id, sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
