package handlers

import (
	"net/http"

	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// SubmitFeedback handles the public form. Any status in the body is ignored.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var sub models.FeedbackSubmission
	if err := decodeJSON(r, &sub); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.feedback.Submit(r.Context(), sub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// ListFeedback serves both the admin list and the public status view.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.feedback.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.feedback.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req models.StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.feedback.UpdateStatus(r.Context(), adminID(r), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) UpdateAdminAction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req models.AdminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.feedback.UpdateAdminAction(r.Context(), adminID(r), id, req.ActionAdmin)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.feedback.Delete(r.Context(), adminID(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Remontée supprimée"})
}

// FeedbackHistory returns the audit trail of a record, newest first.
func (h *Handler) FeedbackHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	events, err := h.feedback.History(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
