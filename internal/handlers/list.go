package handlers

import (
	"net/http"

	"taskflow/internal/models"
)

// ListLists returns all lists with their task counts.
func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Lists.All(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lists)
}

// GetList returns a single list.
func (h *Handlers) GetList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	list, err := h.svc.Lists.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// CreateList creates a new list.
func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	var in models.ListInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	list, err := h.svc.Lists.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, list)
}

// UpdateList merges the fields present in the body into a list.
func (h *Handlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	var patch models.ListPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	list, err := h.svc.Lists.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// DeleteList deletes a list.
func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	if err := h.svc.Lists.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTasksInList returns the task view of one list.
func (h *Handlers) ListTasksInList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.svc.Lists.Tasks(r.Context(), id, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
