package handlers

import (
	"net/http"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/notebook"
)

// NotebookHandler handles notebook and note operations.
type NotebookHandler struct {
	store *notebook.Store
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(store *notebook.Store) *NotebookHandler {
	return &NotebookHandler{store: store}
}

// Register adds the notebook routes to mux.
func (h *NotebookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notebooks", h.ListNotebooks)
	mux.HandleFunc("POST /api/notebooks", h.CreateNotebook)
	mux.HandleFunc("GET /api/notebooks/{id}", h.GetNotebook)
	mux.HandleFunc("PATCH /api/notebooks/{id}", h.UpdateNotebook)
	mux.HandleFunc("DELETE /api/notebooks/{id}", h.DeleteNotebook)
	mux.HandleFunc("PUT /api/notebooks/{id}/background-image", h.SetBackgroundImage)
	mux.HandleFunc("POST /api/notebooks/{id}/notes", h.AddNote)
	mux.HandleFunc("PATCH /api/notebooks/{id}/notes/{noteID}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notebooks/{id}/notes/{noteID}", h.DeleteNote)
}

// ListNotebooks handles GET /api/notebooks
func (h *NotebookHandler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks := h.store.Notebooks()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":    notebooks,
		"total":    len(notebooks),
		"revision": h.store.Revision(),
	})
}

// CreateNotebook handles POST /api/notebooks
func (h *NotebookHandler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name            string `json:"name"`
		Color           string `json:"color"`
		BackgroundColor string `json:"backgroundColor"`
		TextColor       string `json:"textColor"`
	}
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}

	nb, err := h.store.CreateNotebook(r.Context(), request.Name, request.Color, request.BackgroundColor, request.TextColor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// SetBackgroundImage handles PUT /api/notebooks/{id}/background-image with
// {"uri","opacity","overlayColor","overlayOpacity"}. An empty uri removes the
// image and resets its opacity; omitted fields keep the editor values.
func (h *NotebookHandler) SetBackgroundImage(w http.ResponseWriter, r *http.Request) {
	var ch models.BackgroundImageChange
	if err := decodeBody(r, &ch); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")
	nb, err := h.store.Notebook(id)
	if err != nil {
		writeError(w, err)
		return
	}
	opacity, overlayColor, overlayOpacity := ch.Resolve(nb)
	nb, err = h.store.SetNotebookBackgroundImage(r.Context(), id, ch.URI, opacity, overlayColor, overlayOpacity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// GetNotebook handles GET /api/notebooks/{id}
func (h *NotebookHandler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	nb, err := h.store.Notebook(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// UpdateNotebook handles PATCH /api/notebooks/{id}
func (h *NotebookHandler) UpdateNotebook(w http.ResponseWriter, r *http.Request) {
	var u models.NotebookUpdate
	if err := decodeBody(r, &u); err != nil {
		writeError(w, err)
		return
	}
	nb, err := h.store.UpdateNotebook(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// DeleteNotebook handles DELETE /api/notebooks/{id}
func (h *NotebookHandler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteNotebook(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNote handles POST /api/notebooks/{id}/notes
func (h *NotebookHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.store.AddNote(r.Context(), r.PathValue("id"), request.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PATCH /api/notebooks/{id}/notes/{noteID}
func (h *NotebookHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var u models.NoteUpdate
	if err := decodeBody(r, &u); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.store.UpdateNote(r.Context(), r.PathValue("id"), r.PathValue("noteID"), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notebooks/{id}/notes/{noteID}
func (h *NotebookHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteNote(r.Context(), r.PathValue("id"), r.PathValue("noteID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
