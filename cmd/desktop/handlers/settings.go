package handlers

import (
	"net/http"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/color"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/media"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/notebook"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/onboarding"
)

// SettingsHandler handles display preferences, onboarding and background images.
type SettingsHandler struct {
	store      *notebook.Store
	onboarding *onboarding.Store
	images     *media.Importer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store *notebook.Store, ob *onboarding.Store, images *media.Importer) *SettingsHandler {
	return &SettingsHandler{store: store, onboarding: ob, images: images}
}

// Register adds the settings routes to mux.
func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/settings", h.GetSettings)
	mux.HandleFunc("POST /api/settings/dark-mode/toggle", h.ToggleDarkMode)
	mux.HandleFunc("PATCH /api/settings/home-background", h.UpdateHomeBackground)
	mux.HandleFunc("POST /api/images", h.ImportImage)
	mux.HandleFunc("GET /api/onboarding", h.GetOnboarding)
	mux.HandleFunc("POST /api/onboarding/{step}", h.AdvanceOnboarding)
}

func (h *SettingsHandler) settingsResponse() map[string]interface{} {
	settings := h.store.Settings()
	return map[string]interface{}{
		"darkMode":       settings.DarkMode,
		"homeBackground": settings.HomeBackground,
		"theme":          color.ThemeFor(settings.DarkMode),
		"revision":       h.store.Revision(),
	}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settingsResponse())
}

// ToggleDarkMode handles POST /api/settings/dark-mode/toggle
func (h *SettingsHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ToggleDarkMode(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.settingsResponse())
}

// UpdateHomeBackground handles PATCH /api/settings/home-background.
// Omitted fields are left unchanged; an empty image clears it. The update is
// applied as a whole or not at all.
func (h *SettingsHandler) UpdateHomeBackground(w http.ResponseWriter, r *http.Request) {
	var request models.HomeBackgroundUpdate
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}
	home, err := h.store.UpdateHomeBackground(r.Context(), request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// ImportImage handles POST /api/images with {"path": "..."}.
func (h *SettingsHandler) ImportImage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Path string `json:"path"`
	}
	if err := decodeBody(r, &request); err != nil {
		writeError(w, err)
		return
	}
	img, err := h.images.Import(r.Context(), request.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// GetOnboarding handles GET /api/onboarding
func (h *SettingsHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.onboarding.State())
}

// AdvanceOnboarding handles POST /api/onboarding/{step} for accept-privacy, complete and reset.
func (h *SettingsHandler) AdvanceOnboarding(w http.ResponseWriter, r *http.Request) {
	var err error
	switch r.PathValue("step") {
	case "accept-privacy":
		err = h.onboarding.AcceptPrivacyPolicy(r.Context())
	case "complete":
		err = h.onboarding.CompleteOnboarding(r.Context())
	case "reset":
		err = h.onboarding.Reset(r.Context())
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.onboarding.State())
}
