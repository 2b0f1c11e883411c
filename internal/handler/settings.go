package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/choreboard/choreboard/internal/store"
	"github.com/choreboard/choreboard/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	ledger   *store.LedgerStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, ls *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, ledger: ls, hub: hub, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get()
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	settings, err := h.settings.Update(patch)
	if err != nil {
		h.logger.Error("update settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("settings", "updated", ""))
	}
	writeJSON(w, http.StatusOK, settings)
}

// Export serves the ledger document verbatim as a download.
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.ledger.Export()
	if err != nil {
		h.logger.Error("export ledger", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export data"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="choreboard-data.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
