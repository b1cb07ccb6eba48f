package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/LewisLovet/opatam-sub005/internal/providers/service"
	httputil "github.com/LewisLovet/opatam-sub005/pkg/http"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type ProviderSettingsHandler struct {
	service service.ProviderSettingsService
	log     *logger.Logger
}

func NewProviderSettingsHandler(service service.ProviderSettingsService, log *logger.Logger) *ProviderSettingsHandler {
	return &ProviderSettingsHandler{
		service: service,
		log:     log,
	}
}

func (h *ProviderSettingsHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := ps.ByName("id")

	settings, err := h.service.Get(r.Context(), providerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *ProviderSettingsHandler) Upsert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var settings model.ProviderSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Upsert", "error", writeErr)
		}
		return
	}
	settings.ProviderID = ps.ByName("id")

	if err := h.service.Upsert(r.Context(), &settings); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upsert", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "Upsert", "error", err)
	}
}

func (h *ProviderSettingsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/providers/id/:id/settings", h.Get)
	router.PUT("/api/v1/providers/id/:id/settings", h.Upsert)
}
