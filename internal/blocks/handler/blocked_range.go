package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/LewisLovet/opatam-sub005/internal/blocks/service"
	httputil "github.com/LewisLovet/opatam-sub005/pkg/http"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type BlockedRangeHandler struct {
	service service.BlockedRangeService
	log     *logger.Logger
}

func NewBlockedRangeHandler(service service.BlockedRangeService, log *logger.Logger) *BlockedRangeHandler {
	return &BlockedRangeHandler{
		service: service,
		log:     log,
	}
}

func (h *BlockedRangeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var br model.BlockedRange
	if err := json.NewDecoder(r.Body).Decode(&br); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &br); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, br); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BlockedRangeHandler) ListUpcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := strings.TrimSpace(r.URL.Query().Get("provider_id"))

	fromDate := time.Time{}
	if r.URL.Query().Get("from") != "" {
		var err error
		fromDate, err = httputil.ExtractDate(r, "from")
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "ListUpcoming", "error", writeErr)
			}
			return
		}
	}

	ranges, err := h.service.ListUpcoming(r.Context(), providerID, fromDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListUpcoming", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ranges); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUpcoming", "error", err)
	}
}

func (h *BlockedRangeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "error", err)
		}
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlockedRangeHandler) PurgePast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	providerID := strings.TrimSpace(r.URL.Query().Get("provider_id"))

	deleted, err := h.service.PurgePast(r.Context(), providerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PurgePast", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"deleted_count": deleted}); err != nil {
		h.log.Error("failed to write success response", "handler", "PurgePast", "error", err)
	}
}

func (h *BlockedRangeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/blocks", h.Create)
	router.GET("/api/v1/blocks", h.ListUpcoming)
	router.DELETE("/api/v1/blocks/id/:id", h.Delete)
	router.POST("/api/v1/blocks/purge", h.PurgePast)
}
