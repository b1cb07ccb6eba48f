package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/LewisLovet/opatam-sub005/internal/availability/service"
	httputil "github.com/LewisLovet/opatam-sub005/pkg/http"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) FreeSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FreeSlots", "error", writeErr)
		}
		return
	}

	durationMin, err := httputil.ExtractInt(r, "duration_min", 0)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FreeSlots", "error", writeErr)
		}
		return
	}

	bufferMin, err := httputil.ExtractInt(r, "buffer_min", 0)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FreeSlots", "error", writeErr)
		}
		return
	}

	query := &model.SlotQuery{
		ProviderID:  r.URL.Query().Get("provider_id"),
		LocationID:  r.URL.Query().Get("location_id"),
		MemberID:    r.URL.Query().Get("member_id"),
		ServiceID:   r.URL.Query().Get("service_id"),
		Date:        date,
		DurationMin: durationMin,
		BufferMin:   bufferMin,
	}

	slots, err := h.service.FreeSlots(r.Context(), query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "FreeSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "FreeSlots", "error", err)
	}
}

func (h *AvailabilityHandler) DetectConflicts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var proposal service.ScheduleChangeProposal
	if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "DetectConflicts", "error", writeErr)
		}
		return
	}

	conflicts, err := h.service.DetectScheduleConflicts(r.Context(), &proposal)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DetectConflicts", "error", writeErr)
		}
		return
	}

	if conflicts == nil {
		conflicts = []model.Conflict{}
	}
	if err := httputil.WriteSuccess(w, conflicts); err != nil {
		h.log.Error("failed to write success response", "handler", "DetectConflicts", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/slots", h.FreeSlots)
	router.POST("/api/v1/availability/conflicts", h.DetectConflicts)
}
