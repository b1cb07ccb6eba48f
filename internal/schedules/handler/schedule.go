package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/LewisLovet/opatam-sub005/internal/schedules/service"
	httputil "github.com/LewisLovet/opatam-sub005/pkg/http"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

func keyFromQuery(r *http.Request) model.ScheduleKey {
	query := r.URL.Query()
	return model.ScheduleKey{
		ProviderID: query.Get("provider_id"),
		LocationID: query.Get("location_id"),
		MemberID:   query.Get("member_id"),
	}
}

func (h *ScheduleHandler) SetImmediate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry model.WeeklyScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetImmediate", "error", writeErr)
		}
		return
	}

	if err := h.service.SetImmediate(r.Context(), &entry); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetImmediate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entry); err != nil {
		h.log.Error("failed to write success response", "handler", "SetImmediate", "error", err)
	}
}

func (h *ScheduleHandler) ScheduleChange(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry model.WeeklyScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ScheduleChange", "error", writeErr)
		}
		return
	}

	if err := h.service.ScheduleChange(r.Context(), &entry); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ScheduleChange", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "ScheduleChange", "error", err)
	}
}

func (h *ScheduleHandler) GetWeekly(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.service.GetWeekly(r.Context(), keyFromQuery(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWeekly", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWeekly", "error", err)
	}
}

func (h *ScheduleHandler) GetEffective(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	onDate, err := httputil.ExtractDate(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetEffective", "error", writeErr)
		}
		return
	}

	entry, err := h.service.GetEffective(r.Context(), keyFromQuery(r), onDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetEffective", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entry); err != nil {
		h.log.Error("failed to write success response", "handler", "GetEffective", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/schedules", h.SetImmediate)
	router.POST("/api/v1/schedules/changes", h.ScheduleChange)
	router.GET("/api/v1/schedules", h.GetWeekly)
	router.GET("/api/v1/schedules/effective", h.GetEffective)
}
