package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/LewisLovet/opatam-sub005/internal/bookings/service"
	httputil "github.com/LewisLovet/opatam-sub005/pkg/http"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type createBookingResponse struct {
	Booking     *model.Booking `json:"booking"`
	CancelToken string         `json:"cancel_token,omitempty"`
}

type cancelRequest struct {
	Actor  string `json:"actor,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type cancelByTokenRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason,omitempty"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, cancelToken, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, createBookingResponse{
		Booking:     booking,
		CancelToken: cancelToken,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key := model.ScheduleKey{
		ProviderID: r.URL.Query().Get("provider_id"),
		LocationID: r.URL.Query().Get("location_id"),
		MemberID:   r.URL.Query().Get("member_id"),
	}

	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	bookings, err := h.service.ListForMemberOnDate(r.Context(), key, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.applyTransition(w, r, ps, "Confirm", h.service.Confirm)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.applyTransition(w, r, ps, "Complete", h.service.Complete)
}

func (h *BookingHandler) NoShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.applyTransition(w, r, ps, "NoShow", h.service.MarkNoShow)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req cancelRequest
	if r.Body != nil {
		// Body is optional for provider-initiated cancellations.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Actor == "" {
		req.Actor = model.ActorProvider
	}

	if err := h.service.Cancel(r.Context(), ps.ByName("id"), req.Actor, req.Reason); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// CancelByToken is unauthenticated; the sealed token is the credential.
func (h *BookingHandler) CancelByToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelByTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CancelByToken", "error", writeErr)
		}
		return
	}

	if err := h.service.CancelByToken(r.Context(), req.Token, req.Reason); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelByToken", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) applyTransition(w http.ResponseWriter, r *http.Request, ps httprouter.Params, name string, apply func(ctx context.Context, id string) error) {
	if err := apply(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
	router.POST("/api/v1/bookings/id/:id/noshow", h.NoShow)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/cancel", h.CancelByToken)
}
