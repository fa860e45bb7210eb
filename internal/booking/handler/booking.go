package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"slotbook/internal/booking/service"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/httputil"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service      service.BookingService
	log          *logger.Logger
	cacheSeconds int
}

func NewBookingHandler(service service.BookingService, log *logger.Logger, cacheSeconds int) *BookingHandler {
	return &BookingHandler{
		service:      service,
		log:          log,
		cacheSeconds: cacheSeconds,
	}
}

// Slots serves the day availability view. Successful responses are safe to
// cache briefly at the edge; bookings made in the window surface on the
// next revalidation.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.writeSlotsError(w, http.StatusBadRequest, date, "The 'date' query parameter is required")
		return
	}

	day, err := h.service.AvailableSlots(r.Context(), date)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		h.writeSlotsError(w, appErr.StatusCode(), date, appErr.Message)
		return
	}

	if h.cacheSeconds > 0 {
		w.Header().Set("Cache-Control",
			fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", h.cacheSeconds, h.cacheSeconds*2))
	}
	if err := httputil.WriteJSON(w, http.StatusOK, day); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Slots", "operation", "WriteJSON", "error", err)
	}
}

// writeSlotsError keeps the response shape identical to the success case so
// clients always parse the same structure.
func (h *BookingHandler) writeSlotsError(w http.ResponseWriter, status int, date, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	day := model.DayAvailability{
		Date:  date,
		Slots: []string{},
		Error: message,
	}
	if err := httputil.WriteJSON(w, status, day); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Slots", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if _, err := h.service.Reserve(r.Context(), &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	slot := ps.ByName("time")

	booking, err := h.service.GetBooking(r.Context(), date, slot)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	slot := ps.ByName("time")

	if err := h.service.Cancel(r.Context(), date, slot); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.Slots)
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:date/:time", h.Get)
	router.DELETE("/api/v1/bookings/:date/:time", h.Delete)
}
