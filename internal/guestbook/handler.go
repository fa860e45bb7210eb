package guestbook

import (
	"encoding/json"
	"net/http"

	"slotbook/pkg/httputil"
	"slotbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type GuestbookHandler struct {
	service GuestbookService
	log     *logger.Logger
}

func NewGuestbookHandler(service GuestbookService, log *logger.Logger) *GuestbookHandler {
	return &GuestbookHandler{
		service: service,
		log:     log,
	}
}

func (h *GuestbookHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GuestbookHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Add", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	entry, err := h.service.Add(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *GuestbookHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Remove(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Remove", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GuestbookHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/guestbook", h.List)
	router.POST("/api/v1/guestbook", h.Add)
	router.DELETE("/api/v1/guestbook/:id", h.Remove)
}
