package handler

import (
	"net/http"
	"time"

	"dialoom/internal/bookings/service"
	"dialoom/pkg/auth"
	apperrors "dialoom/pkg/errors"
	httputil "dialoom/pkg/http"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"

	"github.com/julienschmidt/httprouter"
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

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requester, ok := h.requester(w, r, "Create")
	if !ok {
		return
	}

	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}
	req.GuestID = requester.UserID

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requester, ok := h.requester(w, r, "List")
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	role := model.ParticipantRole(r.URL.Query().Get("role"))

	bookings, totalCount, err := h.service.ListForUser(r.Context(), requester.UserID, role, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requester, ok := h.requester(w, r, "GetByID")
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), requester, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requester, ok := h.requester(w, r, "Cancel")
	if !ok {
		return
	}

	var req model.CancelRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), requester, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requester, ok := h.requester(w, r, "Complete")
	if !ok {
		return
	}

	booking, err := h.service.Complete(r.Context(), requester, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

// BusySlots lists a host's occupied intervals between from and to (RFC3339).
func (h *BookingHandler) BusySlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	from, err := parseInstant(query.Get("from"), "from")
	if err != nil {
		h.writeError(w, "BusySlots", err)
		return
	}
	to, err := parseInstant(query.Get("to"), "to")
	if err != nil {
		h.writeError(w, "BusySlots", err)
		return
	}

	slots, err := h.service.BusySlots(r.Context(), ps.ByName("id"), from, to)
	if err != nil {
		h.writeError(w, "BusySlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "BusySlots", "operation", "WriteSuccess", "error", err)
	}
}

func parseInstant(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.InvalidInput("missing " + name + " parameter")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter: expected RFC3339 timestamp")
	}
	return t, nil
}

func (h *BookingHandler) requester(w http.ResponseWriter, r *http.Request, handler string) (model.Requester, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, handler, apperrors.Unauthorized("authentication required"))
		return model.Requester{}, false
	}
	return model.Requester{UserID: userID}, true
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", h.List)
	router.GET("/api/bookings/id/:id", h.GetByID)
	router.POST("/api/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/bookings/id/:id/complete", h.Complete)
	router.GET("/api/hosts/:id/busy", h.BusySlots)
}
