package handler

import (
	"net/http"

	"dialoom/internal/users/service"
	"dialoom/pkg/auth"
	apperrors "dialoom/pkg/errors"
	httputil "dialoom/pkg/http"
	"dialoom/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, "Me", apperrors.Unauthorized("authentication required"))
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetHost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile, err := h.service.GetHostProfile(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetHost", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetHost", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/users/me", h.Me)
	router.GET("/api/hosts/:id", h.GetHost)
}
