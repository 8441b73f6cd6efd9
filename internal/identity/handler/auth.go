package handler

import (
	"encoding/json"
	"net/http"

	"reservio/internal/identity/service"
	apperrors "reservio/pkg/errors"
	httputil "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
	"reservio/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  *model.Identity `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Login")
		return
	}

	token, identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err, "Login")
		return
	}

	if err := httputil.WriteSuccess(w, loginResponse{Token: token, User: identity}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), "Profile")
		return
	}

	user, err := h.service.Profile(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, err, "Profile")
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Profile", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error, operation string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/auth/profile", h.Profile)
}
