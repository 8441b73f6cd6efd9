package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"reservio/internal/reservations/service"
	apperrors "reservio/pkg/errors"
	httputil "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
	"reservio/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

// createRequest is the create payload. userId is optional; admins and
// managers may reserve on another user's behalf.
type createRequest struct {
	model.ReservationCreate
	UserID string `json:"userId,omitempty"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := h.requireIdentity(w, r, "Create")
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Create")
		return
	}

	userID := identity.UserID
	if req.UserID != "" && req.UserID != identity.UserID {
		if !identity.CanActFor(req.UserID) {
			h.writeError(w, apperrors.Forbidden("Cannot create reservations for another user"), "Create")
			return
		}
		userID = req.UserID
	}

	reservation, err := h.service.Create(r.Context(), userID, &req.ReservationCreate)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r, "GetByID")
	if !ok {
		return
	}

	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}
	if !identity.CanActFor(reservation.UserID) {
		h.writeError(w, apperrors.Forbidden("Cannot view another user's reservation"), "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ReservationHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r, "GetByUser")
	if !ok {
		return
	}

	userID := ps.ByName("id")
	if !identity.CanActFor(userID) {
		h.writeError(w, apperrors.Forbidden("Cannot list another user's reservations"), "GetByUser")
		return
	}

	includeInactive, err := parseIncludeInactive(r)
	if err != nil {
		h.writeError(w, err, "GetByUser")
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetByUser")
		return
	}

	reservations, total, err := h.service.GetByUser(r.Context(), userID, includeInactive, limit, offset)
	if err != nil {
		h.writeError(w, err, "GetByUser")
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByUser", "error", err)
	}
}

func (h *ReservationHandler) GetByObject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := h.requireIdentity(w, r, "GetByObject"); !ok {
		return
	}

	window, hasWindow, err := httputil.ExtractOptionalInterval(r)
	if err != nil {
		h.writeError(w, err, "GetByObject")
		return
	}
	var windowPtr *model.Interval
	if hasWindow {
		windowPtr = &window
	}

	includeInactive, err := parseIncludeInactive(r)
	if err != nil {
		h.writeError(w, err, "GetByObject")
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetByObject")
		return
	}

	reservations, total, err := h.service.GetByObject(r.Context(), ps.ByName("id"), windowPtr, includeInactive, limit, offset)
	if err != nil {
		h.writeError(w, err, "GetByObject")
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByObject", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r, "Update")
	if !ok {
		return
	}
	id := ps.ByName("id")

	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}
	if !identity.CanActFor(existing.UserID) {
		h.writeError(w, apperrors.Forbidden("Cannot modify another user's reservation"), "Update")
		return
	}

	var updates model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Update")
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := h.requireIdentity(w, r, "Cancel")
	if !ok {
		return
	}
	id := ps.ByName("id")

	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}
	if !identity.CanActFor(existing.UserID) {
		h.writeError(w, apperrors.Forbidden("Cannot cancel another user's reservation"), "Cancel")
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}

	if err := httputil.WriteSuccess(w, cancelled); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *ReservationHandler) requireIdentity(w http.ResponseWriter, r *http.Request, operation string) (*model.Identity, bool) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), operation)
		return nil, false
	}
	return identity, true
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, err error, operation string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func parseIncludeInactive(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("includeInactive")
	if raw == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.InvalidInput("invalid includeInactive parameter: " + raw)
	}
	return parsed, nil
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Update)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.GET("/api/v1/reservations/user/:id", h.GetByUser)
	router.GET("/api/v1/reservations/object/:id", h.GetByObject)
}
