package handler

import (
	"net/http"

	"reservio/internal/availability/service"
	apperrors "reservio/pkg/errors"
	httputil "reservio/pkg/http"
	"reservio/pkg/logger"

	"github.com/julienschmidt/httprouter"
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

func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	objectID := r.URL.Query().Get("objectId")
	if objectID == "" {
		h.writeError(w, apperrors.InvalidInput("Missing required parameter: objectId"), "Check")
		return
	}

	window, err := httputil.ExtractInterval(r)
	if err != nil {
		h.writeError(w, err, "Check")
		return
	}

	check, err := h.service.Check(r.Context(), objectID, window)
	if err != nil {
		h.writeError(w, err, "Check")
		return
	}

	if err := httputil.WriteSuccess(w, check); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "error", err)
	}
}

func (h *AvailabilityHandler) Query(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	window, err := httputil.ExtractInterval(r)
	if err != nil {
		h.writeError(w, err, "Query")
		return
	}

	query := r.URL.Query()
	slots, err := h.service.Query(r.Context(), window, query.Get("type"), query.Get("objectId"))
	if err != nil {
		h.writeError(w, err, "Query")
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Query", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error, operation string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Query)
	router.GET("/api/v1/availability/check", h.Check)
}
