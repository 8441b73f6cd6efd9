package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"reservio/internal/catalog/service"
	apperrors "reservio/pkg/errors"
	httputil "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
	"reservio/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ObjectHandler struct {
	service service.ObjectService
	log     *logger.Logger
}

func NewObjectHandler(service service.ObjectService, log *logger.Logger) *ObjectHandler {
	return &ObjectHandler{
		service: service,
		log:     log,
	}
}

// requireManager rejects callers without catalog management rights. Returns
// false after writing the error response.
func (h *ObjectHandler) requireManager(w http.ResponseWriter, r *http.Request, operation string) bool {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		h.writeError(w, apperrors.Unauthorized("Authentication required"), operation)
		return false
	}
	if !identity.CanManageObjects() {
		h.writeError(w, apperrors.Forbidden("Managing reservable objects requires admin or manager role"), operation)
		return false
	}
	return true
}

func (h *ObjectHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.requireManager(w, r, "Create") {
		return
	}

	var obj model.ReservableObject
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Create")
		return
	}
	obj.IsActive = true

	if err := h.service.Create(r.Context(), &obj); err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, obj); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ObjectHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	obj, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	if err := httputil.WriteSuccess(w, obj); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ObjectHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	includeInactive := false
	if raw := query.Get("includeInactive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("invalid includeInactive parameter: "+raw), "GetAll")
			return
		}
		includeInactive = parsed
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	objects, total, err := h.service.GetAll(r.Context(), query.Get("type"), includeInactive, limit, offset)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	if err := httputil.WritePaginated(w, objects, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ObjectHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.requireManager(w, r, "Update") {
		return
	}

	var updates model.ObjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid request body"), "Update")
		return
	}

	obj, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}

	if err := httputil.WriteSuccess(w, obj); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ObjectHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.requireManager(w, r, "Delete") {
		return
	}

	if err := h.service.SoftDelete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ObjectHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, apperrors.InvalidInput("Missing search query parameter: q"), "Search")
		return
	}

	objects, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Search")
		return
	}

	if err := httputil.WriteSuccess(w, objects); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func (h *ObjectHandler) writeError(w http.ResponseWriter, err error, operation string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func (h *ObjectHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/objects", h.Create)
	router.GET("/api/v1/objects", h.GetAll)
	router.GET("/api/v1/objects/id/:id", h.GetByID)
	router.PATCH("/api/v1/objects/id/:id", h.Update)
	router.DELETE("/api/v1/objects/id/:id", h.Delete)
	router.GET("/api/v1/objects/search", h.Search)
}
