package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"staybook/internal/calendars/service"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Syncer runs feed imports on demand.
type Syncer interface {
	SyncByID(ctx context.Context, id string) (model.SyncResult, error)
	SyncAll(ctx context.Context) ([]model.CalendarSyncSummary, error)
}

type ExternalCalendarHandler struct {
	service service.ExternalCalendarService
	syncer  Syncer
	log     *logger.Logger
}

func NewExternalCalendarHandler(service service.ExternalCalendarService, syncer Syncer, log *logger.Logger) *ExternalCalendarHandler {
	return &ExternalCalendarHandler{
		service: service,
		syncer:  syncer,
		log:     log,
	}
}

func (h *ExternalCalendarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	calendar := model.ExternalCalendar{IsActive: true}
	if err := json.NewDecoder(r.Body).Decode(&calendar); err != nil {
		writeBadBody(h.log, w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), &calendar); err != nil {
		writeError(h.log, w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, calendar); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ExternalCalendarHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	calendar, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(h.log, w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalCalendarHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		writeError(h.log, w, "GetAll", err)
		return
	}

	calendars, total, err := h.service.GetAll(r.Context(), r.URL.Query().Get("property_id"), limit, offset)
	if err != nil {
		writeError(h.log, w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, calendars, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ExternalCalendarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ExternalCalendarUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeBadBody(h.log, w, "Update")
		return
	}

	calendar, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		writeError(h.log, w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalCalendarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		writeError(h.log, w, "Delete", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no content response", "handler", "Delete", "operation", "WriteNoContent", "error", err)
	}
}

// Sync imports one calendar now and returns the import result. A feed that
// could not be fetched or parsed still answers 200 with success false.
func (h *ExternalCalendarHandler) Sync(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.syncer.SyncByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(h.log, w, "Sync", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Sync", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalCalendarHandler) SyncAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summaries, err := h.syncer.SyncAll(r.Context())
	if err != nil {
		writeError(h.log, w, "SyncAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.NewSyncAllResult(summaries)); err != nil {
		h.log.Error("failed to write success response", "handler", "SyncAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalCalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/external-calendars", h.Create)
	router.GET("/api/v1/external-calendars", h.GetAll)
	router.GET("/api/v1/external-calendars/id/:id", h.GetByID)
	router.PATCH("/api/v1/external-calendars/id/:id", h.Update)
	router.DELETE("/api/v1/external-calendars/id/:id", h.Delete)
	router.POST("/api/v1/external-calendars/id/:id/sync", h.Sync)
	router.POST("/api/v1/calendars/sync-all", h.SyncAll)
}
