package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/calendars/service"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlockedDateHandler struct {
	service service.BlockedDateService
	log     *logger.Logger
}

func NewBlockedDateHandler(service service.BlockedDateService, log *logger.Logger) *BlockedDateHandler {
	return &BlockedDateHandler{
		service: service,
		log:     log,
	}
}

func (h *BlockedDateHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var block model.BlockedDate
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		writeBadBody(h.log, w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), &block); err != nil {
		writeError(h.log, w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, block); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlockedDateHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	block, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(h.log, w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, block); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockedDateHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		writeError(h.log, w, "GetAll", err)
		return
	}

	blocks, total, err := h.service.GetAll(r.Context(), r.URL.Query().Get("property_id"), limit, offset)
	if err != nil {
		writeError(h.log, w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, blocks, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BlockedDateHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BlockedDateUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeBadBody(h.log, w, "Update")
		return
	}

	block, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		writeError(h.log, w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, block); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockedDateHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		writeError(h.log, w, "Delete", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no content response", "handler", "Delete", "operation", "WriteNoContent", "error", err)
	}
}

func (h *BlockedDateHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/blocked-dates", h.Create)
	router.GET("/api/v1/blocked-dates", h.GetAll)
	router.GET("/api/v1/blocked-dates/id/:id", h.GetByID)
	router.PATCH("/api/v1/blocked-dates/id/:id", h.Update)
	router.DELETE("/api/v1/blocked-dates/id/:id", h.Delete)
}
