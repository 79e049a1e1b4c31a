package handler

import (
	"net/http"

	"staybook/internal/calendars/service"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ExportHandler struct {
	service service.ExportService
	log     *logger.Logger
}

func NewExportHandler(service service.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		log:     log,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doc, err := h.service.Export(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(h.log, w, "Export", err)
		return
	}
	h.writeCalendar(w, "Export", doc)
}

func (h *ExportHandler) FeedToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	token, err := h.service.FeedToken(r.Context(), id)
	if err != nil {
		writeError(h.log, w, "FeedToken", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{
		"token": token,
		"url":   "/api/v1/feeds/" + token,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "FeedToken", "operation", "WriteSuccess", "error", err)
	}
}

// Feed serves the export behind an opaque token so it can be subscribed to
// from other platforms.
func (h *ExportHandler) Feed(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doc, err := h.service.ExportByToken(r.Context(), ps.ByName("token"))
	if err != nil {
		writeError(h.log, w, "Feed", err)
		return
	}
	h.writeCalendar(w, "Feed", doc)
}

func (h *ExportHandler) writeCalendar(w http.ResponseWriter, handler string, doc *service.CalendarDocument) {
	if err := httputil.WriteCalendar(w, doc.Filename, doc.Body); err != nil {
		h.log.Error("failed to write calendar response", "handler", handler, "operation", "WriteCalendar", "error", err)
	}
}

func (h *ExportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties/id/:id/ical", h.Export)
	router.GET("/api/v1/properties/id/:id/ical/token", h.FeedToken)
	router.GET("/api/v1/feeds/:token", h.Feed)
}
