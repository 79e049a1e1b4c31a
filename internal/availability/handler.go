package availability

import (
	"net/http"

	httputil "staybook/pkg/http"
	"staybook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rng, err := httputil.ExtractDateRange(r)
	if err != nil {
		h.writeError(w, "Check", err)
		return
	}

	result, err := h.service.Check(r.Context(), ps.ByName("id"), rng)
	if err != nil {
		h.writeError(w, "Check", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) BookedDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ranges, err := h.service.BookedDates(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "BookedDates", err)
		return
	}

	if err := httputil.WriteSuccess(w, ranges); err != nil {
		h.log.Error("failed to write success response", "handler", "BookedDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties/id/:id/availability", h.Check)
	router.GET("/api/v1/properties/id/:id/booked-dates", h.BookedDates)
}
