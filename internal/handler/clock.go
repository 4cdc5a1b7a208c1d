package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lkaminski/matchday-stats-service/internal/service"
	"github.com/lkaminski/matchday-stats-service/pkg/response"
)

// ClockHandler exposes the derived game clock. Nothing here is stored;
// every answer is recomputed from the event log on read.
type ClockHandler struct {
	svc service.ClockService
}

func NewClockHandler(svc service.ClockService) *ClockHandler { return &ClockHandler{svc: svc} }

func (h *ClockHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games")
	{
		g.GET("/:id/clock", h.getClock)
		g.GET("/:id/period", h.getPeriod)
	}
}

func (h *ClockHandler) getClock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	clock, err := h.svc.GameClock(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, clock)
}

func (h *ClockHandler) getPeriod(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	periods, err := h.svc.PeriodInfo(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, periods)
}
