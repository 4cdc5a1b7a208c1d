package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lkaminski/matchday-stats-service/internal/service"
	"github.com/lkaminski/matchday-stats-service/pkg/response"
)

type PlayerTimeHandler struct {
	svc service.PlayerTimeService
}

func NewPlayerTimeHandler(svc service.PlayerTimeService) *PlayerTimeHandler {
	return &PlayerTimeHandler{svc: svc}
}

func (h *PlayerTimeHandler) Register(r *gin.RouterGroup) {
	r.Group("/game-teams").GET("/:id/player-time", h.gamePlayerTime)
	// Reuses the team wildcard name established by the teams group.
	r.Group("/teams").GET("/:team_id/player-time", h.seasonPlayerTime)
}

func (h *PlayerTimeHandler) gamePlayerTime(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	stats, err := h.svc.GamePlayerTime(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stats)
}

func (h *PlayerTimeHandler) seasonPlayerTime(c *gin.Context) {
	idStr := strings.TrimSpace(c.Param("team_id"))
	teamID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "team_id", Message: "must be a valid integer"}}))
		return
	}
	stats, err := h.svc.SeasonPlayerTime(c.Request.Context(), teamID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stats)
}
