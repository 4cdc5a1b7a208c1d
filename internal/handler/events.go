package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/service"
	"github.com/lkaminski/matchday-stats-service/pkg/response"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) Register(r *gin.RouterGroup) {
	r.Group("/game-teams").POST("/:id/events", h.record)
	r.Group("/events").PATCH("/:id/position", h.correctPosition)
}

func (h *EventHandler) record(c *gin.Context) {
	gameTeamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}

	var in service.RecordEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	in.GameTeamID = gameTeamID
	// Accepted from the body or as ?force=1; either source overrides.
	in.Force = in.Force || parseBoolQuery(c.Query("force"))

	res, err := h.svc.RecordEvent(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	// Rejected candidates surface the guard's evidence so the recorder
	// can resolve the window by hand (or retry with ?force=1).
	if res.Event == nil {
		switch res.Classification.Verdict {
		case engine.VerdictDuplicate, engine.VerdictConflict:
			response.WriteData(c, http.StatusConflict, res)
			return
		}
	}
	response.WriteData(c, http.StatusCreated, res)
}

type correctPositionRequest struct {
	Position string `json:"position"`
}

func (h *EventHandler) correctPosition(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	var req correctPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.CorrectPosition(c.Request.Context(), eventID, req.Position); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
