package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/lkaminski/matchday-stats-service/internal/service"
	"github.com/lkaminski/matchday-stats-service/pkg/response"
)

type GameHandler struct {
	svc    service.GameService
	clocks service.ClockService
}

func NewGameHandler(svc service.GameService, clocks service.ClockService) *GameHandler {
	return &GameHandler{svc: svc, clocks: clocks}
}

func (h *GameHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("", h.list)
	}
}

type createGameRequest struct {
	Opponent        string `json:"opponent"`
	Location        string `json:"location"`
	KickoffAt       string `json:"kickoff_at"` // RFC3339
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

// gameWithClock decorates a stored game with its derived clock state so
// list and detail views render running time without extra round trips.
type gameWithClock struct {
	model.Game
	Clock *service.GameClock `json:"clock,omitempty"`
}

func (h *GameHandler) create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	kickoff, err := time.Parse(time.RFC3339, req.KickoffAt)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "kickoff_at", Message: "must be a valid RFC 3339 timestamp"}}))
		return
	}
	game, err := h.svc.CreateGame(c.Request.Context(), req.Opponent, req.Location, kickoff, req.DurationMinutes, req.Status)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, game)
}

func (h *GameHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	game, err := h.svc.GetGame(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	clocks, err := h.clocks.GameClockBatch(c.Request.Context(), []int64{game.ID})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := gameWithClock{Game: game}
	if clock, ok := clocks[game.ID]; ok {
		out.Clock = &clock
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *GameHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.ListGames(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ids := make([]int64, 0, len(res.Items))
	for _, g := range res.Items {
		ids = append(ids, g.ID)
	}
	clocks, err := h.clocks.GameClockBatch(c.Request.Context(), ids)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	items := make([]gameWithClock, 0, len(res.Items))
	for _, g := range res.Items {
		item := gameWithClock{Game: g}
		if clock, ok := clocks[g.ID]; ok {
			item.Clock = &clock
		}
		items = append(items, item)
	}
	response.WriteData(c, http.StatusOK, repository.PageResult[gameWithClock]{
		Items: items,
		Total: res.Total,
	})
}
