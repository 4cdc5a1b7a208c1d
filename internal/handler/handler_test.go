package handler_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lkaminski/matchday-stats-service/internal/handler"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/lkaminski/matchday-stats-service/internal/service"
)

// Shared stubs for handler tests. Each test wires only the service it
// exercises; the rest stay nil because Register never calls into them.

type stubPinger struct{ err error }

func (s stubPinger) Ping(_ context.Context) error { return s.err }

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

// stubTeamService lets us control each method outcome.
type stubTeamService struct {
	create struct {
		team model.Team
		err  error
	}
	get struct {
		team model.Team
		err  error
	}
	list struct {
		res repository.PageResult[model.Team]
		err error
	}
}

func (s *stubTeamService) CreateTeam(_ context.Context, _ string) (model.Team, error) {
	return s.create.team, s.create.err
}
func (s *stubTeamService) GetTeam(_ context.Context, _ int64) (model.Team, error) {
	return s.get.team, s.get.err
}
func (s *stubTeamService) ListTeams(_ context.Context, _ repository.Page) (repository.PageResult[model.Team], error) {
	return s.list.res, s.list.err
}

type stubGameService struct {
	create struct {
		game model.Game
		err  error
	}
	get struct {
		game model.Game
		err  error
	}
	list struct {
		res repository.PageResult[model.Game]
		err error
	}
}

func (s *stubGameService) CreateGame(_ context.Context, _, _ string, _ time.Time, _ int, _ string) (model.Game, error) {
	return s.create.game, s.create.err
}
func (s *stubGameService) GetGame(_ context.Context, _ int64) (model.Game, error) {
	return s.get.game, s.get.err
}
func (s *stubGameService) ListGames(_ context.Context, _ repository.Page) (repository.PageResult[model.Game], error) {
	return s.list.res, s.list.err
}

type stubClockService struct {
	clock     service.GameClock
	clockErr  error
	batch     map[int64]service.GameClock
	batchErr  error
	period    model.PeriodTiming
	periodErr error
}

func (s *stubClockService) GameClock(_ context.Context, _ int64) (service.GameClock, error) {
	return s.clock, s.clockErr
}
func (s *stubClockService) GameClockBatch(_ context.Context, _ []int64) (map[int64]service.GameClock, error) {
	return s.batch, s.batchErr
}
func (s *stubClockService) PeriodInfo(_ context.Context, _ int64) (model.PeriodTiming, error) {
	return s.period, s.periodErr
}

type stubPlayerTimeService struct {
	game      []model.PlayerAggregateStats
	gameErr   error
	season    []model.PlayerAggregateStats
	seasonErr error
}

func (s *stubPlayerTimeService) GamePlayerTime(_ context.Context, _ int64) ([]model.PlayerAggregateStats, error) {
	return s.game, s.gameErr
}
func (s *stubPlayerTimeService) SeasonPlayerTime(_ context.Context, _ int64) ([]model.PlayerAggregateStats, error) {
	return s.season, s.seasonErr
}

type stubEventService struct {
	res          service.RecordEventResult
	err          error
	lastIn       service.RecordEventInput
	correctErr   error
	lastEventID  int64
	lastPosition string
}

func (s *stubEventService) RecordEvent(_ context.Context, in service.RecordEventInput) (service.RecordEventResult, error) {
	s.lastIn = in
	return s.res, s.err
}
func (s *stubEventService) CorrectPosition(_ context.Context, eventID int64, position string) error {
	s.lastEventID = eventID
	s.lastPosition = position
	return s.correctErr
}

type routerDeps struct {
	pinger   handler.Pinger
	teams    service.TeamService
	players  service.PlayerService
	games    service.GameService
	clocks   service.ClockService
	playtime service.PlayerTimeService
	events   service.EventService
}

func newTestRouter(d routerDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if d.pinger == nil {
		d.pinger = stubPinger{}
	}
	r := gin.New()
	handler.Register(r, d.pinger, d.teams, d.players, d.games, d.clocks, d.playtime, d.events)
	return r
}
