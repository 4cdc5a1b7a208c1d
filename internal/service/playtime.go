package service

import (
	"context"
	"errors"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type playerTimeService struct {
	events    repository.EventLogRepository
	games     repository.GameRepository
	gameTeams repository.GameTeamRepository
	eng       *engine.Engine
	types     *engine.TypeCache
	now       NowFunc
	log       zerolog.Logger
}

func NewPlayerTimeService(events repository.EventLogRepository, games repository.GameRepository, gameTeams repository.GameTeamRepository, eng *engine.Engine, types *engine.TypeCache, now NowFunc, logger zerolog.Logger) PlayerTimeService {
	l := logger.With().Str("module", "service").Str("component", "playtime").Logger()
	return &playerTimeService{events: events, games: games, gameTeams: gameTeams, eng: eng, types: types, now: now, log: l}
}

// GamePlayerTime aggregates one game team's events into per-player stats.
// Open spans close at the clock reconstructor's elapsed figure for the
// enclosing game, never at this caller's own idea of "now", so the stats
// table and the live clock can't drift apart.
func (s *playerTimeService) GamePlayerTime(ctx context.Context, gameTeamID int64) ([]model.PlayerAggregateStats, error) {
	if gameTeamID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "game_team_id", Message: "must be > 0"}})
	}

	gameTeam, err := s.gameTeams.GetByID(ctx, gameTeamID)
	if err != nil {
		return nil, err
	}
	game, err := s.games.GetByID(ctx, gameTeam.GameID)
	if err != nil {
		return nil, err
	}

	clockEvents, err := s.events.Query(ctx, repository.EventFilter{
		GameIDs:      []int64{game.ID},
		EventTypeIDs: s.types.IDsByName(engine.ClockTypeNames()...),
	})
	if err != nil {
		return nil, err
	}
	timing, err := s.eng.ComputeTiming(clockEvents)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	nowElapsed := engine.ElapsedSeconds(timing, game.DurationMinutes, s.now())

	evs, err := s.events.Query(ctx, repository.EventFilter{GameTeamID: gameTeamID})
	if err != nil {
		return nil, err
	}
	stats, err := s.eng.AggregatePlayerTime(evs, nowElapsed)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	return stats, nil
}

// SeasonPlayerTime merges every game team of a roster team into career
// stats. The whole answer costs two event log reads: one for all lineup and
// scoring events across the team's games, one batch clock read to close any
// span left open by a game still in progress.
func (s *playerTimeService) SeasonPlayerTime(ctx context.Context, teamID int64) ([]model.PlayerAggregateStats, error) {
	if teamID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "must be > 0"}})
	}

	gameTeams, err := s.gameTeams.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(gameTeams) == 0 {
		return []model.PlayerAggregateStats{}, nil
	}

	gameIDs := make([]int64, 0, len(gameTeams))
	gameByGameTeam := make(map[int64]int64, len(gameTeams))
	ours := make(map[int64]struct{}, len(gameTeams))
	for _, gt := range gameTeams {
		gameIDs = append(gameIDs, gt.GameID)
		gameByGameTeam[gt.ID] = gt.GameID
		ours[gt.ID] = struct{}{}
	}

	games, err := s.games.ListByIDs(ctx, dedupe(gameIDs))
	if err != nil {
		return nil, err
	}
	durations := make(map[int64]int, len(games))
	for _, g := range games {
		durations[g.ID] = g.DurationMinutes
	}

	clockEvents, err := s.events.Query(ctx, repository.EventFilter{
		GameIDs:      dedupe(gameIDs),
		EventTypeIDs: s.types.IDsByName(engine.ClockTypeNames()...),
	})
	if err != nil {
		return nil, err
	}
	clockByGame := make(map[int64][]model.GameEvent)
	for _, ev := range clockEvents {
		clockByGame[ev.GameID] = append(clockByGame[ev.GameID], ev)
	}

	evs, err := s.events.Query(ctx, repository.EventFilter{GameIDs: dedupe(gameIDs)})
	if err != nil {
		return nil, err
	}
	byGameTeam := make(map[int64][]model.GameEvent)
	for _, ev := range evs {
		// The query spans whole games; opponents recording into the same
		// game stay out of this team's totals.
		if _, ok := ours[ev.GameTeamID]; !ok {
			continue
		}
		byGameTeam[ev.GameTeamID] = append(byGameTeam[ev.GameTeamID], ev)
	}

	now := s.now()
	nowElapsed := make(map[int64]int, len(gameTeams))
	for gameTeamID, gameID := range gameByGameTeam {
		timing, err := s.eng.ComputeTiming(clockByGame[gameID])
		if err != nil {
			return nil, mapEngineErr(err)
		}
		nowElapsed[gameTeamID] = engine.ElapsedSeconds(timing, durations[gameID], now)
	}

	stats, err := s.eng.AggregateAcrossGames(byGameTeam, nowElapsed)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	return stats, nil
}

func mapEngineErr(err error) error {
	if errors.Is(err, engine.ErrNoEventTypes) {
		return ErrTimingUnavailable
	}
	return err
}
