package service

import (
	"context"
	"errors"
	"sort"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type clockService struct {
	events repository.EventLogRepository
	games  repository.GameRepository
	eng    *engine.Engine
	types  *engine.TypeCache
	now    NowFunc
	log    zerolog.Logger
}

func NewClockService(events repository.EventLogRepository, games repository.GameRepository, eng *engine.Engine, types *engine.TypeCache, now NowFunc, logger zerolog.Logger) ClockService {
	l := logger.With().Str("module", "service").Str("component", "clock").Logger()
	return &clockService{events: events, games: games, eng: eng, types: types, now: now, log: l}
}

func (s *clockService) GameClock(ctx context.Context, gameID int64) (GameClock, error) {
	if gameID <= 0 {
		return GameClock{}, NewInvalidInputError([]FieldError{{Field: "game_id", Message: "must be > 0"}})
	}
	// The batch path skips unknown ids so a list page stays renderable; an
	// explicit single-game reference must surface a missing game instead.
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		return GameClock{}, err
	}
	clocks, err := s.GameClockBatch(ctx, []int64{gameID})
	if err != nil {
		return GameClock{}, err
	}
	return clocks[gameID], nil
}

// GameClockBatch computes every requested game's clock from one event log
// read. The log is filtered to clock-category types across all game ids and
// grouped client-side; the round trip count stays one no matter how many
// games a list page shows.
func (s *clockService) GameClockBatch(ctx context.Context, gameIDs []int64) (map[int64]GameClock, error) {
	out := make(map[int64]GameClock, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, nil
	}

	// Configuration degradation: with no reference data the rest of the
	// read path (listing games) must still work, so every game reports an
	// empty clock instead of the whole page failing.
	if s.types.Empty() {
		s.log.Warn().Msg("event type cache is empty; returning empty game clocks")
		for _, id := range gameIDs {
			out[id] = GameClock{GameID: id}
		}
		return out, nil
	}

	games, err := s.games.ListByIDs(ctx, dedupe(gameIDs))
	if err != nil {
		return nil, err
	}
	durations := make(map[int64]int, len(games))
	for _, g := range games {
		durations[g.ID] = g.DurationMinutes
	}

	evs, err := s.events.Query(ctx, repository.EventFilter{
		GameIDs:      dedupe(gameIDs),
		EventTypeIDs: s.types.IDsByName(engine.ClockTypeNames()...),
	})
	if err != nil {
		return nil, err
	}
	byGame := make(map[int64][]model.GameEvent)
	for _, ev := range evs {
		byGame[ev.GameID] = append(byGame[ev.GameID], ev)
	}

	now := s.now()
	for _, id := range gameIDs {
		timing, err := s.eng.ComputeTiming(byGame[id])
		if err != nil {
			// Cache emptied between the check above and here; degrade the
			// same way.
			if errors.Is(err, engine.ErrNoEventTypes) {
				out[id] = GameClock{GameID: id}
				continue
			}
			return nil, err
		}
		duration := durations[id]
		out[id] = GameClock{
			GameID:         id,
			Timing:         timing,
			ElapsedSeconds: engine.ElapsedSeconds(timing, duration, now),
			Periods:        engine.PeriodInfo(timing, duration, now),
		}
	}
	return out, nil
}

// PeriodInfo answers the explicit "what period is it" question. Unlike the
// lenient batch path it surfaces missing reference data instead of quietly
// reporting a game that never started.
func (s *clockService) PeriodInfo(ctx context.Context, gameID int64) (model.PeriodTiming, error) {
	if gameID <= 0 {
		return model.PeriodTiming{}, NewInvalidInputError([]FieldError{{Field: "game_id", Message: "must be > 0"}})
	}
	if s.types.Empty() {
		return model.PeriodTiming{}, ErrTimingUnavailable
	}
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return model.PeriodTiming{}, err
	}
	evs, err := s.events.Query(ctx, repository.EventFilter{
		GameIDs:      []int64{gameID},
		EventTypeIDs: s.types.IDsByName(engine.ClockTypeNames()...),
	})
	if err != nil {
		return model.PeriodTiming{}, err
	}
	timing, err := s.eng.ComputeTiming(evs)
	if err != nil {
		if errors.Is(err, engine.ErrNoEventTypes) {
			return model.PeriodTiming{}, ErrTimingUnavailable
		}
		return model.PeriodTiming{}, err
	}
	return engine.PeriodInfo(timing, game.DurationMinutes, s.now()), nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
