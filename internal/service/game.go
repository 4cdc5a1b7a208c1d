package service

import (
	"context"
	"strings"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type gameService struct {
	games repository.GameRepository
	log   zerolog.Logger
}

func NewGameService(games repository.GameRepository, logger zerolog.Logger) GameService {
	l := logger.With().Str("module", "service").Str("component", "game").Logger()
	return &gameService{games: games, log: l}
}

func (s *gameService) CreateGame(ctx context.Context, opponent, location string, kickoff time.Time, durationMinutes int, status string) (model.Game, error) {
	opponent = strings.TrimSpace(opponent)
	location = strings.TrimSpace(location)
	statusNorm := normalizeStatus(status)

	var ferrs []FieldError
	if opponent == "" {
		ferrs = append(ferrs, FieldError{Field: "opponent", Message: "must not be empty"})
	}
	if kickoff.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "kickoff_at", Message: "must be set"})
	}
	if durationMinutes <= 0 || durationMinutes > 120 {
		ferrs = append(ferrs, FieldError{Field: "duration_minutes", Message: "must be between 1 and 120"})
	}
	if !isValidGameStatus(statusNorm) {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of scheduled|in_progress|finished"})
	}

	// Early exit if basic structure is invalid – do not touch the database.
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("game validation failed")
		return model.Game{}, err
	}

	out, err := s.games.Create(ctx, model.Game{
		Opponent:        opponent,
		Location:        location,
		KickoffAt:       kickoff,
		DurationMinutes: durationMinutes,
		Status:          statusNorm,
	})
	if err != nil {
		s.log.Error().Err(err).Str("opponent", opponent).Msg("create game failed")
		return model.Game{}, err
	}
	return out, nil
}

func (s *gameService) GetGame(ctx context.Context, id int64) (model.Game, error) {
	if id <= 0 {
		return model.Game{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.games.GetByID(ctx, id)
}

func (s *gameService) ListGames(ctx context.Context, page repository.Page) (repository.PageResult[model.Game], error) {
	p := normalizePage(page)
	res, err := s.games.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list games failed")
		return repository.PageResult[model.Game]{}, err
	}
	return res, nil
}
