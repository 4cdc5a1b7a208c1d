package service

import (
	"context"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

// Notification topics published to live viewers.
const (
	TopicEventRecorded  = "event.recorded"
	TopicEventDuplicate = "event.duplicate"
	TopicEventConflict  = "event.conflict"
)

type eventService struct {
	events    repository.EventLogRepository
	gameTeams repository.GameTeamRepository
	eng       *engine.Engine
	types     *engine.TypeCache
	pub       Publisher
	log       zerolog.Logger
}

func NewEventService(events repository.EventLogRepository, gameTeams repository.GameTeamRepository, eng *engine.Engine, types *engine.TypeCache, pub Publisher, logger zerolog.Logger) EventService {
	l := logger.With().Str("module", "service").Str("component", "events").Logger()
	return &eventService{events: events, gameTeams: gameTeams, eng: eng, types: types, pub: pub, log: l}
}

// RecordEvent validates a candidate, runs it through the ingestion guard
// and appends it when the guard (or an explicit override) allows. The
// guard's read and the append are deliberately not atomic: two recorders
// hitting the same instant can both land, and the duplicate surfaces on the
// next read for a human to resolve. No lock is invented around the
// append-only log.
func (s *eventService) RecordEvent(ctx context.Context, in RecordEventInput) (RecordEventResult, error) {
	var ferrs []FieldError
	if in.GameTeamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "game_team_id", Message: "must be > 0"})
	}
	if in.CreatedByID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "created_by_id", Message: "actor id is required"})
	}
	if in.PeriodSecond < 0 {
		ferrs = append(ferrs, FieldError{Field: "period_second", Message: "must be >= 0"})
	}
	if in.TypeName == "" {
		ferrs = append(ferrs, FieldError{Field: "type_name", Message: "must be set"})
	}

	if s.types.Empty() {
		return RecordEventResult{}, ErrTimingUnavailable
	}
	typeID, typeKnown := s.types.IDByName(in.TypeName)
	if in.TypeName != "" && !typeKnown {
		ferrs = append(ferrs, FieldError{Field: "type_name", Message: "unknown event type"})
	}

	switch model.Category(in.TypeName) {
	case model.CategoryLineup, model.CategoryScoring, model.CategoryParticipation:
		if in.PlayerID == nil && in.ExternalPlayerName == "" {
			ferrs = append(ferrs, FieldError{Field: "player", Message: "player_id or external_player_name is required"})
		}
		if in.PlayerID != nil && in.ExternalPlayerName != "" {
			ferrs = append(ferrs, FieldError{Field: "player", Message: "player_id and external_player_name are mutually exclusive"})
		}
	}
	switch in.TypeName {
	case model.EventStartingLineup, model.EventSubstitutionIn,
		model.EventPositionSwap, model.EventPositionChange:
		if in.Position == "" {
			ferrs = append(ferrs, FieldError{Field: "position", Message: "must be set"})
		}
	}

	pausedAt, pauseErrs := parsePausedAt(in)
	ferrs = append(ferrs, pauseErrs...)

	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("event validation failed")
		return RecordEventResult{}, err
	}

	// Not-found is propagated, not swallowed: recording against a missing
	// game team is a caller bug, not an empty result.
	gameTeam, err := s.gameTeams.GetByID(ctx, in.GameTeamID)
	if err != nil {
		return RecordEventResult{}, err
	}

	candidate := model.GameEvent{
		GameID:               gameTeam.GameID,
		EventTypeID:          typeID,
		GameTeamID:           in.GameTeamID,
		PlayerID:             in.PlayerID,
		ExternalPlayerName:   in.ExternalPlayerName,
		ExternalPlayerNumber: in.ExternalPlayerNumber,
		Position:             in.Position,
		Period:               in.Period,
		PeriodSecond:         in.PeriodSecond,
		ParentEventID:        in.ParentEventID,
		CreatedByID:          in.CreatedByID,
	}
	if pausedAt != nil {
		candidate.CreatedAt = *pausedAt
	}

	existing, err := s.events.Query(ctx, repository.EventFilter{
		GameIDs:      []int64{gameTeam.GameID},
		EventTypeIDs: []int64{typeID},
		GameTeamID:   in.GameTeamID,
	})
	if err != nil {
		return RecordEventResult{}, err
	}

	cls := engine.Classify(candidate, existing)
	switch cls.Verdict {
	case engine.VerdictDuplicate:
		s.log.Info().Int64("game_team_id", in.GameTeamID).Str("type", in.TypeName).
			Int64("duplicate_of", cls.Duplicate.ID).Msg("event classified as duplicate")
		s.pub.Publish(ctx, TopicEventDuplicate, cls)
		return RecordEventResult{Classification: cls}, nil
	case engine.VerdictConflict:
		if !in.Force {
			s.log.Info().Int64("game_team_id", in.GameTeamID).Str("type", in.TypeName).
				Int("in_window", len(cls.Conflicts)).Msg("event classified as conflict")
			s.pub.Publish(ctx, TopicEventConflict, cls)
			return RecordEventResult{Classification: cls}, nil
		}
		// Explicit override: a human looked at the window and said both
		// happened.
	}

	stored, err := s.events.Append(ctx, candidate)
	if err != nil {
		s.log.Error().Err(err).Int64("game_team_id", in.GameTeamID).Str("type", in.TypeName).Msg("append event failed")
		return RecordEventResult{}, err
	}
	s.pub.Publish(ctx, TopicEventRecorded, stored)
	return RecordEventResult{Event: &stored, Classification: cls}, nil
}

// parsePausedAt validates the optional explicit pause instant. Wrong JSON
// type, an unparsable string and a missing actor are three different
// complaints; none of them gets coerced or defaulted.
func parsePausedAt(in RecordEventInput) (*time.Time, []FieldError) {
	if in.PausedAt == nil {
		return nil, nil
	}
	if in.TypeName != model.EventStoppageStart {
		return nil, []FieldError{{Field: "paused_at", Message: "only allowed on STOPPAGE_START"}}
	}
	raw, ok := in.PausedAt.(string)
	if !ok {
		return nil, []FieldError{{Field: "paused_at", Message: "must be a string timestamp"}}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, []FieldError{{Field: "paused_at", Message: "must be a valid RFC 3339 timestamp"}}
	}
	return &ts, nil
}

// CorrectPosition is the single sanctioned mutation of the log (a recorded
// position typo). Anything else stays a new event.
func (s *eventService) CorrectPosition(ctx context.Context, eventID int64, position string) error {
	var ferrs []FieldError
	if eventID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must be > 0"})
	}
	if position == "" {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be set"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return err
	}
	return s.events.UpdatePosition(ctx, eventID, position)
}
