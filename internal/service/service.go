// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrTimingUnavailable signals that the event type reference data is not
// loaded, so clock-dependent answers cannot be computed. Lenient read paths
// degrade to empty timing instead of returning this; strict callers get it.
var ErrTimingUnavailable = errors.New("timing unavailable")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// NowFunc supplies wall-clock time. Injected so "close open spans as of
// now" and "pause duration so far" stay deterministic under test.
type NowFunc func() time.Time

// Publisher is the fire-and-forget notification sink for live viewers.
// Delivery is best effort; nothing here depends on it succeeding.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// GameClock is one game's derived clock state bundled with the figures the
// UI renders next to it.
type GameClock struct {
	GameID         int64              `json:"game_id"`
	Timing         model.GameTiming   `json:"timing"`
	ElapsedSeconds int                `json:"elapsed_seconds"`
	Periods        model.PeriodTiming `json:"periods"`
}

// ClockService answers "where is the game clock" questions.
type ClockService interface {
	GameClock(ctx context.Context, gameID int64) (GameClock, error)
	// GameClockBatch computes clocks for many games with a single event
	// log read, grouping client-side. Rendering a list of games must not
	// fan out one query per row.
	GameClockBatch(ctx context.Context, gameIDs []int64) (map[int64]GameClock, error)
	// PeriodInfo is the strict variant: it fails with ErrTimingUnavailable
	// when reference data is missing instead of degrading.
	PeriodInfo(ctx context.Context, gameID int64) (model.PeriodTiming, error)
}

// PlayerTimeService folds lineup and scoring events into per-player time
// and counters.
type PlayerTimeService interface {
	GamePlayerTime(ctx context.Context, gameTeamID int64) ([]model.PlayerAggregateStats, error)
	SeasonPlayerTime(ctx context.Context, teamID int64) ([]model.PlayerAggregateStats, error)
}

// RecordEventInput is a candidate event from a live recorder.
type RecordEventInput struct {
	GameTeamID           int64  `json:"game_team_id"`
	TypeName             string `json:"type_name"`
	PlayerID             *int64 `json:"player_id,omitempty"`
	ExternalPlayerName   string `json:"external_player_name,omitempty"`
	ExternalPlayerNumber string `json:"external_player_number,omitempty"`
	Position             string `json:"position,omitempty"`
	Period               string `json:"period,omitempty"`
	PeriodSecond         int    `json:"period_second"`
	ParentEventID        *int64 `json:"parent_event_id,omitempty"`
	CreatedByID          int64  `json:"created_by_id"`
	// PausedAt optionally pins a stoppage to an explicit instant instead
	// of the insertion clock. Raw JSON value; must be an RFC 3339 string.
	PausedAt any `json:"paused_at,omitempty"`
	// Force records the event even when the guard sees a conflict. Never
	// overrides a duplicate.
	Force bool `json:"force,omitempty"`
}

// RecordEventResult carries the guard's verdict and, when the event was
// actually written, the stored row.
type RecordEventResult struct {
	Event          *model.GameEvent      `json:"event,omitempty"`
	Classification engine.Classification `json:"classification"`
}

// EventService ingests candidate events through the duplicate/conflict
// guard and owns the narrow position-correction path.
type EventService interface {
	RecordEvent(ctx context.Context, in RecordEventInput) (RecordEventResult, error)
	CorrectPosition(ctx context.Context, eventID int64, position string) error
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
}

// PlayerService defines roster-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, teamID int64, firstName, lastName, number string) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error)
}

// GameService defines game-oriented use cases.
type GameService interface {
	CreateGame(ctx context.Context, opponent, location string, kickoff time.Time, durationMinutes int, status string) (model.Game, error)
	GetGame(ctx context.Context, id int64) (model.Game, error)
	ListGames(ctx context.Context, page repository.Page) (repository.PageResult[model.Game], error)
}
