package repository

import (
	"context"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// EventFilter narrows an event log read. GameIDs and EventTypeIDs are sets
// (empty means no filter on that axis); GameTeamID scopes to one side of
// one game when non-zero. The batch clock computation leans on the set
// filters to stay a single round trip no matter how many games were asked.
type EventFilter struct {
	GameIDs      []int64
	EventTypeIDs []int64
	GameTeamID   int64
}

// EventLogRepository is the append-only match event log. Query returns
// events ordered by (period, period_second, created_at, id), the canonical
// fold order. Append never updates; the log has no uniqueness constraint on
// purpose, near-duplicates are the ingestion guard's problem. The one
// sanctioned mutation is UpdatePosition, the narrow position-correction
// path.
type EventLogRepository interface {
	Query(ctx context.Context, f EventFilter) ([]model.GameEvent, error)
	Append(ctx context.Context, ev model.GameEvent) (model.GameEvent, error)
	UpdatePosition(ctx context.Context, eventID int64, position string) error
}

// EventTypeRepository reads the static event type reference table. Loaded
// once at startup into the engine's TypeCache.
type EventTypeRepository interface {
	List(ctx context.Context) ([]model.EventType, error)
}

// TeamRepository declares persistence operations for teams.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
}

// PlayerRepository declares persistence operations for roster players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	ListByTeam(ctx context.Context, teamID int64, p Page) (PageResult[model.Player], error)
}

// GameRepository declares persistence operations for games.
// ListByIDs exists so batch clock rendering can pull every game record in
// one statement instead of a GetByID per row.
type GameRepository interface {
	Create(ctx context.Context, g model.Game) (model.Game, error)
	GetByID(ctx context.Context, id int64) (model.Game, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Game, error)
	List(ctx context.Context, p Page) (PageResult[model.Game], error)
}

// GameTeamRepository reads the game↔team join rows events hang off.
type GameTeamRepository interface {
	Create(ctx context.Context, gt model.GameTeam) (model.GameTeam, error)
	GetByID(ctx context.Context, id int64) (model.GameTeam, error)
	ListByTeam(ctx context.Context, teamID int64) ([]model.GameTeam, error)
}
