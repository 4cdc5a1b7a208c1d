package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

type eventLogRepository struct{ pool *pgxpool.Pool }

func NewEventLogRepository(pool *pgxpool.Pool) repository.EventLogRepository {
	return &eventLogRepository{pool: pool}
}

const eventColumns = `id, game_id, event_type_id, game_team_id, player_id,
	external_player_name, external_player_number, position, period,
	period_second, parent_event_id, created_by_id, created_at`

func scanEvent(row pgx.Row) (model.GameEvent, error) {
	var out model.GameEvent
	var name, number, position, period *string
	err := row.Scan(
		&out.ID, &out.GameID, &out.EventTypeID, &out.GameTeamID, &out.PlayerID,
		&name, &number, &position, &period,
		&out.PeriodSecond, &out.ParentEventID, &out.CreatedByID, &out.CreatedAt,
	)
	if err != nil {
		return model.GameEvent{}, err
	}
	if name != nil {
		out.ExternalPlayerName = *name
	}
	if number != nil {
		out.ExternalPlayerNumber = *number
	}
	if position != nil {
		out.Position = *position
	}
	if period != nil {
		out.Period = *period
	}
	return out, nil
}

// Query reads a filtered slice of the log in the canonical fold order.
// All filter axes collapse into one statement so the batch clock read stays
// a single round trip regardless of how many games were requested.
func (r *eventLogRepository) Query(ctx context.Context, f repository.EventFilter) ([]model.GameEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	if len(f.GameIDs) > 0 {
		args = append(args, f.GameIDs)
		conds = append(conds, "game_id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if len(f.EventTypeIDs) > 0 {
		args = append(args, f.EventTypeIDs)
		conds = append(conds, "event_type_id = ANY($"+strconv.Itoa(len(args))+")")
	}
	if f.GameTeamID > 0 {
		args = append(args, f.GameTeamID)
		conds = append(conds, "game_team_id = $"+strconv.Itoa(len(args)))
	}

	sql := `SELECT ` + eventColumns + ` FROM game_events`
	if len(conds) > 0 {
		sql += ` WHERE ` + strings.Join(conds, " AND ")
	}
	sql += ` ORDER BY period, period_second, created_at, id`

	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	res := make([]model.GameEvent, 0, 32)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, ev)
	}
	return res, rows.Err()
}

// Append inserts a new log row. created_at defaults to the database clock
// so the insertion-order tiebreak is consistent across recorders; a
// non-zero CreatedAt (explicit pause instant) overrides it.
func (r *eventLogRepository) Append(ctx context.Context, ev model.GameEvent) (model.GameEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameEvent{}, err
	}
	var createdAt *time.Time
	if !ev.CreatedAt.IsZero() {
		createdAt = &ev.CreatedAt
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO game_events (
			game_id, event_type_id, game_team_id, player_id,
			external_player_name, external_player_number, position, period,
			period_second, parent_event_id, created_by_id, created_at
		) VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),NULLIF($8,''),$9,$10,$11,COALESCE($12, NOW()))
		RETURNING `+eventColumns,
		ev.GameID, ev.EventTypeID, ev.GameTeamID, ev.PlayerID,
		ev.ExternalPlayerName, ev.ExternalPlayerNumber, ev.Position, ev.Period,
		ev.PeriodSecond, ev.ParentEventID, ev.CreatedByID, createdAt,
	)
	out, err := scanEvent(row)
	if err != nil {
		return model.GameEvent{}, repository.MapPgError(err)
	}
	return out, nil
}

// UpdatePosition is the single sanctioned in-place mutation of the log: a
// position typo correction. Everything else is append-only.
func (r *eventLogRepository) UpdatePosition(ctx context.Context, eventID int64, position string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE game_events SET position = $2 WHERE id = $1`, eventID, position,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EventLogRepository = (*eventLogRepository)(nil)
