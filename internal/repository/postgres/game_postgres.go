package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

type gameRepository struct{ pool *pgxpool.Pool }

func NewGameRepository(pool *pgxpool.Pool) repository.GameRepository {
	return &gameRepository{pool: pool}
}

func (r *gameRepository) Create(ctx context.Context, g model.Game) (model.Game, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Game{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO games (opponent, location, kickoff_at, duration_minutes, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, opponent, location, kickoff_at, duration_minutes, status, created_at, updated_at`,
		g.Opponent, g.Location, g.KickoffAt, g.DurationMinutes, g.Status,
	)
	var out model.Game
	if err := row.Scan(&out.ID, &out.Opponent, &out.Location, &out.KickoffAt, &out.DurationMinutes, &out.Status, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Game{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id int64) (model.Game, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Game{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, opponent, location, kickoff_at, duration_minutes, status, created_at, updated_at
		 FROM games WHERE id = $1`, id,
	)
	var out model.Game
	if err := row.Scan(&out.ID, &out.Opponent, &out.Location, &out.KickoffAt, &out.DurationMinutes, &out.Status, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Game{}, repository.ErrNotFound
		}
		return model.Game{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Game, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, opponent, location, kickoff_at, duration_minutes, status, created_at, updated_at
		 FROM games WHERE id = ANY($1) ORDER BY id`, ids,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.Game, 0, len(ids))
	for rows.Next() {
		var it model.Game
		if err := rows.Scan(&it.ID, &it.Opponent, &it.Location, &it.KickoffAt, &it.DurationMinutes, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *gameRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Game], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Game]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, opponent, location, kickoff_at, duration_minutes, status, created_at, updated_at, COUNT(*) OVER() AS total
		 FROM games
		 ORDER BY kickoff_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Game]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Game]{Items: make([]model.Game, 0, limit)}
	for rows.Next() {
		var it model.Game
		var total int
		if err := rows.Scan(&it.ID, &it.Opponent, &it.Location, &it.KickoffAt, &it.DurationMinutes, &it.Status, &it.CreatedAt, &it.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Game]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

var _ repository.GameRepository = (*gameRepository)(nil)
