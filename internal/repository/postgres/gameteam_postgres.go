package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

type gameTeamRepository struct{ pool *pgxpool.Pool }

func NewGameTeamRepository(pool *pgxpool.Pool) repository.GameTeamRepository {
	return &gameTeamRepository{pool: pool}
}

func (r *gameTeamRepository) Create(ctx context.Context, gt model.GameTeam) (model.GameTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameTeam{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO game_teams (game_id, team_id)
		 VALUES ($1, $2)
		 RETURNING id, game_id, team_id, created_at, updated_at`,
		gt.GameID, gt.TeamID,
	)
	var out model.GameTeam
	if err := row.Scan(&out.ID, &out.GameID, &out.TeamID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.GameTeam{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameTeamRepository) GetByID(ctx context.Context, id int64) (model.GameTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameTeam{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, game_id, team_id, created_at, updated_at
		 FROM game_teams WHERE id = $1`, id,
	)
	var out model.GameTeam
	if err := row.Scan(&out.ID, &out.GameID, &out.TeamID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GameTeam{}, repository.ErrNotFound
		}
		return model.GameTeam{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameTeamRepository) ListByTeam(ctx context.Context, teamID int64) ([]model.GameTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, game_id, team_id, created_at, updated_at
		 FROM game_teams WHERE team_id = $1 ORDER BY id`, teamID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.GameTeam, 0, 16)
	for rows.Next() {
		var it model.GameTeam
		if err := rows.Scan(&it.ID, &it.GameID, &it.TeamID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

var _ repository.GameTeamRepository = (*gameTeamRepository)(nil)
