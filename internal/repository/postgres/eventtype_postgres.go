package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

type eventTypeRepository struct{ pool *pgxpool.Pool }

func NewEventTypeRepository(pool *pgxpool.Pool) repository.EventTypeRepository {
	return &eventTypeRepository{pool: pool}
}

func (r *eventTypeRepository) List(ctx context.Context) ([]model.EventType, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT id, name FROM event_types ORDER BY id`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.EventType, 0, 16)
	for rows.Next() {
		var it model.EventType
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

var _ repository.EventTypeRepository = (*eventTypeRepository)(nil)
