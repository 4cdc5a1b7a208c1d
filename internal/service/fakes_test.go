package service_test

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

// Shared fakes for the clock / playtime / event service tests. Team, game
// and player tests keep their own focused fakes next to the cases.

func testLogger() zerolog.Logger { return zerolog.New(io.Discard) }

// newTestTypes builds a type cache with the full seeded reference table.
func newTestTypes() *engine.TypeCache {
	names := []string{
		model.EventGameStart, model.EventGameEnd, model.EventPeriodStart,
		model.EventPeriodEnd, model.EventStoppageStart, model.EventStoppageEnd,
		model.EventStartingLineup, model.EventSubstitutionIn, model.EventSubstitutionOut,
		model.EventPositionSwap, model.EventPositionChange,
		model.EventGoal, model.EventAssist, model.EventBench,
	}
	types := make([]model.EventType, len(names))
	for i, n := range names {
		types[i] = model.EventType{ID: int64(i + 1), Name: n}
	}
	return engine.NewTypeCache(types)
}

func mustTypeID(types *engine.TypeCache, name string) int64 {
	id, ok := types.IDByName(name)
	if !ok {
		panic("unknown test event type " + name)
	}
	return id
}

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

// fakeEventLog keeps events in memory and applies EventFilter the way the
// Postgres implementation does, counting Query round trips.
type fakeEventLog struct {
	events     []model.GameEvent
	nextID     int64
	queryCalls int
	appended   []model.GameEvent
	queryErr   error
	appendErr  error
}

func newFakeEventLog() *fakeEventLog { return &fakeEventLog{nextID: 1} }

func (f *fakeEventLog) Query(_ context.Context, filter repository.EventFilter) ([]model.GameEvent, error) {
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	gameSet := make(map[int64]struct{}, len(filter.GameIDs))
	for _, id := range filter.GameIDs {
		gameSet[id] = struct{}{}
	}
	typeSet := make(map[int64]struct{}, len(filter.EventTypeIDs))
	for _, id := range filter.EventTypeIDs {
		typeSet[id] = struct{}{}
	}
	var out []model.GameEvent
	for _, ev := range f.events {
		if len(gameSet) > 0 {
			if _, ok := gameSet[ev.GameID]; !ok {
				continue
			}
		}
		if len(typeSet) > 0 {
			if _, ok := typeSet[ev.EventTypeID]; !ok {
				continue
			}
		}
		if filter.GameTeamID != 0 && ev.GameTeamID != filter.GameTeamID {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (f *fakeEventLog) Append(_ context.Context, ev model.GameEvent) (model.GameEvent, error) {
	if f.appendErr != nil {
		return model.GameEvent{}, f.appendErr
	}
	ev.ID = f.nextID
	f.nextID++
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	f.events = append(f.events, ev)
	f.appended = append(f.appended, ev)
	return ev, nil
}

func (f *fakeEventLog) UpdatePosition(_ context.Context, eventID int64, position string) error {
	for i := range f.events {
		if f.events[i].ID == eventID {
			f.events[i].Position = position
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ repository.EventLogRepository = (*fakeEventLog)(nil)

// fakeGames serves games by id; Create/List exist to satisfy the interface.
type fakeGames struct {
	items map[int64]model.Game
}

func newFakeGames(games ...model.Game) *fakeGames {
	f := &fakeGames{items: map[int64]model.Game{}}
	for _, g := range games {
		f.items[g.ID] = g
	}
	return f
}

func (f *fakeGames) Create(_ context.Context, g model.Game) (model.Game, error) {
	f.items[g.ID] = g
	return g, nil
}

func (f *fakeGames) GetByID(_ context.Context, id int64) (model.Game, error) {
	g, ok := f.items[id]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	return g, nil
}

func (f *fakeGames) ListByIDs(_ context.Context, ids []int64) ([]model.Game, error) {
	var out []model.Game
	for _, id := range ids {
		if g, ok := f.items[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGames) List(_ context.Context, _ repository.Page) (repository.PageResult[model.Game], error) {
	var out []model.Game
	for _, g := range f.items {
		out = append(out, g)
	}
	return repository.PageResult[model.Game]{Items: out, Total: len(out)}, nil
}

var _ repository.GameRepository = (*fakeGames)(nil)

type fakeGameTeams struct {
	items map[int64]model.GameTeam
}

func newFakeGameTeams(gts ...model.GameTeam) *fakeGameTeams {
	f := &fakeGameTeams{items: map[int64]model.GameTeam{}}
	for _, gt := range gts {
		f.items[gt.ID] = gt
	}
	return f
}

func (f *fakeGameTeams) Create(_ context.Context, gt model.GameTeam) (model.GameTeam, error) {
	f.items[gt.ID] = gt
	return gt, nil
}

func (f *fakeGameTeams) GetByID(_ context.Context, id int64) (model.GameTeam, error) {
	gt, ok := f.items[id]
	if !ok {
		return model.GameTeam{}, repository.ErrNotFound
	}
	return gt, nil
}

func (f *fakeGameTeams) ListByTeam(_ context.Context, teamID int64) ([]model.GameTeam, error) {
	var out []model.GameTeam
	for _, gt := range f.items {
		if gt.TeamID == teamID {
			out = append(out, gt)
		}
	}
	return out, nil
}

var _ repository.GameTeamRepository = (*fakeGameTeams)(nil)

// fakePublisher records what would have gone out over the wire.
type fakePublisher struct {
	topics   []string
	payloads []any
}

func (f *fakePublisher) Publish(_ context.Context, topic string, payload any) {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
}
