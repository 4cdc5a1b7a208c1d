package contract

import (
	"context"
	"testing"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

// Factories build a repository against a concrete backend plus a cleanup
// function. Seed helpers create the rows foreign keys demand.

type TeamFactory func(t *testing.T) (repository.TeamRepository, func())

type PlayerFactory func(t *testing.T) (repo repository.PlayerRepository, createTeam func(ctx context.Context, name string) (int64, error), cleanup func())

type GameFactory func(t *testing.T) (repository.GameRepository, func())

type GameTeamFactory func(t *testing.T) (repo repository.GameTeamRepository, mkTeam func(ctx context.Context, name string) (int64, error), mkGame func(ctx context.Context) (int64, error), cleanup func())

type EventLogFactory func(t *testing.T) (repo repository.EventLogRepository, mkGameTeam func(ctx context.Context) (gameID, gameTeamID int64, err error), typeID func(name string) int64, cleanup func())

type EventTypeFactory func(t *testing.T) (repository.EventTypeRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, teams repository.TeamRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunTeamRepositoryContract(t *testing.T, makeRepo TeamFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "Vikings U12"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != created.Name {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			name := "T-" + string(rune('A'+i))
			if _, err := repo.Create(ctx, model.Team{Name: name}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 3})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 3 || res2.Total != 7 {
			t.Fatalf("unexpected page2: len=%d total=%d", len(res2.Items), res2.Total)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := repo.Create(ctx, model.Team{Name: "Dup"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err = repo.Create(ctx, model.Team{Name: "Dup"})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Rangers")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		created, err := repo.Create(ctx, model.Player{TeamID: teamID, FirstName: "Jamie", LastName: "Ward", Number: "9"})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID || got.TeamID != teamID || got.Number != "9" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 42424242)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_by_team_pagination", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Rovers")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		for i := 0; i < 5; i++ {
			p := model.Player{TeamID: teamID, FirstName: "P", LastName: string(rune('A' + i)), Number: "10"}
			if _, err := repo.Create(ctx, p); err != nil {
				t.Fatalf("seed player %d: %v", i, err)
			}
		}
		res, err := repo.ListByTeam(ctx, teamID, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Player{TeamID: 9999999, FirstName: "X", LastName: "Y", Number: "1"})
		if err == nil || err != repository.ErrConflict {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})
}

func RunGameRepositoryContract(t *testing.T, makeRepo GameFactory) {
	t.Helper()

	t.Run("create_get_list", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g, err := repo.Create(ctx, model.Game{Opponent: "Harbour FC", Location: "Home pitch", KickoffAt: time.Now().UTC(), DurationMinutes: 60, Status: "scheduled"})
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		got, err := repo.GetByID(ctx, g.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != g.ID || got.Opponent != "Harbour FC" || got.DurationMinutes != 60 {
			t.Fatalf("mismatch: %+v", got)
		}
		page, err := repo.List(ctx, repository.Page{Limit: 10, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Items) < 1 || page.Total < 1 {
			t.Fatalf("unexpected list: %#v", page)
		}
	})

	t.Run("list_by_ids", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var ids []int64
		for i := 0; i < 3; i++ {
			g, err := repo.Create(ctx, model.Game{Opponent: "Opp", Location: "Away", KickoffAt: time.Now().UTC(), DurationMinutes: 50, Status: "scheduled"})
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
			ids = append(ids, g.ID)
		}
		got, err := repo.ListByIDs(ctx, ids[:2])
		if err != nil {
			t.Fatalf("list by ids: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 games, got %d", len(got))
		}
		empty, err := repo.ListByIDs(ctx, nil)
		if err != nil {
			t.Fatalf("empty list by ids: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("expected no games for empty id set, got %d", len(empty))
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 7777777)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunGameTeamRepositoryContract(t *testing.T, makeRepo GameTeamFactory) {
	t.Helper()

	t.Run("create_get_list_by_team", func(t *testing.T) {
		repo, mkTeam, mkGame, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Lions")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		gameID, err := mkGame(ctx)
		if err != nil {
			t.Fatalf("seed game: %v", err)
		}
		created, err := repo.Create(ctx, model.GameTeam{GameID: gameID, TeamID: teamID})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.GameID != gameID || got.TeamID != teamID {
			t.Fatalf("mismatch: %+v", got)
		}
		list, err := repo.ListByTeam(ctx, teamID)
		if err != nil {
			t.Fatalf("list by team: %v", err)
		}
		if len(list) != 1 || list[0].ID != created.ID {
			t.Fatalf("unexpected list: %#v", list)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 31337000)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		repo, _, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.GameTeam{GameID: 9999999, TeamID: 9999999})
		if err == nil || err != repository.ErrConflict {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})
}

func RunEventLogRepositoryContract(t *testing.T, makeRepo EventLogFactory) {
	t.Helper()

	t.Run("append_and_query_fold_order", func(t *testing.T) {
		repo, mkGameTeam, typeID, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		gameID, gameTeamID, err := mkGameTeam(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		// Append out of order; Query must come back sorted by
		// (period, period_second, created_at, id).
		seed := []model.GameEvent{
			{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: typeID(model.EventSubstitutionIn), Period: "2", PeriodSecond: 1900, CreatedByID: 1},
			{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: typeID(model.EventStartingLineup), Period: "1", PeriodSecond: 0, CreatedByID: 1},
			{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: typeID(model.EventSubstitutionOut), Period: "1", PeriodSecond: 1200, CreatedByID: 1},
		}
		for i, ev := range seed {
			if _, err := repo.Append(ctx, ev); err != nil {
				t.Fatalf("append %d: %v", i, err)
			}
		}
		got, err := repo.Query(ctx, repository.EventFilter{GameTeamID: gameTeamID})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		if got[0].PeriodSecond != 0 || got[1].PeriodSecond != 1200 || got[2].PeriodSecond != 1900 {
			t.Fatalf("wrong order: %d %d %d", got[0].PeriodSecond, got[1].PeriodSecond, got[2].PeriodSecond)
		}
	})

	t.Run("query_set_filters", func(t *testing.T) {
		repo, mkGameTeam, typeID, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		gameID, gameTeamID, err := mkGameTeam(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		goalID := typeID(model.EventGoal)
		if _, err := repo.Append(ctx, model.GameEvent{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: goalID, Period: "1", PeriodSecond: 300, CreatedByID: 1}); err != nil {
			t.Fatalf("append goal: %v", err)
		}
		if _, err := repo.Append(ctx, model.GameEvent{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: typeID(model.EventAssist), Period: "1", PeriodSecond: 300, CreatedByID: 1}); err != nil {
			t.Fatalf("append assist: %v", err)
		}
		got, err := repo.Query(ctx, repository.EventFilter{GameIDs: []int64{gameID}, EventTypeIDs: []int64{goalID}})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(got) != 1 || got[0].EventTypeID != goalID {
			t.Fatalf("filter leaked: %#v", got)
		}
	})

	t.Run("append_round_trips_player_fields", func(t *testing.T) {
		repo, mkGameTeam, typeID, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		gameID, gameTeamID, err := mkGameTeam(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		in := model.GameEvent{
			GameID:               gameID,
			GameTeamID:           gameTeamID,
			EventTypeID:          typeID(model.EventSubstitutionIn),
			ExternalPlayerName:   "Trialist",
			ExternalPlayerNumber: "99",
			Position:             "FW",
			Period:               "1",
			PeriodSecond:         600,
			CreatedByID:          1,
		}
		stored, err := repo.Append(ctx, in)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if stored.ID == 0 || stored.CreatedAt.IsZero() {
			t.Fatalf("missing generated columns: %+v", stored)
		}
		if stored.ExternalPlayerName != "Trialist" || stored.Position != "FW" || stored.PlayerID != nil {
			t.Fatalf("player fields mangled: %+v", stored)
		}
	})

	t.Run("update_position", func(t *testing.T) {
		repo, mkGameTeam, typeID, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		gameID, gameTeamID, err := mkGameTeam(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		stored, err := repo.Append(ctx, model.GameEvent{GameID: gameID, GameTeamID: gameTeamID, EventTypeID: typeID(model.EventStartingLineup), Position: "MF", Period: "1", PeriodSecond: 0, CreatedByID: 1})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := repo.UpdatePosition(ctx, stored.ID, "DF"); err != nil {
			t.Fatalf("update position: %v", err)
		}
		got, err := repo.Query(ctx, repository.EventFilter{GameTeamID: gameTeamID})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(got) != 1 || got[0].Position != "DF" {
			t.Fatalf("position not corrected: %#v", got)
		}
		if err := repo.UpdatePosition(ctx, 123456789, "FW"); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound for missing event, got %v", err)
		}
	})
}

func RunEventTypeRepositoryContract(t *testing.T, makeRepo EventTypeFactory) {
	t.Helper()

	t.Run("list_seeded_types", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		types, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		byName := make(map[string]bool, len(types))
		for _, et := range types {
			byName[et.Name] = true
		}
		for _, want := range []string{model.EventGameStart, model.EventGameEnd, model.EventStartingLineup, model.EventSubstitutionIn, model.EventGoal} {
			if !byName[want] {
				t.Fatalf("seed migration missing type %s; have %#v", want, byName)
			}
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, model.Team{Name: "TxCommit"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, model.Team{Name: "TxRollback"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a sentinel error without importing errors to keep helpers local.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
