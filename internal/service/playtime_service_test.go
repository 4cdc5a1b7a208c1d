package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/service"
)

func lineupEvent(types *engine.TypeCache, gameID, gameTeamID int64, name string, playerID int64, position, period string, second int, at time.Time) model.GameEvent {
	return model.GameEvent{
		GameID:       gameID,
		GameTeamID:   gameTeamID,
		EventTypeID:  mustTypeID(types, name),
		PlayerID:     int64Ptr(playerID),
		Position:     position,
		Period:       period,
		PeriodSecond: second,
		CreatedByID:  1,
		CreatedAt:    at,
	}
}

func TestGamePlayerTime_OpenSpanClosesAtClockElapsed(t *testing.T) {
	types := newTestTypes()
	eng := engine.New(types)
	kickoff := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)
	now := kickoff.Add(20 * time.Minute) // clock says 1200s elapsed

	log := newFakeEventLog()
	log.events = []model.GameEvent{
		clockEventAt(types, 1, model.EventGameStart, "1", kickoff),
		lineupEvent(types, 1, 10, model.EventStartingLineup, 7, "MF", "1", 0, kickoff),
	}
	games := newFakeGames(model.Game{ID: 1, DurationMinutes: 50, KickoffAt: kickoff})
	gameTeams := newFakeGameTeams(model.GameTeam{ID: 10, GameID: 1, TeamID: 5})

	svc := service.NewPlayerTimeService(log, games, gameTeams, eng, types, fixedNow(now), testLogger())
	stats, err := svc.GamePlayerTime(context.Background(), 10)
	if err != nil {
		t.Fatalf("game player time: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 player, got %d", len(stats))
	}
	p := stats[0]
	if !p.IsOnField {
		t.Fatalf("player should be on field: %+v", p)
	}
	if p.TotalSeconds != 1200 {
		t.Fatalf("total = %d, want 1200 (clock-derived, not wall clock)", p.TotalSeconds)
	}
}

func TestGamePlayerTime_SubRoundTrip(t *testing.T) {
	types := newTestTypes()
	eng := engine.New(types)
	kickoff := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)

	log := newFakeEventLog()
	log.events = []model.GameEvent{
		clockEventAt(types, 1, model.EventGameStart, "1", kickoff),
		lineupEvent(types, 1, 10, model.EventStartingLineup, 7, "FW", "1", 0, kickoff),
		lineupEvent(types, 1, 10, model.EventSubstitutionOut, 7, "", "1", 900, kickoff.Add(15*time.Minute)),
		lineupEvent(types, 1, 10, model.EventSubstitutionIn, 8, "FW", "1", 900, kickoff.Add(15*time.Minute)),
	}
	games := newFakeGames(model.Game{ID: 1, DurationMinutes: 50, KickoffAt: kickoff})
	gameTeams := newFakeGameTeams(model.GameTeam{ID: 10, GameID: 1, TeamID: 5})

	svc := service.NewPlayerTimeService(log, games, gameTeams, eng, types, fixedNow(kickoff.Add(20*time.Minute)), testLogger())
	stats, err := svc.GamePlayerTime(context.Background(), 10)
	if err != nil {
		t.Fatalf("game player time: %v", err)
	}
	byKey := map[string]model.PlayerAggregateStats{}
	for _, s := range stats {
		byKey[s.PlayerKey] = s
	}
	out := byKey["p:7"]
	if out.TotalSeconds != 900 || out.IsOnField {
		t.Fatalf("subbed-off player wrong: %+v", out)
	}
	in := byKey["p:8"]
	if in.TotalSeconds != 300 || !in.IsOnField {
		t.Fatalf("subbed-on player wrong: %+v", in)
	}
}

func TestSeasonPlayerTime_MergesGamesInTwoLogReads(t *testing.T) {
	types := newTestTypes()
	eng := engine.New(types)
	k1 := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)
	k2 := time.Date(2025, 5, 17, 10, 0, 0, 0, time.UTC)

	log := newFakeEventLog()
	log.events = []model.GameEvent{
		// Game 1: finished, player 7 plays the full 50 minutes.
		clockEventAt(types, 1, model.EventGameStart, "1", k1),
		lineupEvent(types, 1, 10, model.EventStartingLineup, 7, "MF", "1", 0, k1),
		clockEventAt(types, 1, model.EventGameEnd, "2", k1.Add(50*time.Minute)),
		// Game 2: in progress, same player started 10 minutes ago.
		clockEventAt(types, 2, model.EventGameStart, "1", k2),
		lineupEvent(types, 2, 20, model.EventStartingLineup, 7, "MF", "1", 0, k2),
		// Opponent side of game 2 records too; must stay out of our totals.
		lineupEvent(types, 2, 99, model.EventStartingLineup, 7, "FW", "1", 0, k2),
	}
	games := newFakeGames(
		model.Game{ID: 1, DurationMinutes: 50, KickoffAt: k1},
		model.Game{ID: 2, DurationMinutes: 50, KickoffAt: k2},
	)
	gameTeams := newFakeGameTeams(
		model.GameTeam{ID: 10, GameID: 1, TeamID: 5},
		model.GameTeam{ID: 20, GameID: 2, TeamID: 5},
	)

	svc := service.NewPlayerTimeService(log, games, gameTeams, eng, types, fixedNow(k2.Add(10*time.Minute)), testLogger())
	stats, err := svc.SeasonPlayerTime(context.Background(), 5)
	if err != nil {
		t.Fatalf("season player time: %v", err)
	}
	if log.queryCalls != 2 {
		t.Fatalf("expected 2 event log reads, got %d", log.queryCalls)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 merged player, got %d: %+v", len(stats), stats)
	}
	p := stats[0]
	if p.GamesPlayed != 2 {
		t.Fatalf("games played = %d, want 2", p.GamesPlayed)
	}
	// 3000s finished game + 600s of the live one.
	if p.TotalSeconds != 3600 {
		t.Fatalf("total = %d, want 3600", p.TotalSeconds)
	}
	if p.IsOnField || p.LastEntrySecond != nil {
		t.Fatalf("cross-game merge must not claim live on-field state: %+v", p)
	}
}

func TestSeasonPlayerTime_NoGamesIsEmpty(t *testing.T) {
	types := newTestTypes()
	eng := engine.New(types)
	svc := service.NewPlayerTimeService(newFakeEventLog(), newFakeGames(), newFakeGameTeams(), eng, types, time.Now, testLogger())
	stats, err := svc.SeasonPlayerTime(context.Background(), 5)
	if err != nil {
		t.Fatalf("season player time: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestGamePlayerTime_EmptyTypeCache(t *testing.T) {
	types := engine.NewTypeCache(nil)
	eng := engine.New(types)
	gameTeams := newFakeGameTeams(model.GameTeam{ID: 10, GameID: 1, TeamID: 5})
	games := newFakeGames(model.Game{ID: 1, DurationMinutes: 50})
	svc := service.NewPlayerTimeService(newFakeEventLog(), games, gameTeams, eng, types, time.Now, testLogger())

	_, err := svc.GamePlayerTime(context.Background(), 10)
	if err != service.ErrTimingUnavailable {
		t.Fatalf("expected ErrTimingUnavailable, got %v", err)
	}
}
