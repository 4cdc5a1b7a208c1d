package service_test

import (
	"context"
	"testing"

	"github.com/lkaminski/matchday-stats-service/internal/model"
	"github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/lkaminski/matchday-stats-service/internal/service"
)

type fakePlayerRepo struct {
	nextID int64
	items  map[int64]model.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1, items: map[int64]model.Player{}}
}

func (f *fakePlayerRepo) Create(_ context.Context, p model.Player) (model.Player, error) {
	p.ID = f.nextID
	f.nextID++
	f.items[p.ID] = p
	return p, nil
}
func (f *fakePlayerRepo) GetByID(_ context.Context, id int64) (model.Player, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return it, nil
}
func (f *fakePlayerRepo) ListByTeam(_ context.Context, teamID int64, _ repository.Page) (repository.PageResult[model.Player], error) {
	res := repository.PageResult[model.Player]{}
	for _, v := range f.items {
		if v.TeamID == teamID {
			res.Items = append(res.Items, v)
		}
	}
	res.Total = len(res.Items)
	return res, nil
}

var _ repository.PlayerRepository = (*fakePlayerRepo)(nil)

func seededTeamRepo() *fakeTeamRepo {
	teams := newFakeTeamRepo()
	_, _ = teams.Create(context.Background(), model.Team{Name: "Vikings U12"})
	return teams
}

func TestPlayerService_CreatePlayer_Validation(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), seededTeamRepo(), testLogger())

	cases := []struct {
		name      string
		teamID    int64
		first     string
		last      string
		number    string
		wantField string
	}{
		{"bad team id", 0, "Jamie", "Ward", "9", "team_id"},
		{"empty first name", 1, "  ", "Ward", "9", "first_name"},
		{"empty last name", 1, "Jamie", "", "9", "last_name"},
		{"long number", 1, "Jamie", "Ward", "1234", "number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePlayer(context.Background(), tc.teamID, tc.first, tc.last, tc.number)
			if err == nil {
				t.Fatalf("expected error")
			}
			found := false
			for _, fe := range service.FieldErrors(err) {
				if fe.Field == tc.wantField {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected field error for %s, got %+v", tc.wantField, service.FieldErrors(err))
			}
		})
	}
}

func TestPlayerService_CreatePlayer_MissingTeamRejected(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), newFakeTeamRepo(), testLogger())
	_, err := svc.CreatePlayer(context.Background(), 42, "Jamie", "Ward", "9")
	if err == nil || !serviceErrIsInvalid(err) {
		t.Fatalf("expected invalid input for missing team, got %v", err)
	}
}

func TestPlayerService_CreatePlayer_OK(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), seededTeamRepo(), testLogger())
	p, err := svc.CreatePlayer(context.Background(), 1, " Jamie ", "Ward", " 9 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FirstName != "Jamie" || p.Number != "9" {
		t.Fatalf("fields not normalized: %+v", p)
	}
}

func TestPlayerService_ListByTeam_InvalidID(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), seededTeamRepo(), testLogger())
	_, err := svc.ListPlayersByTeam(context.Background(), 0, repository.Page{})
	if err == nil || !serviceErrIsInvalid(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}
