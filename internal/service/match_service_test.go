package service

import (
	"context"
	"errors"
	"testing"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

type captureHub struct {
	events []string
}

func (h *captureHub) Broadcast(event string, _ any) {
	h.events = append(h.events, event)
}

func TestMatchCreateValidation(t *testing.T) {
	teams := newFakeTeamStore(
		domain.Team{ID: 1, Name: "Lakers"},
		domain.Team{ID: 2, Name: "Celtics"},
	)
	svc := NewMatchService(newFakeMatchStore(), teams, nil, &fakeAuditStore{}, nil, nil, testLogger())

	_, err := svc.Create(context.Background(), domain.Match{HomeTeamID: 1, AwayTeamID: 1}, 5)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("self-match error = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Create(context.Background(), domain.Match{HomeTeamID: 1, AwayTeamID: 99}, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown team error = %v, want ErrNotFound", err)
	}

	created, err := svc.Create(context.Background(), domain.Match{HomeTeamID: 1, AwayTeamID: 2}, 5)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.MatchStatusScheduled {
		t.Errorf("status = %q, want scheduled", created.Status)
	}
	if created.CreatedByID != 5 {
		t.Errorf("created by = %d, want 5", created.CreatedByID)
	}
	if created.Date.IsZero() {
		t.Error("date was not defaulted")
	}
}

func TestSettleResult(t *testing.T) {
	teams := newFakeTeamStore(
		domain.Team{ID: 1, Name: "Lakers"},
		domain.Team{ID: 2, Name: "Celtics"},
	)
	matches := newFakeMatchStore(domain.Match{ID: 1, HomeTeamID: 1, AwayTeamID: 2, Status: domain.MatchStatusScheduled})
	hub := &captureHub{}
	svc := NewMatchService(matches, teams, nil, &fakeAuditStore{}, hub, nil, testLogger())

	if _, err := svc.SettleResult(context.Background(), 1, -1, 90, 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative score error = %v, want ErrInvalidInput", err)
	}

	settled, err := svc.SettleResult(context.Background(), 1, 102, 99, 5)
	if err != nil {
		t.Fatalf("SettleResult: %v", err)
	}
	if !settled.Finished() {
		t.Error("settled match is not finished")
	}
	if settled.WinnerID() != 1 {
		t.Errorf("winner = %d, want 1", settled.WinnerID())
	}
	if len(hub.events) != 1 || hub.events[0] != "match_result" {
		t.Errorf("broadcast events = %v, want [match_result]", hub.events)
	}

	if _, err := svc.SettleResult(context.Background(), 1, 100, 90, 5); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("double settle error = %v, want ErrAlreadyExists", err)
	}
}
