package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTeamStore struct {
	teams map[int64]domain.Team
}

func newFakeTeamStore(teams ...domain.Team) *fakeTeamStore {
	s := &fakeTeamStore{teams: make(map[int64]domain.Team)}
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	return s
}

func (s *fakeTeamStore) Create(_ context.Context, team domain.Team) (domain.Team, error) {
	team.ID = int64(len(s.teams) + 1)
	s.teams[team.ID] = team
	return team, nil
}

func (s *fakeTeamStore) Update(_ context.Context, team domain.Team) (domain.Team, error) {
	if _, ok := s.teams[team.ID]; !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	s.teams[team.ID] = team
	return team, nil
}

func (s *fakeTeamStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.teams[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

func (s *fakeTeamStore) GetByID(_ context.Context, id int64) (domain.Team, error) {
	team, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	return team, nil
}

func (s *fakeTeamStore) List(context.Context) ([]domain.Team, error) {
	out := make([]domain.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	return out, nil
}

type fakeHistoryStore struct {
	records []domain.HistoricalRecord
}

func (s *fakeHistoryStore) Create(_ context.Context, rec domain.HistoricalRecord) (domain.HistoricalRecord, error) {
	rec.ID = int64(len(s.records) + 1)
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *fakeHistoryStore) ListByTeam(_ context.Context, teamID int64, limit int) ([]domain.HistoricalRecord, error) {
	var out []domain.HistoricalRecord
	for _, rec := range s.records {
		if rec.Involves(teamID) {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeHistoryStore) ListHeadToHead(_ context.Context, team1ID, team2ID int64, limit int) ([]domain.HistoricalRecord, error) {
	var out []domain.HistoricalRecord
	for _, rec := range s.records {
		if rec.Involves(team1ID) && rec.Involves(team2ID) {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeHistoryStore) ClaimUnevaluated(_ context.Context, limit int) ([]domain.HistoricalRecord, error) {
	now := time.Now()
	var out []domain.HistoricalRecord
	for i := range s.records {
		if s.records[i].EvaluatedAt != nil {
			continue
		}
		s.records[i].EvaluatedAt = &now
		out = append(out, s.records[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeHistoryStore) ClaimUntrained(_ context.Context, limit int) ([]domain.HistoricalRecord, error) {
	now := time.Now()
	var out []domain.HistoricalRecord
	for i := range s.records {
		if s.records[i].TrainedAt != nil {
			continue
		}
		s.records[i].TrainedAt = &now
		out = append(out, s.records[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeHistoryStore) Count(context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

type fakePredictionStore struct {
	preds []domain.Prediction
}

func (s *fakePredictionStore) Create(_ context.Context, p domain.Prediction) (domain.Prediction, error) {
	p.CreatedAt = time.Now()
	s.preds = append(s.preds, p)
	return p, nil
}

func (s *fakePredictionStore) GetByID(_ context.Context, id string) (domain.Prediction, error) {
	for _, p := range s.preds {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Prediction{}, domain.ErrNotFound
}

func (s *fakePredictionStore) ListByUser(_ context.Context, userID int64, _ domain.ListOpts) ([]domain.Prediction, error) {
	var out []domain.Prediction
	for _, p := range s.preds {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePredictionStore) Count(context.Context) (int64, error) {
	return int64(len(s.preds)), nil
}

type fakeMatchStore struct {
	matches map[int64]domain.Match
}

func newFakeMatchStore(matches ...domain.Match) *fakeMatchStore {
	s := &fakeMatchStore{matches: make(map[int64]domain.Match)}
	for _, m := range matches {
		s.matches[m.ID] = m
	}
	return s
}

func (s *fakeMatchStore) Create(_ context.Context, match domain.Match) (domain.Match, error) {
	match.ID = int64(len(s.matches) + 1)
	s.matches[match.ID] = match
	return match, nil
}

func (s *fakeMatchStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.matches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.matches, id)
	return nil
}

func (s *fakeMatchStore) GetByID(_ context.Context, id int64) (domain.Match, error) {
	match, ok := s.matches[id]
	if !ok {
		return domain.Match{}, domain.ErrNotFound
	}
	return match, nil
}

func (s *fakeMatchStore) List(_ context.Context, status domain.MatchStatus, _ domain.ListOpts) ([]domain.Match, error) {
	var out []domain.Match
	for _, m := range s.matches {
		if status == "" || m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) SettleResult(_ context.Context, id int64, homeScore, awayScore int, _ int64) (domain.Match, error) {
	match, ok := s.matches[id]
	if !ok {
		return domain.Match{}, domain.ErrNotFound
	}
	if match.Status == domain.MatchStatusFinished {
		return domain.Match{}, domain.ErrAlreadyExists
	}
	match.Status = domain.MatchStatusFinished
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	s.matches[id] = match
	return match, nil
}

type fakeUserStore struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u domain.User) (domain.User, error) {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.User{}, fmt.Errorf("fake user store: %w", domain.ErrAlreadyExists)
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) TouchLastLogin(_ context.Context, id int64) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	s.users[id] = u
	return nil
}

type fakeAuditStore struct {
	entries []domain.AuditEntry
}

func (s *fakeAuditStore) Log(_ context.Context, e domain.AuditEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeAuditStore) List(_ context.Context, _ domain.ListOpts) ([]domain.AuditEntry, error) {
	out := make([]domain.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
