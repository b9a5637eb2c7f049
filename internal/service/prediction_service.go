// Package service contains the application services that sit between the
// HTTP handlers and the domain stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/notify"
	"github.com/HEGATNB/kyrsach-basketball/internal/predict"
)

// Broadcaster pushes live events to connected clients. Implementations
// must never block the caller.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Notifier delivers operational alerts to external channels.
type Notifier interface {
	Notify(ctx context.Context, event, title, body string) error
}

// PredictionResult is the full response of a prediction request: the
// stored record plus the factors and the size of the training corpus that
// backed it.
type PredictionResult struct {
	domain.Prediction
	Factors            domain.Factors `json:"factors"`
	TrainingDataPoints int64          `json:"trainingDataPoints"`
}

// EvaluationResult reports one evaluation pass of the model.
type EvaluationResult struct {
	Accuracy   float64
	SampleSize int
}

// ModelStats aggregates counters for the admin stats endpoint.
type ModelStats struct {
	TotalPredictions  int64    `json:"totalPredictions"`
	TotalTrainingData int64    `json:"totalTrainingData"`
	Accuracy          *float64 `json:"accuracy"`
	ModelVersion      string   `json:"modelVersion"`
}

// PredictionService computes, stores, and evaluates match predictions.
type PredictionService struct {
	teams    domain.TeamStore
	matches  domain.MatchStore
	history  domain.HistoricalStore
	preds    domain.PredictionStore
	audit    domain.AuditStore
	cache    domain.TeamCache
	accuracy domain.AccuracyCache

	weights predict.Weights
	jitter  predict.JitterFunc

	fetchTimeout time.Duration
	hub          Broadcaster
	notifier     Notifier
	logger       *slog.Logger
}

// PredictionServiceParams bundles the dependencies of NewPredictionService.
// Cache, accuracy cache, hub and notifier are optional.
type PredictionServiceParams struct {
	Teams    domain.TeamStore
	Matches  domain.MatchStore
	History  domain.HistoricalStore
	Preds    domain.PredictionStore
	Audit    domain.AuditStore
	Cache    domain.TeamCache
	Accuracy domain.AccuracyCache

	Weights      predict.Weights
	Jitter       predict.JitterFunc
	FetchTimeout time.Duration
	Hub          Broadcaster
	Notifier     Notifier
	Logger       *slog.Logger
}

// NewPredictionService creates a PredictionService.
func NewPredictionService(p PredictionServiceParams) *PredictionService {
	if p.Jitter == nil {
		p.Jitter = predict.UniformJitter
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 10 * time.Second
	}
	return &PredictionService{
		teams:        p.Teams,
		matches:      p.Matches,
		history:      p.History,
		preds:        p.Preds,
		audit:        p.Audit,
		cache:        p.Cache,
		accuracy:     p.Accuracy,
		weights:      p.Weights,
		jitter:       p.Jitter,
		fetchTimeout: p.FetchTimeout,
		hub:          p.Hub,
		notifier:     p.Notifier,
		logger:       p.Logger,
	}
}

// Predict runs the full pipeline for one team pair: fetch both teams and
// their history windows in parallel, compute the seven factors, blend them
// into a win probability, project the score, and persist the prediction.
// Nothing is persisted if any earlier stage fails.
func (s *PredictionService) Predict(ctx context.Context, team1ID, team2ID, userID int64) (PredictionResult, error) {
	if team1ID == 0 || team2ID == 0 {
		return PredictionResult{}, fmt.Errorf("%w: both team ids are required", domain.ErrInvalidInput)
	}
	if team1ID == team2ID {
		return PredictionResult{}, fmt.Errorf("%w: teams must be different", domain.ErrInvalidInput)
	}

	in, err := s.fetchInputs(ctx, team1ID, team2ID)
	if err != nil {
		return PredictionResult{}, err
	}

	factors := predict.ComputeFactors(in)
	prob1, prob2 := s.weights.Blend(factors)
	score1, score2 := predict.ProjectScore(in, prob1, factors, s.jitter)
	confidence := predict.Confidence(
		len(in.Team1History)+len(in.Team2History),
		len(in.HeadToHead),
		len(in.Team1Recent)+len(in.Team2Recent),
	)

	trainingDataPoints, err := s.history.Count(ctx)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("prediction_service: count training data: %w", err)
	}

	saved, err := s.preds.Create(ctx, domain.Prediction{
		ID:                 uuid.NewString(),
		Team1ID:            team1ID,
		Team2ID:            team2ID,
		ProbabilityTeam1:   predict.RoundPercent(prob1),
		ProbabilityTeam2:   predict.RoundPercent(prob2),
		ExpectedScoreTeam1: score1,
		ExpectedScoreTeam2: score2,
		Confidence:         round2(confidence),
		ModelVersion:       domain.ModelVersion,
		UserID:             userID,
	})
	if err != nil {
		return PredictionResult{}, fmt.Errorf("prediction_service: save prediction: %w", err)
	}

	s.auditLog(ctx, domain.AuditEntry{
		UserID: userID,
		Action: "PREDICT",
		Entity: "Prediction",
		Detail: map[string]any{
			"predictionId":     saved.ID,
			"team1Id":          team1ID,
			"team2Id":          team2ID,
			"probabilityTeam1": saved.ProbabilityTeam1,
			"probabilityTeam2": saved.ProbabilityTeam2,
		},
	})

	result := PredictionResult{
		Prediction:         saved,
		Factors:            factors,
		TrainingDataPoints: trainingDataPoints,
	}
	if s.hub != nil {
		s.hub.Broadcast("prediction", result)
	}

	s.logger.InfoContext(ctx, "prediction_service: prediction computed",
		slog.String("prediction_id", saved.ID),
		slog.Int64("team1_id", team1ID),
		slog.Int64("team2_id", team2ID),
		slog.Float64("probability_team1", saved.ProbabilityTeam1),
	)
	return result, nil
}

// fetchInputs issues the seven reads concurrently and joins them under a
// single timeout. A slow or hung store call fails the whole request
// instead of blocking it indefinitely.
func (s *PredictionService) fetchInputs(ctx context.Context, team1ID, team2ID int64) (predict.Inputs, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var in predict.Inputs
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		team, err := s.getTeam(ctx, team1ID)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d: %w", team1ID, err)
		}
		in.Team1 = team
		return nil
	})
	g.Go(func() error {
		team, err := s.getTeam(ctx, team2ID)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d: %w", team2ID, err)
		}
		in.Team2 = team
		return nil
	})
	g.Go(func() error {
		recs, err := s.history.ListByTeam(ctx, team1ID, predict.HistoryWindow)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d history: %w", team1ID, err)
		}
		in.Team1History = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.history.ListByTeam(ctx, team2ID, predict.HistoryWindow)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d history: %w", team2ID, err)
		}
		in.Team2History = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.history.ListHeadToHead(ctx, team1ID, team2ID, predict.HeadToHeadWindow)
		if err != nil {
			return fmt.Errorf("prediction_service: head-to-head: %w", err)
		}
		in.HeadToHead = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.history.ListByTeam(ctx, team1ID, predict.RecentWindow)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d recent: %w", team1ID, err)
		}
		in.Team1Recent = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.history.ListByTeam(ctx, team2ID, predict.RecentWindow)
		if err != nil {
			return fmt.Errorf("prediction_service: team %d recent: %w", team2ID, err)
		}
		in.Team2Recent = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return predict.Inputs{}, err
	}
	return in, nil
}

// getTeam reads through the team cache when one is configured.
func (s *PredictionService) getTeam(ctx context.Context, id int64) (domain.Team, error) {
	if s.cache != nil {
		if team, err := s.cache.Get(ctx, id); err == nil {
			return team, nil
		}
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return domain.Team{}, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, team); cacheErr != nil {
			s.logger.WarnContext(ctx, "prediction_service: team cache set failed",
				slog.Int64("team_id", id),
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	return team, nil
}

// GetUserPredictions returns the caller's prediction history, newest first.
func (s *PredictionService) GetUserPredictions(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Prediction, error) {
	preds, err := s.preds.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("prediction_service: list user %d predictions: %w", userID, err)
	}
	return preds, nil
}

// GetPredictionByID returns one stored prediction.
func (s *PredictionService) GetPredictionByID(ctx context.Context, id string) (domain.Prediction, error) {
	p, err := s.preds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Prediction{}, domain.ErrNotFound
		}
		return domain.Prediction{}, fmt.Errorf("prediction_service: get prediction %s: %w", id, err)
	}
	return p, nil
}

// TrainOnMatch appends a historical record derived from a finished match
// and the teams' current aggregate stats.
func (s *PredictionService) TrainOnMatch(ctx context.Context, matchID, userID int64) (domain.HistoricalRecord, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.HistoricalRecord{}, domain.ErrNotFound
		}
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: get match %d: %w", matchID, err)
	}
	if !match.Finished() {
		return domain.HistoricalRecord{}, domain.ErrMatchNotFinished
	}

	home, err := s.teams.GetByID(ctx, match.HomeTeamID)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: home team %d: %w", match.HomeTeamID, err)
	}
	away, err := s.teams.GetByID(ctx, match.AwayTeamID)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: away team %d: %w", match.AwayTeamID, err)
	}

	homeRecent, err := s.history.ListByTeam(ctx, home.ID, predict.RecentWindow)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: home recent: %w", err)
	}
	awayRecent, err := s.history.ListByTeam(ctx, away.ID, predict.RecentWindow)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: away recent: %w", err)
	}
	headToHead, err := s.history.ListHeadToHead(ctx, home.ID, away.ID, predict.HeadToHeadWindow)
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: head-to-head: %w", err)
	}

	homeScore, awayScore := *match.HomeScore, *match.AwayScore
	diff := homeScore - awayScore
	if diff < 0 {
		diff = -diff
	}

	var homeH2H, awayH2H int
	for _, rec := range headToHead {
		switch rec.ActualWinnerID {
		case home.ID:
			homeH2H++
		case away.ID:
			awayH2H++
		}
	}

	created, err := s.history.Create(ctx, domain.HistoricalRecord{
		Team1ID:          home.ID,
		Team2ID:          away.ID,
		Season:           fmt.Sprintf("%d", match.Date.Year()),
		MatchDate:        match.Date,
		Team1WinRate:     home.WinRate(),
		Team1AvgScore:    home.PointsPerGame,
		Team1AvgConceded: home.PointsAgainst,
		Team2WinRate:     away.WinRate(),
		Team2AvgScore:    away.PointsPerGame,
		Team2AvgConceded: away.PointsAgainst,
		Team1Form:        formString(home.ID, homeRecent),
		Team2Form:        formString(away.ID, awayRecent),
		Team1H2HWins:     homeH2H,
		Team2H2HWins:     awayH2H,
		ActualWinnerID:   match.WinnerID(),
		ActualScore1:     homeScore,
		ActualScore2:     awayScore,
		PointDifference:  diff,
	})
	if err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("prediction_service: create historical record: %w", err)
	}

	s.auditLog(ctx, domain.AuditEntry{
		UserID:   userID,
		Action:   "TRAIN",
		Entity:   "HistoricalRecord",
		EntityID: created.ID,
		Detail:   map[string]any{"matchId": matchID},
	})

	s.logger.InfoContext(ctx, "prediction_service: trained on match",
		slog.Int64("match_id", matchID),
		slog.Int64("record_id", created.ID),
	)
	return created, nil
}

// Evaluate scores the naive win-rate heuristic over up to 100 of the most
// recent unevaluated historical records, marking each record evaluated as
// a side effect. With no unevaluated records left it returns
// ErrInsufficientData.
func (s *PredictionService) Evaluate(ctx context.Context) (EvaluationResult, error) {
	records, err := s.history.ClaimUnevaluated(ctx, predict.EvaluateSampleLimit)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("prediction_service: claim evaluation sample: %w", err)
	}
	if len(records) == 0 {
		return EvaluationResult{}, domain.ErrInsufficientData
	}

	correct, total := predict.EvaluateRecords(records)
	result := EvaluationResult{
		Accuracy:   float64(correct) / float64(total),
		SampleSize: total,
	}

	if s.accuracy != nil {
		if err := s.accuracy.Set(ctx, result.Accuracy, result.SampleSize); err != nil {
			s.logger.WarnContext(ctx, "prediction_service: accuracy cache set failed",
				slog.String("error", err.Error()),
			)
		}
	}

	if s.notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			body := fmt.Sprintf("Accuracy %.2f%% over %d finished matches", result.Accuracy*100, result.SampleSize)
			if err := s.notifier.Notify(nctx, notify.EventModelEvaluated, "Model evaluated", body); err != nil {
				s.logger.WarnContext(nctx, "prediction_service: alert delivery failed",
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	s.logger.InfoContext(ctx, "prediction_service: model evaluated",
		slog.Float64("accuracy", result.Accuracy),
		slog.Int("sample_size", result.SampleSize),
	)
	return result, nil
}

// BulkTrain runs the training pass over up to 10,000 untrained historical
// records, marking each as trained. It returns the heuristic's accuracy
// over the pass, or ErrInsufficientData when no untrained records remain.
func (s *PredictionService) BulkTrain(ctx context.Context) (EvaluationResult, error) {
	records, err := s.history.ClaimUntrained(ctx, predict.TrainSampleLimit)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("prediction_service: claim training sample: %w", err)
	}
	if len(records) == 0 {
		return EvaluationResult{}, domain.ErrInsufficientData
	}

	correct, total := predict.EvaluateRecords(records)
	result := EvaluationResult{
		Accuracy:   float64(correct) / float64(total),
		SampleSize: total,
	}

	s.logger.InfoContext(ctx, "prediction_service: bulk training pass complete",
		slog.Float64("accuracy", result.Accuracy),
		slog.Int("sample_size", result.SampleSize),
	)
	return result, nil
}

// Stats returns the admin counters. Accuracy comes from the cache of the
// most recent evaluation so reading stats does not consume evaluation
// data; it is nil when the model has never been evaluated.
func (s *PredictionService) Stats(ctx context.Context) (ModelStats, error) {
	totalPreds, err := s.preds.Count(ctx)
	if err != nil {
		return ModelStats{}, fmt.Errorf("prediction_service: count predictions: %w", err)
	}
	totalHist, err := s.history.Count(ctx)
	if err != nil {
		return ModelStats{}, fmt.Errorf("prediction_service: count historical records: %w", err)
	}

	stats := ModelStats{
		TotalPredictions:  totalPreds,
		TotalTrainingData: totalHist,
		ModelVersion:      domain.ModelVersion,
	}

	if s.accuracy != nil {
		accuracy, _, err := s.accuracy.Get(ctx)
		if err == nil {
			stats.Accuracy = &accuracy
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "prediction_service: accuracy cache get failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return stats, nil
}

// auditLog writes an audit entry, logging instead of failing the request
// when the audit store is unavailable.
func (s *PredictionService) auditLog(ctx context.Context, e domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "prediction_service: audit log failed",
			slog.String("action", e.Action),
			slog.String("error", err.Error()),
		)
	}
}

// formString renders the team's recent results as a "WLWW..." string,
// most recent first.
func formString(teamID int64, recent []domain.HistoricalRecord) string {
	form := make([]byte, 0, len(recent))
	for _, rec := range recent {
		scored, ok := rec.ScoreFor(teamID)
		if !ok {
			continue
		}
		conceded, _ := rec.ScoreAgainst(teamID)
		if scored > conceded {
			form = append(form, 'W')
		} else {
			form = append(form, 'L')
		}
	}
	return string(form)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
