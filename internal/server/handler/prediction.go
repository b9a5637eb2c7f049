package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
	"github.com/HEGATNB/kyrsach-basketball/internal/service"
)

// PredictionService is the slice of the prediction service this handler needs.
type PredictionService interface {
	Predict(ctx context.Context, team1ID, team2ID, userID int64) (service.PredictionResult, error)
	GetUserPredictions(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Prediction, error)
	GetPredictionByID(ctx context.Context, id string) (domain.Prediction, error)
	TrainOnMatch(ctx context.Context, matchID, userID int64) (domain.HistoricalRecord, error)
	Evaluate(ctx context.Context) (service.EvaluationResult, error)
	Stats(ctx context.Context) (service.ModelStats, error)
}

// PredictionHandler serves the prediction and model endpoints.
type PredictionHandler struct {
	svc    PredictionService
	logger *slog.Logger
}

// NewPredictionHandler creates a PredictionHandler.
func NewPredictionHandler(svc PredictionService, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{svc: svc, logger: logger}
}

type predictRequest struct {
	Team1ID int64 `json:"team1Id"`
	Team2ID int64 `json:"team2Id"`
}

// Predict computes and stores a prediction for a team pair.
// POST /api/predict
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	result, err := h.svc.Predict(r.Context(), req.Team1ID, req.Team2ID, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "prediction failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// My returns the caller's prediction history.
// GET /api/predictions/my
func (h *PredictionHandler) My(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication token")
		return
	}

	preds, err := h.svc.GetUserPredictions(r.Context(), claims.UserID, parseListOpts(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to list predictions")
		return
	}
	writeJSON(w, http.StatusOK, preds)
}

// Get returns a single stored prediction.
// GET /api/predictions/{id}
func (h *PredictionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing prediction id")
		return
	}

	pred, err := h.svc.GetPredictionByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to get prediction")
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// Train records a finished match as a training sample.
// POST /api/predictions/train/{matchId}
func (h *PredictionHandler) Train(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	rec, err := h.svc.TrainOnMatch(r.Context(), matchID, claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "training failed")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type evaluateResponse struct {
	Accuracy   *float64 `json:"accuracy"`
	Message    string   `json:"message"`
	SampleSize int      `json:"sampleSize,omitempty"`
}

// Evaluate runs one evaluation pass over unevaluated history. Accuracy is
// reported as a percentage; an empty sample is not an error and answers 200
// with a null accuracy.
// GET /api/predict/evaluate
func (h *PredictionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Evaluate(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			writeJSON(w, http.StatusOK, evaluateResponse{
				Message: "insufficient data to evaluate the model",
			})
			return
		}
		writeServiceError(w, r, h.logger, err, "evaluation failed")
		return
	}

	pct := math.Round(result.Accuracy*100*100) / 100
	writeJSON(w, http.StatusOK, evaluateResponse{
		Accuracy:   &pct,
		Message:    fmt.Sprintf("model accuracy: %.2f%%", pct),
		SampleSize: result.SampleSize,
	})
}

// Stats returns the model counters.
// GET /api/predict/stats
func (h *PredictionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
