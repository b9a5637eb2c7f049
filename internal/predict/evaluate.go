package predict

import "github.com/HEGATNB/kyrsach-basketball/internal/domain"

// Sample limits for the two evaluation passes.
const (
	EvaluateSampleLimit = 100
	TrainSampleLimit    = 10000
)

// NaiveWinner applies the baseline heuristic used to score the model
// against recorded outcomes: the team with the higher win-rate snapshot
// is predicted to win.
func NaiveWinner(rec domain.HistoricalRecord) int64 {
	if rec.Team1WinRate > rec.Team2WinRate {
		return rec.Team1ID
	}
	return rec.Team2ID
}

// EvaluateRecords scores the naive heuristic against the recorded actual
// winners and returns the correct and total counts.
func EvaluateRecords(records []domain.HistoricalRecord) (correct, total int) {
	for _, rec := range records {
		total++
		if NaiveWinner(rec) == rec.ActualWinnerID {
			correct++
		}
	}
	return correct, total
}
