package domain

import "time"

// ModelVersion tags every stored prediction with the blend that produced it.
const ModelVersion = "v3.0-ml-enhanced"

// Factors are the seven normalized input signals of the outcome blend.
// Each value is team1's relative share on a [0,1] scale.
type Factors struct {
	WinRate           float64 `json:"winRate"`
	HomeAdvantage     float64 `json:"homeAdvantage"`
	RecentForm        float64 `json:"recentForm"`
	HeadToHead        float64 `json:"headToHead"`
	OffensiveStrength float64 `json:"offensiveStrength"`
	DefensiveStrength float64 `json:"defensiveStrength"`
	PaceAdvantage     float64 `json:"paceAdvantage"`
}

// Prediction is one persisted prediction request outcome. Probabilities
// are percentages at one decimal and sum to 100 within rounding; expected
// scores are integers in [80,140].
type Prediction struct {
	ID                 string    `json:"id"`
	Team1ID            int64     `json:"team1Id"`
	Team2ID            int64     `json:"team2Id"`
	ProbabilityTeam1   float64   `json:"probabilityTeam1"`
	ProbabilityTeam2   float64   `json:"probabilityTeam2"`
	ExpectedScoreTeam1 int       `json:"expectedScoreTeam1"`
	ExpectedScoreTeam2 int       `json:"expectedScoreTeam2"`
	Confidence         float64   `json:"confidence"`
	ModelVersion       string    `json:"modelVersion"`
	UserID             int64     `json:"userId"`
	CreatedAt          time.Time `json:"createdAt"`
}
