package domain

import "time"

// HistoricalRecord is an immutable snapshot of a played match used by the
// prediction model. Team order is significant: team1 is the home/first
// side. The only mutable parts are the EvaluatedAt and TrainedAt markers,
// each of which transitions nil -> set exactly once.
type HistoricalRecord struct {
	ID               int64      `json:"id"`
	Team1ID          int64      `json:"team1Id"`
	Team2ID          int64      `json:"team2Id"`
	Season           string     `json:"season"`
	MatchDate        time.Time  `json:"matchDate"`
	Team1WinRate     float64    `json:"team1WinRate"`
	Team1AvgScore    float64    `json:"team1AvgScore"`
	Team1AvgConceded float64    `json:"team1AvgConceded"`
	Team2WinRate     float64    `json:"team2WinRate"`
	Team2AvgScore    float64    `json:"team2AvgScore"`
	Team2AvgConceded float64    `json:"team2AvgConceded"`
	Team1Form        string     `json:"team1Form,omitempty"`
	Team2Form        string     `json:"team2Form,omitempty"`
	Team1H2HWins     int        `json:"team1H2hWins"`
	Team2H2HWins     int        `json:"team2H2hWins"`
	ActualWinnerID   int64      `json:"actualWinnerId"`
	ActualScore1     int        `json:"actualScore1"`
	ActualScore2     int        `json:"actualScore2"`
	PointDifference  int        `json:"pointDifference"`
	EvaluatedAt      *time.Time `json:"evaluatedAt,omitempty"`
	TrainedAt        *time.Time `json:"trainedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Involves reports whether the given team played in the recorded match.
func (r HistoricalRecord) Involves(teamID int64) bool {
	return r.Team1ID == teamID || r.Team2ID == teamID
}

// ScoreFor returns the points scored by the given team in this record.
// The second return is false when the team did not play in the match.
func (r HistoricalRecord) ScoreFor(teamID int64) (int, bool) {
	switch teamID {
	case r.Team1ID:
		return r.ActualScore1, true
	case r.Team2ID:
		return r.ActualScore2, true
	default:
		return 0, false
	}
}

// ScoreAgainst returns the points conceded by the given team.
func (r HistoricalRecord) ScoreAgainst(teamID int64) (int, bool) {
	switch teamID {
	case r.Team1ID:
		return r.ActualScore2, true
	case r.Team2ID:
		return r.ActualScore1, true
	default:
		return 0, false
	}
}
