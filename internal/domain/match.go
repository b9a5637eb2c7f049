package domain

import "time"

// MatchStatus represents the lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
)

// Match is a scheduled or played game between two teams. Scores are nil
// until the match is settled.
type Match struct {
	ID          int64       `json:"id"`
	HomeTeamID  int64       `json:"homeTeamId"`
	AwayTeamID  int64       `json:"awayTeamId"`
	Date        time.Time   `json:"date"`
	Status      MatchStatus `json:"status"`
	HomeScore   *int        `json:"homeScore,omitempty"`
	AwayScore   *int        `json:"awayScore,omitempty"`
	CreatedByID int64       `json:"createdById,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Finished reports whether the match has been settled with a full score.
func (m Match) Finished() bool {
	return m.Status == MatchStatusFinished && m.HomeScore != nil && m.AwayScore != nil
}

// WinnerID returns the id of the winning team for a finished match.
func (m Match) WinnerID() int64 {
	if !m.Finished() {
		return 0
	}
	if *m.HomeScore > *m.AwayScore {
		return m.HomeTeamID
	}
	return m.AwayTeamID
}
