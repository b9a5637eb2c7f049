package domain

import "time"

// Team is an NBA franchise together with its running season aggregates.
// Wins, losses and the per-game points averages are maintained by the
// match settlement flow; the prediction core only reads them.
type Team struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Arena         string    `json:"arena,omitempty"`
	FoundedYear   int       `json:"foundedYear,omitempty"`
	Conference    string    `json:"conference"`
	Division      string    `json:"division"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	PointsPerGame float64   `json:"pointsPerGame"`
	PointsAgainst float64   `json:"pointsAgainst"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GamesPlayed returns the number of finished games reflected in the
// team's win/loss aggregates.
func (t Team) GamesPlayed() int {
	return t.Wins + t.Losses
}

// WinRate returns wins over games played, or 0 for a team with no history.
func (t Team) WinRate() float64 {
	games := t.GamesPlayed()
	if games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(games)
}
