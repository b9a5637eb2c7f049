package domain

import "time"

// Player is a roster entry belonging to a single team.
type Player struct {
	ID            int64     `json:"id"`
	TeamID        int64     `json:"teamId"`
	Name          string    `json:"name"`
	Position      string    `json:"position"`
	JerseyNumber  int       `json:"jerseyNumber,omitempty"`
	PointsPerGame float64   `json:"pointsPerGame"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
