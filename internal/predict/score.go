package predict

import (
	"math"
	"math/rand/v2"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// Score projection bounds and baseline.
const (
	leagueAverageScore = 110
	minProjectedScore  = 80
	maxProjectedScore  = 140
)

// JitterFunc produces the symmetric multiplicative perturbation applied to
// the projected scores. It must return a value in [0.95, 1.05]; the first
// score is multiplied by the draw and the second by its complement (2-r),
// approximately preserving total expected points.
type JitterFunc func() float64

// UniformJitter draws uniformly from [0.95, 1.05].
func UniformJitter() float64 {
	return 0.95 + rand.Float64()*0.1
}

// FixedJitter returns a JitterFunc that always yields r. Tests use this to
// pin the projection.
func FixedJitter(r float64) JitterFunc {
	return func() float64 { return r }
}

// ProjectScore estimates the final score. It splits a league-average
// baseline by win probability, blends 60/40 with each team's recent
// per-game scoring average when that team has recent games, nudges each
// side by up to ±10% of the offensive/defensive factor deviation from 0.5,
// applies the jitter, and clamps to [80, 140].
func ProjectScore(in Inputs, prob1 float64, f domain.Factors, jitter JitterFunc) (team1, team2 int) {
	score1 := leagueAverageScore * prob1
	score2 := leagueAverageScore * (1 - prob1)

	if avg, ok := recentScoringAverage(in.Team1.ID, in.Team1Recent); ok {
		score1 = score1*0.6 + avg*0.4
	}
	if avg, ok := recentScoringAverage(in.Team2.ID, in.Team2Recent); ok {
		score2 = score2*0.6 + avg*0.4
	}

	score1 *= 1 + (f.OffensiveStrength-0.5)*0.2
	score2 *= 1 + (f.DefensiveStrength-0.5)*0.2

	r := jitter()
	score1 *= r
	score2 *= 2 - r

	return clampScore(score1), clampScore(score2)
}

// recentScoringAverage is the team's mean points scored over its recent
// window. ok is false when the window is empty.
func recentScoringAverage(teamID int64, recent []domain.HistoricalRecord) (avg float64, ok bool) {
	var sum, n float64
	for _, rec := range recent {
		if scored, found := rec.ScoreFor(teamID); found {
			sum += float64(scored)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / n, true
}

func clampScore(s float64) int {
	return int(math.Round(math.Min(maxProjectedScore, math.Max(minProjectedScore, s))))
}
