package predict

import (
	"fmt"
	"math"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// Probability clamp: the model never reports full certainty.
const (
	minProbability = 0.05
	maxProbability = 0.95
)

// Weights is the fixed weight vector applied to the seven factors. It is
// an explicit configuration value rather than hidden model state so the
// blend stays a pure function of its inputs.
type Weights struct {
	WinRate           float64 `toml:"win_rate"`
	HomeAdvantage     float64 `toml:"home_advantage"`
	RecentForm        float64 `toml:"recent_form"`
	HeadToHead        float64 `toml:"head_to_head"`
	OffensiveStrength float64 `toml:"offensive_strength"`
	DefensiveStrength float64 `toml:"defensive_strength"`
	PaceAdvantage     float64 `toml:"pace_advantage"`
}

// DefaultWeights returns the production weight vector. The weights sum
// to 1.0 so the blended probability stays inside [0,1] before clamping.
func DefaultWeights() Weights {
	return Weights{
		WinRate:           0.25,
		HomeAdvantage:     0.15,
		RecentForm:        0.20,
		HeadToHead:        0.15,
		OffensiveStrength: 0.10,
		DefensiveStrength: 0.10,
		PaceAdvantage:     0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.WinRate + w.HomeAdvantage + w.RecentForm + w.HeadToHead +
		w.OffensiveStrength + w.DefensiveStrength + w.PaceAdvantage
}

// Validate rejects weight vectors that do not sum to 1.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("predict: weights sum to %.4f, want 1.0", w.Sum())
	}
	return nil
}

// Blend combines the factors into team1's win probability, clamped to
// [0.05, 0.95]. Team2's probability is the complement.
func (w Weights) Blend(f domain.Factors) (prob1, prob2 float64) {
	prob1 = f.WinRate*w.WinRate +
		f.HomeAdvantage*w.HomeAdvantage +
		f.RecentForm*w.RecentForm +
		f.HeadToHead*w.HeadToHead +
		f.OffensiveStrength*w.OffensiveStrength +
		f.DefensiveStrength*w.DefensiveStrength +
		f.PaceAdvantage*w.PaceAdvantage

	prob1 = math.Min(maxProbability, math.Max(minProbability, prob1))
	return prob1, 1 - prob1
}

// Confidence measures how much historical sample backs a prediction,
// independent of the probability itself. It starts at 0.5 and adds up to
// 0.20 for overall history (2000-game scale), 0.15 for head-to-head
// sample (30-game scale), and 0.15 for recent sample (20-game scale), so
// the maximum attainable value is exactly 1.0.
func Confidence(totalGames, headToHeadGames, recentGames int) float64 {
	confidence := 0.5
	confidence += math.Min(0.2, float64(totalGames)/2000)
	confidence += math.Min(0.15, float64(headToHeadGames)/30)
	confidence += math.Min(0.15, float64(recentGames)/20)
	return confidence
}

// RoundPercent converts a [0,1] probability to a percentage with one
// decimal of precision, the form stored on prediction records.
func RoundPercent(p float64) float64 {
	return math.Round(p*1000) / 10
}
