// Package predict implements the match outcome model: seven normalized
// matchup factors, the fixed-weight blend that turns them into a win
// probability, the expected score projection, and the naive evaluation
// heuristic. Everything here is deterministic given its inputs; the only
// randomness is the score jitter, which is injected so tests can pin it.
package predict

import (
	"math"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// Window sizes for the three history query shapes.
const (
	HistoryWindow    = 100
	RecentWindow     = 10
	HeadToHeadWindow = 20
)

const (
	homeAdvantage = 0.55
	defaultPoints = 105 // fallback when a team has no scoring data at all
	defaultPace   = 100 // fallback combined score for an empty recent window
)

// Inputs bundles everything the factor calculator needs: both team rows
// and the five history windows fetched by the aggregator.
type Inputs struct {
	Team1        domain.Team
	Team2        domain.Team
	Team1History []domain.HistoricalRecord
	Team2History []domain.HistoricalRecord
	HeadToHead   []domain.HistoricalRecord
	Team1Recent  []domain.HistoricalRecord
	Team2Recent  []domain.HistoricalRecord
}

// safeRatio returns x's share of x+y, or fallback when both are zero or
// the ratio would otherwise be undefined.
func safeRatio(x, y, fallback float64) float64 {
	denom := x + y
	if denom <= 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return fallback
	}
	return x / denom
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// ComputeFactors turns the raw inputs into the seven factors, each clamped
// to [0,1] and expressed as team1's relative share.
func ComputeFactors(in Inputs) domain.Factors {
	rate1 := historicalWinRate(in.Team1.ID, in.Team1History)
	rate2 := historicalWinRate(in.Team2.ID, in.Team2History)

	form1 := weightedForm(in.Team1.ID, in.Team1Recent)
	form2 := weightedForm(in.Team2.ID, in.Team2Recent)

	off1 := blendedOffense(in.Team1, in.Team1Recent)
	off2 := blendedOffense(in.Team2, in.Team2Recent)

	def1 := blendedDefense(in.Team1, in.Team1Recent)
	def2 := blendedDefense(in.Team2, in.Team2Recent)

	f := domain.Factors{
		WinRate:           safeRatio(rate1, rate2, 0.5),
		HomeAdvantage:     homeAdvantage,
		RecentForm:        safeRatio(form1, form2, 0.5),
		HeadToHead:        headToHeadFactor(in.Team1.ID, in.HeadToHead),
		OffensiveStrength: safeRatio(off1, off2, 0.5),
		DefensiveStrength: safeRatio(1/def1, 1/def2, 0.5),
		PaceAdvantage:     safeRatio(averagePace(in.Team1Recent), averagePace(in.Team2Recent), 0.5),
	}

	f.WinRate = clamp01(f.WinRate)
	f.HomeAdvantage = clamp01(f.HomeAdvantage)
	f.RecentForm = clamp01(f.RecentForm)
	f.HeadToHead = clamp01(f.HeadToHead)
	f.OffensiveStrength = clamp01(f.OffensiveStrength)
	f.DefensiveStrength = clamp01(f.DefensiveStrength)
	f.PaceAdvantage = clamp01(f.PaceAdvantage)
	return f
}

// historicalWinRate is the team's win fraction over its history window.
// A team with no history defaults to 0.5.
func historicalWinRate(teamID int64, history []domain.HistoricalRecord) float64 {
	if len(history) == 0 {
		return 0.5
	}
	var wins, total int
	for _, rec := range history {
		if !rec.Involves(teamID) {
			continue
		}
		total++
		if rec.ActualWinnerID == teamID {
			wins++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(wins) / float64(total)
}

// weightedForm is the linearly decayed recent win fraction: the most
// recent game carries weight 1.0, each older game 0.1 less, over at most
// RecentWindow games. An empty window defaults to 0.5.
func weightedForm(teamID int64, recent []domain.HistoricalRecord) float64 {
	if len(recent) == 0 {
		return 0.5
	}
	if len(recent) > RecentWindow {
		recent = recent[:RecentWindow]
	}

	var totalWeight, weightedWins float64
	for i, rec := range recent {
		weight := 1 - 0.1*float64(i)
		totalWeight += weight

		scored, ok := rec.ScoreFor(teamID)
		if !ok {
			continue
		}
		conceded, _ := rec.ScoreAgainst(teamID)
		if scored > conceded {
			weightedWins += weight
		}
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weightedWins / totalWeight
}

// headToHeadFactor is team1's win share of the head-to-head window, or 0.5
// when the two teams have never met.
func headToHeadFactor(team1ID int64, headToHead []domain.HistoricalRecord) float64 {
	if len(headToHead) == 0 {
		return 0.5
	}
	var team1Wins int
	for _, rec := range headToHead {
		if rec.ActualWinnerID == team1ID {
			team1Wins++
		}
	}
	return float64(team1Wins) / float64(len(headToHead))
}

// blendedOffense mixes the season points-for average (weight 0.7) with the
// recent-window average scored (weight 0.3). With no recent games it falls
// back to the season average alone, and to a league-typical default when
// the team has no scoring data at all.
func blendedOffense(team domain.Team, recent []domain.HistoricalRecord) float64 {
	season := team.PointsPerGame
	if len(recent) == 0 {
		if season <= 0 {
			return defaultPoints
		}
		return season
	}

	var sum, n float64
	for _, rec := range recent {
		if scored, ok := rec.ScoreFor(team.ID); ok {
			sum += float64(scored)
			n++
		}
	}
	if n == 0 {
		if season <= 0 {
			return defaultPoints
		}
		return season
	}
	return season*0.7 + (sum/n)*0.3
}

// blendedDefense is the points-conceded analogue of blendedOffense. The
// result is always positive so the inverse-ratio defensive factor is
// well defined.
func blendedDefense(team domain.Team, recent []domain.HistoricalRecord) float64 {
	season := team.PointsAgainst
	var def float64
	if len(recent) == 0 {
		def = season
	} else {
		var sum, n float64
		for _, rec := range recent {
			if conceded, ok := rec.ScoreAgainst(team.ID); ok {
				sum += float64(conceded)
				n++
			}
		}
		if n == 0 {
			def = season
		} else {
			def = season*0.7 + (sum/n)*0.3
		}
	}
	if def <= 0 {
		return defaultPoints
	}
	return def
}

// averagePace is the mean combined score across the recent window.
func averagePace(recent []domain.HistoricalRecord) float64 {
	if len(recent) == 0 {
		return defaultPace
	}
	var sum float64
	for _, rec := range recent {
		sum += float64(rec.ActualScore1 + rec.ActualScore2)
	}
	return sum / float64(len(recent))
}
