package predict

import (
	"testing"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func neutralFactors() domain.Factors {
	return domain.Factors{
		WinRate: 0.5, HomeAdvantage: 0.55, RecentForm: 0.5, HeadToHead: 0.5,
		OffensiveStrength: 0.5, DefensiveStrength: 0.5, PaceAdvantage: 0.5,
	}
}

func TestProjectScorePinnedJitter(t *testing.T) {
	// No recent games, neutral factors, even probability and a unit
	// jitter: both sides project to half the league average, clamped up
	// to the 80-point floor.
	in := Inputs{
		Team1: domain.Team{ID: 1},
		Team2: domain.Team{ID: 2},
	}
	s1, s2 := ProjectScore(in, 0.5, neutralFactors(), FixedJitter(1))
	if s1 != 80 || s2 != 80 {
		t.Errorf("ProjectScore = %d/%d, want 80/80 (55 clamped to the floor)", s1, s2)
	}
}

func TestProjectScoreUsesRecentAverages(t *testing.T) {
	in := Inputs{
		Team1:       domain.Team{ID: 1},
		Team2:       domain.Team{ID: 2},
		Team1Recent: []domain.HistoricalRecord{playedRecord(1, 3, 120, 100)},
		Team2Recent: []domain.HistoricalRecord{playedRecord(2, 3, 90, 100)},
	}
	// base 55 each; team1: 55*0.6 + 120*0.4 = 81, team2: 55*0.6 + 90*0.4 = 69 -> clamped to 80.
	s1, s2 := ProjectScore(in, 0.5, neutralFactors(), FixedJitter(1))
	if s1 != 81 {
		t.Errorf("team1 score = %d, want 81", s1)
	}
	if s2 != 80 {
		t.Errorf("team2 score = %d, want 80 after floor clamp", s2)
	}
}

func TestProjectScoreBounds(t *testing.T) {
	// Sweep probabilities and jitter extremes; scores must stay integers
	// in [80,140].
	in := Inputs{
		Team1:       domain.Team{ID: 1},
		Team2:       domain.Team{ID: 2},
		Team1Recent: history(1, 2, 10, 0),
		Team2Recent: history(2, 1, 0, 10),
	}
	for _, prob1 := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
		for _, r := range []float64{0.95, 1.0, 1.05} {
			s1, s2 := ProjectScore(in, prob1, neutralFactors(), FixedJitter(r))
			for _, s := range []int{s1, s2} {
				if s < 80 || s > 140 {
					t.Errorf("prob1=%v r=%v: score %d outside [80,140]", prob1, r, s)
				}
			}
		}
	}
}

func TestProjectScoreJitterIsComplementary(t *testing.T) {
	in := Inputs{
		Team1:       domain.Team{ID: 1},
		Team2:       domain.Team{ID: 2},
		Team1Recent: []domain.HistoricalRecord{playedRecord(1, 3, 110, 100)},
		Team2Recent: []domain.HistoricalRecord{playedRecord(2, 3, 110, 100)},
	}
	f := neutralFactors()

	up1, down2 := ProjectScore(in, 0.5, f, FixedJitter(1.05))
	down1, up2 := ProjectScore(in, 0.5, f, FixedJitter(0.95))

	if up1 <= down1 {
		t.Errorf("team1 score did not increase with jitter: %d vs %d", up1, down1)
	}
	if up2 <= down2 {
		t.Errorf("team2 score did not increase with complementary jitter: %d vs %d", up2, down2)
	}
}

func TestUniformJitterRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		r := UniformJitter()
		if r < 0.95 || r > 1.05 {
			t.Fatalf("UniformJitter() = %v, outside [0.95, 1.05]", r)
		}
	}
}

func TestOffensiveNudgeMovesScore(t *testing.T) {
	in := Inputs{
		Team1:       domain.Team{ID: 1},
		Team2:       domain.Team{ID: 2},
		Team1Recent: []domain.HistoricalRecord{playedRecord(1, 3, 110, 100)},
		Team2Recent: []domain.HistoricalRecord{playedRecord(2, 3, 110, 100)},
	}
	strong := neutralFactors()
	strong.OffensiveStrength = 1.0

	base1, _ := ProjectScore(in, 0.5, neutralFactors(), FixedJitter(1))
	nudged1, _ := ProjectScore(in, 0.5, strong, FixedJitter(1))
	if nudged1 <= base1 {
		t.Errorf("offensive nudge did not raise team1 score: %d vs %d", nudged1, base1)
	}
}
