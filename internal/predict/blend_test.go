package predict

import (
	"math"
	"testing"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("DefaultWeights().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	w := DefaultWeights()
	w.WinRate = 0.5
	if err := w.Validate(); err == nil {
		t.Fatal("Validate() = nil for weights summing past 1.0, want error")
	}
}

func TestBlendClampsToBounds(t *testing.T) {
	w := DefaultWeights()

	allOnes := domain.Factors{
		WinRate: 1, HomeAdvantage: 1, RecentForm: 1, HeadToHead: 1,
		OffensiveStrength: 1, DefensiveStrength: 1, PaceAdvantage: 1,
	}
	prob1, prob2 := w.Blend(allOnes)
	if prob1 != 0.95 {
		t.Errorf("Blend(all ones) prob1 = %v, want 0.95 after clamping", prob1)
	}
	if !almostEqual(prob1+prob2, 1) {
		t.Errorf("prob1+prob2 = %v, want 1", prob1+prob2)
	}

	allZeros := domain.Factors{}
	prob1, _ = w.Blend(allZeros)
	if prob1 != 0.05 {
		t.Errorf("Blend(all zeros) prob1 = %v, want 0.05 after clamping", prob1)
	}
}

func TestBlendNeutralFactors(t *testing.T) {
	// All factors at 0.5 except the constant home advantage: the blend
	// sits just above even money because of the home edge.
	f := domain.Factors{
		WinRate: 0.5, HomeAdvantage: 0.55, RecentForm: 0.5, HeadToHead: 0.5,
		OffensiveStrength: 0.5, DefensiveStrength: 0.5, PaceAdvantage: 0.5,
	}
	prob1, prob2 := DefaultWeights().Blend(f)
	if !almostEqual(prob1, 0.5075) {
		t.Errorf("Blend(neutral) prob1 = %v, want 0.5075", prob1)
	}
	if !almostEqual(RoundPercent(prob1)+RoundPercent(prob2), 100) {
		t.Errorf("rounded percents sum to %v, want 100",
			RoundPercent(prob1)+RoundPercent(prob2))
	}
}

func TestBlendIsWeightedNotWinnerTakeAll(t *testing.T) {
	// Team A with a 0.70 win rate over 50 games vs team B at 0.40, no
	// recent games and no head-to-head: only the winRate factor moves off
	// 0.5, so the result must land strictly between even money and the
	// winRate factor itself.
	teamA := domain.Team{ID: 1, Wins: 35, Losses: 15}
	teamB := domain.Team{ID: 2, Wins: 20, Losses: 30}

	in := Inputs{
		Team1:        teamA,
		Team2:        teamB,
		Team1History: history(1, 3, 35, 15),
		Team2History: history(2, 3, 20, 30),
	}
	f := ComputeFactors(in)

	wantWinRate := 0.7 / (0.7 + 0.4)
	if !almostEqual(f.WinRate, wantWinRate) {
		t.Fatalf("winRate factor = %v, want %v", f.WinRate, wantWinRate)
	}
	if !almostEqual(f.RecentForm, 0.5) || !almostEqual(f.HeadToHead, 0.5) {
		t.Fatalf("recentForm/headToHead = %v/%v, want 0.5 defaults", f.RecentForm, f.HeadToHead)
	}

	prob1, _ := DefaultWeights().Blend(f)
	if prob1 <= 0.5 || prob1 >= f.WinRate {
		t.Errorf("prob1 = %v, want strictly between 0.5 and %v", prob1, f.WinRate)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name               string
		total, h2h, recent int
		want               float64
	}{
		{"no data", 0, 0, 0, 0.5},
		{"partial sample", 200, 3, 2, 0.5 + 0.1 + 0.1 + 0.1},
		{"caps reached", 5000, 100, 100, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.total, tt.h2h, tt.recent); !almostEqual(got, tt.want) {
				t.Errorf("Confidence(%d, %d, %d) = %v, want %v",
					tt.total, tt.h2h, tt.recent, got, tt.want)
			}
		})
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	prev := 0.0
	for _, total := range []int{0, 10, 100, 1000, 10000} {
		got := Confidence(total, 0, 0)
		if got < prev {
			t.Fatalf("Confidence decreased from %v to %v at total=%d", prev, got, total)
		}
		prev = got
	}
}

func TestRoundPercent(t *testing.T) {
	if got := RoundPercent(0.63636); !almostEqual(got, 63.6) {
		t.Errorf("RoundPercent(0.63636) = %v, want 63.6", got)
	}
	if got := RoundPercent(1); !almostEqual(got, 100) {
		t.Errorf("RoundPercent(1) = %v, want 100", got)
	}
}

func TestProbabilityInvariants(t *testing.T) {
	// For a spread of factor vectors, probabilities stay in [5,95] percent
	// and sum to 100 within rounding.
	w := DefaultWeights()
	for _, v := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		f := domain.Factors{
			WinRate: v, HomeAdvantage: 0.55, RecentForm: v, HeadToHead: v,
			OffensiveStrength: v, DefensiveStrength: v, PaceAdvantage: v,
		}
		prob1, prob2 := w.Blend(f)
		p1, p2 := RoundPercent(prob1), RoundPercent(prob2)
		if p1 < 5 || p1 > 95 || p2 < 5 || p2 > 95 {
			t.Errorf("v=%v: percents %v/%v outside [5,95]", v, p1, p2)
		}
		if math.Abs(p1+p2-100) > 0.1 {
			t.Errorf("v=%v: percents sum to %v, want 100 within rounding", v, p1+p2)
		}
	}
}
