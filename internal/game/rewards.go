package game

import (
	"context"
	"math"

	"nuevoser/internal/config"
	"nuevoser/internal/model"
)

// Unlock is a non-currency bonus (special item or unit) produced by the
// external reward generator on success.
type Unlock struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// RewardGenerator is the external collaborator invoked only on success.
type RewardGenerator interface {
	Generate(ctx context.Context, userID string, m model.Mission) []Unlock
}

// computeRewards applies the multi-factor reward formula. streak is the
// count of consecutive past successes before this resolution; firstTime
// reports whether this crisis type has never been succeeded before.
func computeRewards(bal config.Balance, m model.Mission, success, firstTime bool, streak int) model.Rewards {
	mult := 1.0
	if !success {
		mult = bal.FailureMultiplier
	}
	if m.Cooperative {
		mult *= bal.CooperativeBonus
	}
	if m.CrisisScale == model.ScaleLocal {
		mult *= bal.LocalScaleMultiplier
	}
	if success {
		streakBonus := float64(streak) * bal.PerStreakBonus
		if streakBonus > bal.StreakCap-1 {
			streakBonus = bal.StreakCap - 1
		}
		mult *= 1 + streakBonus
	}

	r := model.Rewards{
		XP:            roundMult(m.BaseRewards.XP, mult),
		Consciousness: roundMult(m.BaseRewards.Consciousness, mult),
		Energy:        roundMult(m.BaseRewards.Energy, mult),
	}
	if success && firstTime {
		// Flat bonus, additive after the multipliers.
		r.XP += bal.FirstTimeXPBonus
	}
	return r
}

func roundMult(base int, mult float64) int {
	return int(math.Round(float64(base) * mult))
}
