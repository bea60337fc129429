package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nuevoser/internal/config"
	"nuevoser/internal/model"
)

func TestSuccessProbability_RatioCurve(t *testing.T) {
	bal := config.DefaultBalance()
	required := map[string]int{"action": 100}
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"action": 130}},
	}

	p, bd := SuccessProbability(bal, required, beings, model.CrisisEcological, model.ScaleRegional)

	assert.InDelta(t, 1.3, bd.Ratio, 1e-9)
	assert.InDelta(t, 0.64, bd.Base, 1e-9)
	assert.Empty(t, bd.Synergies)
	assert.Zero(t, bd.CriticalPenalty)
	assert.InDelta(t, 0.64, p, 1e-9)
}

func TestSuccessProbability_BaseIsCapped(t *testing.T) {
	bal := config.DefaultBalance()
	required := map[string]int{"action": 10}
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"action": 100}},
	}

	_, bd := SuccessProbability(bal, required, beings, model.CrisisEcological, model.ScaleRegional)
	assert.InDelta(t, bal.BaseCap, bd.Base, 1e-9)
}

func TestSuccessProbability_NoRequiredAttributes(t *testing.T) {
	bal := config.DefaultBalance()
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"wisdom": 10}},
	}

	_, bd := SuccessProbability(bal, nil, beings, model.CrisisSpiritual, model.ScaleRegional)

	assert.Zero(t, bd.Ratio)
	assert.InDelta(t, bal.DefaultRatioProb, bd.Base, 1e-9)
}

func TestSuccessProbability_SynergyFiresOnTeamSums(t *testing.T) {
	bal := config.DefaultBalance()
	required := map[string]int{"empathy": 60, "communication": 40}
	// Neither being clears the floor alone; the team sums do.
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"empathy": 20, "communication": 20}},
		{ID: "b2", Attributes: map[string]int{"empathy": 15, "communication": 20}},
	}

	p, bd := SuccessProbability(bal, required, beings, model.CrisisSocial, model.ScaleLocal)

	assert.Equal(t, []string{"compassionate_voice"}, bd.Synergies)
	assert.InDelta(t, 0.15, bd.SynergyBonus, 1e-9)
	assert.InDelta(t, 0.02, bd.TeamBonus, 1e-9)
	// ratio 75/100 -> base 0.475, plus synergy and pair bonus
	assert.InDelta(t, 0.645, p, 1e-9)
}

func TestSuccessProbability_CriticalPenaltyPerAttribute(t *testing.T) {
	bal := config.DefaultBalance()
	required := map[string]int{"empathy": 100, "communication": 100}
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"wisdom": 10}},
	}

	_, bd := SuccessProbability(bal, required, beings, model.CrisisSocial, model.ScaleRegional)

	// Both social criticals are under half-covered.
	assert.InDelta(t, 0.30, bd.CriticalPenalty, 1e-9)
}

func TestSuccessProbability_ClampedToFloorAndCeiling(t *testing.T) {
	bal := config.DefaultBalance()

	low, bd := SuccessProbability(bal,
		map[string]int{"empathy": 100, "communication": 100},
		[]model.Being{{ID: "b1", Attributes: map[string]int{}}},
		model.CrisisSocial, model.ScaleRegional)
	assert.InDelta(t, bal.MinProbability, low, 1e-9)
	assert.InDelta(t, bal.MinProbability, bd.Final, 1e-9)

	high, _ := SuccessProbability(bal,
		map[string]int{"wisdom": 10},
		[]model.Being{{ID: "b1", Attributes: map[string]int{
			"wisdom": 100, "consciousness": 50, "empathy": 40, "communication": 40,
		}}},
		model.CrisisSpiritual, model.ScaleRegional)
	assert.InDelta(t, bal.MaxProbability, high, 1e-9)
}

func TestSuccessProbability_Deterministic(t *testing.T) {
	bal := config.DefaultBalance()
	required := map[string]int{"action": 40, "wisdom": 20}
	beings := []model.Being{
		{ID: "b1", Attributes: map[string]int{"action": 50, "courage": 40}},
		{ID: "b2", Attributes: map[string]int{"wisdom": 40, "consciousness": 45}},
	}

	p1, bd1 := SuccessProbability(bal, required, beings, model.CrisisEcological, model.ScaleLocal)
	p2, bd2 := SuccessProbability(bal, required, beings, model.CrisisEcological, model.ScaleLocal)

	assert.Equal(t, p1, p2)
	assert.Equal(t, bd1, bd2)
}

func TestTeamBonusTable(t *testing.T) {
	bal := config.DefaultBalance()

	assert.Zero(t, bal.TeamBonus(0))
	assert.Zero(t, bal.TeamBonus(1))
	assert.InDelta(t, 0.02, bal.TeamBonus(2), 1e-9)
	assert.InDelta(t, 0.04, bal.TeamBonus(3), 1e-9)
	assert.InDelta(t, 0.05, bal.TeamBonus(4), 1e-9)
	// sizes beyond the table reuse the last entry
	assert.InDelta(t, 0.05, bal.TeamBonus(9), 1e-9)
}
