package game

import (
	"sort"

	"nuevoser/internal/config"
	"nuevoser/internal/model"
)

// Synergy is a fixed attribute pair that grants a probability bonus when
// both team sums reach the floor.
type Synergy struct {
	Name  string
	A, B  string
	Bonus float64
}

// SynergyRegistry is the authoritative synergy table.
var SynergyRegistry = []Synergy{
	{Name: "compassionate_voice", A: "empathy", B: "communication", Bonus: 0.15},
	{Name: "guiding_hand", A: "leadership", B: "strategy", Bonus: 0.18},
	{Name: "awakened_mind", A: "wisdom", B: "consciousness", Bonus: 0.25},
	{Name: "fearless_deed", A: "courage", B: "action", Bonus: 0.20},
	{Name: "inspired_spark", A: "creativity", B: "innovation", Bonus: 0.12},
}

// CriticalAttributes maps each crisis type to the attributes a team cannot
// afford to under-cover.
var CriticalAttributes = map[model.CrisisType][]string{
	model.CrisisEcological:    {"action", "wisdom"},
	model.CrisisSocial:        {"empathy", "communication"},
	model.CrisisSpiritual:     {"consciousness", "wisdom"},
	model.CrisisEducational:   {"communication", "creativity"},
	model.CrisisHumanitarian:  {"empathy", "action"},
	model.CrisisTechnological: {"innovation", "strategy"},
}

// TeamAttributes sums each attribute across the deployed beings.
func TeamAttributes(beings []model.Being) map[string]int {
	team := map[string]int{}
	for _, b := range beings {
		for name, score := range b.Attributes {
			team[name] += score
		}
	}
	return team
}

// SuccessProbability computes the mission success chance and its
// breakdown. Pure: same inputs always produce the same output. The result
// is computed once at deployment and stored on the mission; it is never
// recomputed at resolution time.
func SuccessProbability(bal config.Balance, required map[string]int, beings []model.Being, ctype model.CrisisType, scale model.CrisisScale) (float64, model.ProbabilityBreakdown) {
	_ = scale // scale affects rewards, not odds

	team := TeamAttributes(beings)
	bd := model.ProbabilityBreakdown{}

	// Ratio of covered requirement to total requirement.
	totalRequired := 0
	totalTeam := 0
	for name, req := range required {
		totalRequired += req
		totalTeam += team[name]
	}
	if totalRequired == 0 {
		bd.Ratio = 0
		bd.Base = bal.DefaultRatioProb
	} else {
		bd.Ratio = float64(totalTeam) / float64(totalRequired)
		bd.Base = bal.BaseOffset + bd.Ratio*bal.RatioSlope
		if bd.Base > bal.BaseCap {
			bd.Base = bal.BaseCap
		}
	}

	// Synergies fire when both attributes clear the floor.
	for _, s := range SynergyRegistry {
		if team[s.A] >= bal.SynergyFloor && team[s.B] >= bal.SynergyFloor {
			bd.Synergies = append(bd.Synergies, s.Name)
			bd.SynergyBonus += s.Bonus
		}
	}
	sort.Strings(bd.Synergies)

	// Critical-attribute penalty: under-covered criticals hurt.
	for _, name := range CriticalAttributes[ctype] {
		req, ok := required[name]
		if !ok || req == 0 {
			continue
		}
		if float64(team[name]) < float64(req)*bal.CriticalFraction {
			bd.CriticalPenalty += bal.CriticalPenalty
		}
	}

	bd.TeamBonus = bal.TeamBonus(len(beings))

	p := bd.Base + bd.SynergyBonus + bd.TeamBonus - bd.CriticalPenalty
	if p < bal.MinProbability {
		p = bal.MinProbability
	}
	if p > bal.MaxProbability {
		p = bal.MaxProbability
	}
	bd.Final = p
	return p, bd
}
