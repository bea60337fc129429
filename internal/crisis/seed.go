package crisis

import "nuevoser/internal/model"

// SeedCrises returns the starter crisis catalog.
func SeedCrises() []model.Crisis {
	return []model.Crisis{
		{
			ID:    "c_river_cleanup",
			Title: "River Cleanup",
			Type:  model.CrisisEcological,
			Scale: model.ScaleLocal,
			RequiredAttributes: map[string]int{
				"action": 40,
				"wisdom": 20,
			},
			Urgency:         2,
			BaseDurationMin: 30,
			BaseRewards:     model.Rewards{XP: 40, Consciousness: 10, Energy: 5},
			Active:          true,
			Lat:             43.263, Lon: -2.935,
		},
		{
			ID:    "c_community_mediation",
			Title: "Community Mediation",
			Type:  model.CrisisSocial,
			Scale: model.ScaleLocal,
			RequiredAttributes: map[string]int{
				"empathy":       60,
				"communication": 40,
			},
			Urgency:         3,
			BaseDurationMin: 45,
			BaseRewards:     model.Rewards{XP: 60, Consciousness: 20, Energy: 0},
			Active:          true,
		},
		{
			ID:    "c_silent_retreat",
			Title: "Silent Retreat Support",
			Type:  model.CrisisSpiritual,
			Scale: model.ScaleRegional,
			RequiredAttributes: map[string]int{
				"consciousness": 50,
				"wisdom":        50,
			},
			Urgency:         1,
			BaseDurationMin: 120,
			BaseRewards:     model.Rewards{XP: 80, Consciousness: 40, Energy: 0},
			Active:          true,
		},
		{
			ID:    "c_open_school",
			Title: "Open School Workshop",
			Type:  model.CrisisEducational,
			Scale: model.ScaleRegional,
			RequiredAttributes: map[string]int{
				"communication": 50,
				"creativity":    30,
			},
			Urgency:         2,
			BaseDurationMin: 60,
			BaseRewards:     model.Rewards{XP: 55, Consciousness: 15, Energy: 0},
			Active:          true,
		},
		{
			ID:    "c_refugee_relief",
			Title: "Refugee Relief Convoy",
			Type:  model.CrisisHumanitarian,
			Scale: model.ScaleGlobal,
			RequiredAttributes: map[string]int{
				"empathy": 70,
				"action":  60,
				"courage": 40,
			},
			Urgency:         5,
			BaseDurationMin: 180,
			BaseRewards:     model.Rewards{XP: 150, Consciousness: 50, Energy: 0},
			Active:          true,
		},
		{
			ID:    "c_open_source_grid",
			Title: "Open Source Energy Grid",
			Type:  model.CrisisTechnological,
			Scale: model.ScaleGlobal,
			RequiredAttributes: map[string]int{
				"innovation": 60,
				"strategy":   50,
			},
			Urgency:         3,
			BaseDurationMin: 240,
			BaseRewards:     model.Rewards{XP: 120, Consciousness: 30, Energy: 0},
			Active:          true,
		},
	}
}
