package being

import "nuevoser/internal/model"

// SeedBeings returns the starter roster for a new user.
func SeedBeings() []model.Being {
	return []model.Being{
		{
			ID:   "b_amara",
			Name: "Amara",
			Attributes: map[string]int{
				"empathy":       45,
				"communication": 35,
				"wisdom":        20,
			},
			Energy: 100,
			Status: model.StatusAvailable,
		},
		{
			ID:   "b_kenji",
			Name: "Kenji",
			Attributes: map[string]int{
				"action":   50,
				"courage":  40,
				"strategy": 25,
			},
			Energy: 100,
			Status: model.StatusAvailable,
		},
		{
			ID:   "b_sofia",
			Name: "Sofía",
			Attributes: map[string]int{
				"wisdom":        40,
				"consciousness": 45,
				"empathy":       20,
			},
			Energy: 100,
			Status: model.StatusAvailable,
		},
		{
			ID:   "b_ravi",
			Name: "Ravi",
			Attributes: map[string]int{
				"innovation": 45,
				"creativity": 40,
				"strategy":   30,
			},
			Energy: 100,
			Status: model.StatusAvailable,
		},
		{
			ID:   "b_noor",
			Name: "Noor",
			Attributes: map[string]int{
				"leadership":    40,
				"strategy":      35,
				"communication": 30,
			},
			Energy: 100,
			Status: model.StatusAvailable,
		},
	}
}
