package config

// Balance holds every gameplay constant of the mission engine. The curve
// and fixed bonuses encode intended game balance and are not meant to be
// tuned for fairness.
type Balance struct {
	// Probability curve
	BaseOffset       float64 `yaml:"base_offset" json:"base_offset"`
	RatioSlope       float64 `yaml:"ratio_slope" json:"ratio_slope"`
	BaseCap          float64 `yaml:"base_cap" json:"base_cap"`
	DefaultRatioProb float64 `yaml:"default_ratio_prob" json:"default_ratio_prob"`
	MinProbability   float64 `yaml:"min_probability" json:"min_probability"`
	MaxProbability   float64 `yaml:"max_probability" json:"max_probability"`

	// Synergy detection
	SynergyFloor int `yaml:"synergy_floor" json:"synergy_floor"`

	// Critical attributes
	CriticalPenalty  float64 `yaml:"critical_penalty" json:"critical_penalty"`
	CriticalFraction float64 `yaml:"critical_fraction" json:"critical_fraction"`

	// Team size bonus, indexed by team size (1 unit -> index 0)
	TeamBonuses []float64 `yaml:"team_bonuses" json:"team_bonuses"`

	// Deployment costs
	PerUnitEnergyCost int `yaml:"per_unit_energy_cost" json:"per_unit_energy_cost"`
	MinBeingEnergy    int `yaml:"min_being_energy" json:"min_being_energy"`

	// Scheduling
	TravelMinutesPerKm float64 `yaml:"travel_minutes_per_km" json:"travel_minutes_per_km"`

	// Resolution rewards
	FailureMultiplier    float64 `yaml:"failure_multiplier" json:"failure_multiplier"`
	CooperativeBonus     float64 `yaml:"cooperative_bonus" json:"cooperative_bonus"`
	LocalScaleMultiplier float64 `yaml:"local_scale_multiplier" json:"local_scale_multiplier"`
	PerStreakBonus       float64 `yaml:"per_streak_bonus" json:"per_streak_bonus"`
	StreakCap            float64 `yaml:"streak_cap" json:"streak_cap"`
	FirstTimeXPBonus     int     `yaml:"first_time_xp_bonus" json:"first_time_xp_bonus"`

	// Post-mission being state
	MissionEnergyDrain int `yaml:"mission_energy_drain" json:"mission_energy_drain"`
	LowEnergyThreshold int `yaml:"low_energy_threshold" json:"low_energy_threshold"`

	// Energy recovery loop
	RecoveryIncrement int `yaml:"recovery_increment" json:"recovery_increment"`

	// History
	HistoryCap int `yaml:"history_cap" json:"history_cap"`
}

// DefaultBalance returns the authoritative balance values.
func DefaultBalance() Balance {
	return Balance{
		BaseOffset:       0.25,
		RatioSlope:       0.30,
		BaseCap:          0.85,
		DefaultRatioProb: 0.5,
		MinProbability:   0.05,
		MaxProbability:   0.95,

		SynergyFloor: 30,

		CriticalPenalty:  0.15,
		CriticalFraction: 0.5,

		TeamBonuses: []float64{0, 0.02, 0.04, 0.05},

		PerUnitEnergyCost: 10,
		MinBeingEnergy:    20,

		TravelMinutesPerKm: 2,

		FailureMultiplier:    0.30,
		CooperativeBonus:     1.5,
		LocalScaleMultiplier: 3.0,
		PerStreakBonus:       0.10,
		StreakCap:            2.0,
		FirstTimeXPBonus:     50,

		MissionEnergyDrain: 30,
		LowEnergyThreshold: 30,

		RecoveryIncrement: 10,

		HistoryCap: 100,
	}
}

// TeamBonus returns the size bonus for n deployed units. Sizes beyond the
// table reuse the last entry.
func (b Balance) TeamBonus(n int) float64 {
	if n <= 0 || len(b.TeamBonuses) == 0 {
		return 0
	}
	if n > len(b.TeamBonuses) {
		n = len(b.TeamBonuses)
	}
	return b.TeamBonuses[n-1]
}
