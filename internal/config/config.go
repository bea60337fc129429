package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadBalance reads a YAML balance file over the defaults. A missing file
// is not an error; partial files override only the fields they name.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Balance{}, fmt.Errorf("parse balance file %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, fmt.Errorf("balance file %s: %w", path, err)
	}
	return b, nil
}

// Validate rejects values the engine cannot operate with.
func (b Balance) Validate() error {
	if b.MinProbability < 0 || b.MaxProbability > 1 || b.MinProbability >= b.MaxProbability {
		return fmt.Errorf("probability clamp [%v, %v] is invalid", b.MinProbability, b.MaxProbability)
	}
	if b.PerUnitEnergyCost < 0 {
		return fmt.Errorf("per_unit_energy_cost must not be negative")
	}
	if b.FailureMultiplier < 0 || b.FailureMultiplier > 1 {
		return fmt.Errorf("failure_multiplier must be within [0, 1]")
	}
	if b.HistoryCap <= 0 {
		return fmt.Errorf("history_cap must be positive")
	}
	if b.RecoveryIncrement <= 0 {
		return fmt.Errorf("recovery_increment must be positive")
	}
	return nil
}
