package game

import (
	"context"
	"fmt"

	"nuevoser/internal/model"
)

// ReasonCode is the closed set of non-fatal deployment rejections. None
// of them mutate state.
type ReasonCode string

const (
	ReasonNoBeingsSelected   ReasonCode = "no_beings_selected"
	ReasonCrisisNotFound     ReasonCode = "crisis_not_found"
	ReasonBeingUnavailable   ReasonCode = "being_unavailable"
	ReasonBeingLowEnergy     ReasonCode = "being_low_energy"
	ReasonInsufficientEnergy ReasonCode = "insufficient_energy"
)

// ValidationError carries a reason code back to the caller. It is an
// expected outcome, not a fault.
type ValidationError struct {
	Reason ReasonCode
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func reject(reason ReasonCode, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// deployment is a validated deployment, ready for scheduling.
type deployment struct {
	crisis model.Crisis
	beings []model.Being
	// distanceKm is 0 when no location data is available.
	distanceKm float64
}

// validateDeployment checks every precondition without mutating anything.
func (e *Engine) validateDeployment(ctx context.Context, userID string, crisisID model.CrisisID, beingIDs []model.BeingID) (deployment, error) {
	if len(beingIDs) == 0 {
		return deployment{}, reject(ReasonNoBeingsSelected, "select at least one being")
	}

	c, ok, err := e.Crises.Get(ctx, crisisID)
	if err != nil {
		return deployment{}, err
	}
	if !ok || !c.Active {
		return deployment{}, reject(ReasonCrisisNotFound, "crisis %s", crisisID)
	}

	beings := make([]model.Being, 0, len(beingIDs))
	for _, id := range beingIDs {
		b, ok, err := e.Beings.Get(ctx, userID, id)
		if err != nil {
			return deployment{}, err
		}
		if !ok || b.Status != model.StatusAvailable {
			return deployment{}, reject(ReasonBeingUnavailable, "being %s", id)
		}
		if b.Energy < e.Balance.MinBeingEnergy {
			return deployment{}, reject(ReasonBeingLowEnergy, "being %s has %d energy", id, b.Energy)
		}
		beings = append(beings, b)
	}

	cost := e.Balance.PerUnitEnergyCost * len(beings)
	state, err := e.Players.Get(ctx, userID)
	if err != nil {
		return deployment{}, err
	}
	if state.Energy < cost {
		return deployment{}, reject(ReasonInsufficientEnergy, "need %d energy, have %d", cost, state.Energy)
	}

	d := deployment{crisis: c, beings: beings}
	if e.Locator != nil && (c.Lat != 0 || c.Lon != 0) {
		if km, ok := e.Locator.DistanceKm(ctx, userID, c.Lat, c.Lon); ok {
			d.distanceKm = km
		}
	}
	return d, nil
}
