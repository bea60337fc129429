package game

import (
	"context"
	"time"

	"nuevoser/internal/model"
	"nuevoser/internal/telemetry"
)

// RecoveryTick restores one increment of energy to every resting being,
// promoting the ones that reach full energy back to available. It runs
// under the same per-user gate as deployment and resolution, so it never
// interleaves with a resolution rewriting the same being.
func (e *Engine) RecoveryTick(ctx context.Context) error {
	users, err := e.Beings.Users(ctx)
	if err != nil {
		return err
	}

	for _, userID := range users {
		if err := e.recoverUser(ctx, userID); err != nil {
			e.logf("warn: recovery tick user=%s: %v", userID, err)
		}
	}
	return nil
}

func (e *Engine) recoverUser(ctx context.Context, userID string) error {
	g := e.gate(userID)
	g.Lock()
	defer g.Unlock()

	resting, err := e.Beings.ListByStatus(ctx, userID, model.StatusResting)
	if err != nil {
		return err
	}
	if len(resting) == 0 {
		return nil
	}

	recovered := []model.Being{}
	updated := make([]model.Being, 0, len(resting))
	for _, b := range resting {
		if b.Recover(e.Balance.RecoveryIncrement) {
			b.Status = model.StatusAvailable
			recovered = append(recovered, b)
		}
		updated = append(updated, b)
	}
	if err := e.Beings.UpdateMany(ctx, userID, updated); err != nil {
		return err
	}

	for _, b := range recovered {
		e.events().BeingRecovered(b)
		e.record(telemetry.EventBeingRecovered, telemetry.EventMetadata{"being_id": string(b.ID)})
		e.logf("being %s recovered: user=%s", b.ID, userID)
	}
	return nil
}

// RunRecovery drives RecoveryTick on a fixed interval until ctx is done.
func (e *Engine) RunRecovery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.RecoveryTick(ctx); err != nil {
				e.logf("warn: recovery tick: %v", err)
			}
		}
	}
}
