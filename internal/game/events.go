package game

import (
	"nuevoser/internal/model"
)

// Events is the outbound notification surface. Calls are fire-and-forget;
// the engine never blocks on a listener and ignores whatever it does.
type Events interface {
	MissionResolved(m model.Mission, success bool, rewards model.Rewards)
	BeingRecovered(b model.Being)
}

// NopEvents discards every event.
type NopEvents struct{}

func (NopEvents) MissionResolved(model.Mission, bool, model.Rewards) {}
func (NopEvents) BeingRecovered(model.Being)                         {}
