package model

type BeingID string

type BeingStatus string

const (
	StatusAvailable BeingStatus = "available"
	StatusDeployed  BeingStatus = "deployed"
	StatusResting   BeingStatus = "resting"
)

const MaxBeingEnergy = 100

// Being is a deployable roster unit. Attributes maps attribute names
// (empathy, wisdom, action, ...) to numeric scores.
type Being struct {
	ID         BeingID        `json:"id"`
	Name       string         `json:"name"`
	Attributes map[string]int `json:"attributes"`
	Energy     int            `json:"energy"`
	Status     BeingStatus    `json:"status"`

	// MissionID is set while the being is deployed.
	MissionID *MissionID `json:"missionId,omitempty"`
}

// Attribute returns the named score, 0 when absent.
func (b Being) Attribute(name string) int {
	if b.Attributes == nil {
		return 0
	}
	return b.Attributes[name]
}

// Drain subtracts n energy, floored at 0.
func (b *Being) Drain(n int) {
	b.Energy -= n
	if b.Energy < 0 {
		b.Energy = 0
	}
}

// Recover adds n energy, capped at MaxBeingEnergy. Reports whether the
// being reached full energy.
func (b *Being) Recover(n int) bool {
	b.Energy += n
	if b.Energy >= MaxBeingEnergy {
		b.Energy = MaxBeingEnergy
		return true
	}
	return false
}
