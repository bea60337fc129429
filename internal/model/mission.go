package model

import "time"

type MissionID string

type MissionOutcome string

const (
	OutcomeUnresolved MissionOutcome = "unresolved"
	OutcomeSuccess    MissionOutcome = "success"
	OutcomeFailure    MissionOutcome = "failure"
)

// ProbabilityBreakdown explains how a mission's success chance was
// assembled. Stored at creation time and never recomputed.
type ProbabilityBreakdown struct {
	Ratio           float64  `json:"ratio"`
	Base            float64  `json:"base"`
	Synergies       []string `json:"synergies,omitempty"`
	SynergyBonus    float64  `json:"synergyBonus"`
	TeamBonus       float64  `json:"teamBonus"`
	CriticalPenalty float64  `json:"criticalPenalty"`
	Final           float64  `json:"final"`
}

// Mission is a live deployment of beings against a crisis.
type Mission struct {
	ID          MissionID   `json:"id"`
	UserID      string      `json:"userId"`
	CrisisID    CrisisID    `json:"crisisId"`
	CrisisType  CrisisType  `json:"crisisType"`
	CrisisScale CrisisScale `json:"crisisScale"`
	BeingIDs    []BeingID   `json:"beingIds"`

	Probability float64              `json:"probability"`
	Breakdown   ProbabilityBreakdown `json:"breakdown"`

	StartedAt   time.Time `json:"startedAt"`
	EndsAt      time.Time `json:"endsAt"`
	DurationMin int       `json:"durationMin"`

	Completed bool           `json:"completed"`
	Outcome   MissionOutcome `json:"outcome"`

	BaseRewards   Rewards  `json:"baseRewards"`
	EarnedRewards *Rewards `json:"earnedRewards,omitempty"`

	Cooperative bool `json:"cooperative"`
}

// Due reports whether the persisted deadline has elapsed. The deadline,
// not any in-process timer, is the record of truth.
func (m Mission) Due(now time.Time) bool {
	return !now.Before(m.EndsAt)
}

// HistoryEntry is an immutable snapshot of a resolved mission.
type HistoryEntry struct {
	MissionID  MissionID      `json:"missionId"`
	CrisisID   CrisisID       `json:"crisisId"`
	CrisisType CrisisType     `json:"crisisType"`
	Outcome    MissionOutcome `json:"outcome"`
	Rewards    Rewards        `json:"rewards"`
	BeingIDs   []BeingID      `json:"beingIds"`
	ResolvedAt time.Time      `json:"resolvedAt"`
}
