package model

type CrisisID string

type CrisisType string

const (
	CrisisEcological    CrisisType = "ecological"
	CrisisSocial        CrisisType = "social"
	CrisisSpiritual     CrisisType = "spiritual"
	CrisisEducational   CrisisType = "educational"
	CrisisHumanitarian  CrisisType = "humanitarian"
	CrisisTechnological CrisisType = "technological"
)

type CrisisScale string

const (
	ScaleLocal    CrisisScale = "local"
	ScaleRegional CrisisScale = "regional"
	ScaleGlobal   CrisisScale = "global"
)

// Rewards is a currency bundle (base or earned).
type Rewards struct {
	XP            int `json:"xp"`
	Consciousness int `json:"consciousness"`
	Energy        int `json:"energy"`
}

// Crisis is an externally supplied task definition. Read-only to the
// mission engine.
type Crisis struct {
	ID                 CrisisID       `json:"id"`
	Title              string         `json:"title"`
	Type               CrisisType     `json:"type"`
	Scale              CrisisScale    `json:"scale"`
	RequiredAttributes map[string]int `json:"requiredAttributes"`
	Urgency            int            `json:"urgency"`
	BaseDurationMin    int            `json:"baseDurationMin"`
	BaseRewards        Rewards        `json:"baseRewards"`
	Active             bool           `json:"active"`

	// Lat/Lon are optional; zero values mean no location data.
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}
