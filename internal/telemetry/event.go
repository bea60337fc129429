package telemetry

import "time"

type EventType string

const (
	EventMissionDeployed  EventType = "mission_deployed"
	EventMissionResolved  EventType = "mission_resolved"
	EventMissionCancelled EventType = "mission_cancelled"
	EventMissionRecovered EventType = "mission_recovered" // restart reconciliation resolved a due mission
	EventBeingRecovered   EventType = "being_recovered"
	EventBeingRested      EventType = "being_rested"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
