package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period        string            `json:"period"`
	EventCounts   map[EventType]int `json:"event_counts"`
	Deployments   int               `json:"deployments"`
	Resolutions   int               `json:"resolutions"`
	Successes     int               `json:"successes"`
	Failures      int               `json:"failures"`
	Cancellations int               `json:"cancellations"`
	Recoveries    int               `json:"recoveries"`
	// Reconciliations counts missions resolved by the restart pass. Each
	// of those also emits a regular resolution event, so this is a subset
	// of Resolutions, not an addition to it.
	Reconciliations int            `json:"reconciliations"`
	SuccessRate     float64        `json:"success_rate"`
	ByCrisisType    map[string]int `json:"by_crisis_type"`
}

// CalculateStats computes balance stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:       since.Format("2006-01-02"),
		EventCounts:  make(map[EventType]int),
		ByCrisisType: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventMissionDeployed:
			stats.Deployments++
			if ctype, ok := metadata["crisis_type"].(string); ok {
				stats.ByCrisisType[ctype]++
			}
		case EventMissionResolved:
			stats.Resolutions++
			if success, ok := metadata["success"].(bool); ok {
				if success {
					stats.Successes++
				} else {
					stats.Failures++
				}
			}
		case EventMissionRecovered:
			stats.Reconciliations++
		case EventMissionCancelled:
			stats.Cancellations++
		case EventBeingRecovered:
			stats.Recoveries++
		}
	}

	if stats.Resolutions > 0 {
		stats.SuccessRate = float64(stats.Successes) / float64(stats.Resolutions)
	}

	return stats, nil
}
