package serverapp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"nuevoser/internal/game"
	"nuevoser/internal/httpmw"
	"nuevoser/internal/telemetry"
)

type Options struct {
	Engine  *game.Engine
	Hub     *EventHub
	Metrics telemetry.Repository
	Logger  *log.Logger
}

// NewHandler assembles the JSON API around the mission engine.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	api := &API{
		Engine:  opts.Engine,
		Metrics: opts.Metrics,
		Logger:  opts.Logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "nuevoser",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("POST /api/missions/deploy", api.DeployMission)
	mux.HandleFunc("POST /api/missions/{id}/cancel", api.CancelMission)
	mux.HandleFunc("GET /api/missions", api.ActiveMissions)
	mux.HandleFunc("GET /api/missions/history", api.MissionHistory)
	mux.HandleFunc("GET /api/roster", api.Roster)
	mux.HandleFunc("GET /api/economy", api.Economy)
	mux.HandleFunc("GET /api/crises", api.Crises)
	mux.HandleFunc("GET /api/stats", api.Stats)

	if opts.Hub != nil {
		mux.HandleFunc("GET /ws/events", opts.Hub.Handler())
	}

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	)
	return handler, nil
}
