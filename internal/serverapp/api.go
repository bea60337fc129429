package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"nuevoser/internal/game"
	"nuevoser/internal/mission"
	"nuevoser/internal/model"
	"nuevoser/internal/telemetry"
)

type API struct {
	Engine  *game.Engine
	Metrics telemetry.Repository
	Logger  *log.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// userID pulls the user from the query string. Session handling lives
// outside this service.
func userID(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}

type deployRequest struct {
	UserID      string   `json:"userId"`
	CrisisID    string   `json:"crisisId"`
	BeingIDs    []string `json:"beingIds"`
	Cooperative bool     `json:"cooperative"`
}

func (a *API) DeployMission(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	beingIDs := make([]model.BeingID, len(req.BeingIDs))
	for i, id := range req.BeingIDs {
		beingIDs[i] = model.BeingID(id)
	}

	m, err := a.Engine.Deploy(r.Context(), game.DeployInput{
		UserID:      req.UserID,
		CrisisID:    model.CrisisID(req.CrisisID),
		BeingIDs:    beingIDs,
		Cooperative: req.Cooperative,
	})
	if err != nil {
		var verr *game.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  string(verr.Reason),
				"detail": verr.Detail,
			})
		case errors.Is(err, game.ErrNotReconciled):
			writeError(w, http.StatusServiceUnavailable, "engine is starting up")
		default:
			a.Logger.Printf("deploy failed: %v", err)
			writeError(w, http.StatusInternalServerError, "deploy failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (a *API) CancelMission(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	id := model.MissionID(r.PathValue("id"))

	err := a.Engine.Cancel(r.Context(), uid, id)
	if err != nil {
		if errors.Is(err, mission.ErrNotFound) {
			writeError(w, http.StatusNotFound, "mission not found")
			return
		}
		a.Logger.Printf("cancel failed: %v", err)
		writeError(w, http.StatusInternalServerError, "cancel failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cancelled": string(id)})
}

func (a *API) ActiveMissions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	ms, err := a.Engine.Missions.Active(r.Context(), uid)
	if err != nil {
		a.Logger.Printf("list missions failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list missions failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"missions": ms})
}

func (a *API) MissionHistory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	h, err := a.Engine.Missions.History(r.Context(), uid)
	if err != nil {
		a.Logger.Printf("history failed: %v", err)
		writeError(w, http.StatusInternalServerError, "history failed")
		return
	}
	streak, err := a.Engine.Missions.Streak(r.Context(), uid)
	if err != nil {
		a.Logger.Printf("streak failed: %v", err)
		writeError(w, http.StatusInternalServerError, "history failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": h, "streak": streak})
}

func (a *API) Roster(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	bs, err := a.Engine.Beings.List(r.Context(), uid)
	if err != nil {
		a.Logger.Printf("roster failed: %v", err)
		writeError(w, http.StatusInternalServerError, "roster failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"beings": bs})
}

func (a *API) Economy(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	s, err := a.Engine.Players.Get(r.Context(), uid)
	if err != nil {
		a.Logger.Printf("economy failed: %v", err)
		writeError(w, http.StatusInternalServerError, "economy failed")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) Crises(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Engine.Crises.List(r.Context())
	if err != nil {
		a.Logger.Printf("crises failed: %v", err)
		writeError(w, http.StatusInternalServerError, "crises failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"crises": cs})
}

func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	if a.Metrics == nil {
		writeError(w, http.StatusNotFound, "telemetry disabled")
		return
	}
	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}
	events, err := a.Metrics.GetEvents(since, nil)
	if err != nil {
		a.Logger.Printf("stats failed: %v", err)
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		a.Logger.Printf("stats failed: %v", err)
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
