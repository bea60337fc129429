package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuevoser/internal/being"
	"nuevoser/internal/config"
	"nuevoser/internal/crisis"
	"nuevoser/internal/game"
	"nuevoser/internal/mission"
	"nuevoser/internal/model"
	"nuevoser/internal/player"
)

func newTestHandler(t *testing.T, reconciled bool) (http.Handler, *game.Engine) {
	t.Helper()
	ctx := context.Background()

	beings := being.NewMemoryRepo()
	require.NoError(t, beings.Seed(ctx, "u1", being.SeedBeings()))
	players := player.NewMemoryRepo()
	require.NoError(t, players.Set(ctx, "u1", player.DefaultState()))
	crises := crisis.NewMemoryRepo()
	require.NoError(t, crises.Seed(ctx, crisis.SeedCrises()))

	engine := &game.Engine{
		Beings:   beings,
		Players:  players,
		Crises:   crises,
		Missions: mission.NewMemoryStore(100),
		Balance:  config.DefaultBalance(),
		Clock:    game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Logger:   log.New(os.Stderr, "", 0),
	}
	if reconciled {
		engine.MarkReconciled()
	}
	t.Cleanup(engine.Stop)

	h, err := NewHandler(Options{Engine: engine, Logger: log.New(os.Stderr, "", 0)})
	require.NoError(t, err)
	return h, engine
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAPI_DeployAndListMissions(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"userId":   "u1",
		"crisisId": "c_river_cleanup",
		"beingIds": []string{"b_kenji"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var m model.Mission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, model.CrisisID("c_river_cleanup"), m.CrisisID)
	assert.Greater(t, m.Probability, 0.0)

	rr = doJSON(t, h, http.MethodGet, "/api/missions?userId=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Missions []model.Mission `json:"missions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Missions, 1)
	assert.Equal(t, m.ID, list.Missions[0].ID)
}

func TestAPI_DeployValidationFailure(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"userId":   "u1",
		"crisisId": "c_nope",
		"beingIds": []string{"b_kenji"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, string(game.ReasonCrisisNotFound), body.Error)
}

func TestAPI_DeployBeforeReconcile(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rr := doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"userId":   "u1",
		"crisisId": "c_river_cleanup",
		"beingIds": []string{"b_kenji"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAPI_DeployBadRequest(t *testing.T) {
	h, _ := newTestHandler(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/missions/deploy", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"crisisId": "c_river_cleanup",
		"beingIds": []string{"b_kenji"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_CancelMission(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"userId":   "u1",
		"crisisId": "c_river_cleanup",
		"beingIds": []string{"b_kenji"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var m model.Mission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))

	rr = doJSON(t, h, http.MethodPost, "/api/missions/"+string(m.ID)+"/cancel?userId=u1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/missions/m_nope/cancel?userId=u1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_RosterEconomyAndCrises(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doJSON(t, h, http.MethodGet, "/api/roster?userId=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var roster struct {
		Beings []model.Being `json:"beings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roster))
	assert.Len(t, roster.Beings, 5)

	rr = doJSON(t, h, http.MethodGet, "/api/economy?userId=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var econ player.UserState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &econ))
	assert.Equal(t, 100, econ.Energy)

	rr = doJSON(t, h, http.MethodGet, "/api/crises", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var crisesBody struct {
		Crises []model.Crisis `json:"crises"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &crisesBody))
	assert.Len(t, crisesBody.Crises, 6)

	// userId is mandatory on per-user reads.
	rr = doJSON(t, h, http.MethodGet, "/api/roster", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_HistoryAfterResolution(t *testing.T) {
	h, engine := newTestHandler(t, true)
	engine.Roll = func() float64 { return 0 }

	rr := doJSON(t, h, http.MethodPost, "/api/missions/deploy", map[string]any{
		"userId":   "u1",
		"crisisId": "c_river_cleanup",
		"beingIds": []string{"b_kenji"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var m model.Mission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))

	_, err := engine.Resolve(context.Background(), "u1", m.ID)
	require.NoError(t, err)

	rr = doJSON(t, h, http.MethodGet, "/api/missions/history?userId=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var hist struct {
		History []model.HistoryEntry `json:"history"`
		Streak  int                  `json:"streak"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hist))
	require.Len(t, hist.History, 1)
	assert.Equal(t, m.ID, hist.History[0].MissionID)
	assert.Equal(t, 1, hist.Streak)
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
