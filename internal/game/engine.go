package game

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"nuevoser/internal/being"
	"nuevoser/internal/config"
	"nuevoser/internal/crisis"
	"nuevoser/internal/mission"
	"nuevoser/internal/model"
	"nuevoser/internal/player"
	"nuevoser/internal/telemetry"
)

// ErrNotReconciled is returned when a deployment arrives before the boot
// reconciliation pass has run. The active-missions view is stale until
// then.
var ErrNotReconciled = errors.New("restart reconciliation has not run")

// Locator supplies travel distance when location data is available.
// Geolocation acquisition itself lives outside the engine.
type Locator interface {
	DistanceKm(ctx context.Context, userID string, lat, lon float64) (float64, bool)
}

// Engine drives the mission lifecycle: validate, schedule, resolve,
// recover. All state mutation for a user is serialized behind a per-user
// gate; in-process timers are only a latency optimization over the
// persisted mission deadline.
type Engine struct {
	Beings   being.Repository
	Players  player.Repository
	Crises   crisis.Repository
	Missions mission.Store
	Balance  config.Balance
	Clock    Clock
	Events   Events
	Rewards  RewardGenerator      // optional, success only
	Locator  Locator              // optional
	Metrics  telemetry.Repository // optional
	Logger   *log.Logger

	// Roll draws one uniform sample in [0, 1) for outcome resolution.
	// Tests inject a deterministic source; nil falls back to math/rand.
	Roll func() float64

	mu         sync.Mutex
	gates      map[string]*sync.Mutex
	timers     map[model.MissionID]*time.Timer
	reconciled bool
}

// gate returns the serialization lock for one user.
func (e *Engine) gate(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gates == nil {
		e.gates = map[string]*sync.Mutex{}
	}
	g, ok := e.gates[userID]
	if !ok {
		g = &sync.Mutex{}
		e.gates[userID] = g
	}
	return g
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Engine) roll() float64 {
	if e.Roll != nil {
		return e.Roll()
	}
	return rand.Float64()
}

func (e *Engine) events() Events {
	if e.Events == nil {
		return NopEvents{}
	}
	return e.Events
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if e.Metrics != nil {
		_ = e.Metrics.RecordEvent(t, md)
	}
}

type DeployInput struct {
	UserID      string
	CrisisID    model.CrisisID
	BeingIDs    []model.BeingID
	Cooperative bool
}

// Deploy validates the deployment, creates the mission, deducts costs,
// marks the beings busy, and arranges deferred resolution. On validation
// failure it returns a *ValidationError and mutates nothing.
func (e *Engine) Deploy(ctx context.Context, in DeployInput) (model.Mission, error) {
	e.mu.Lock()
	ready := e.reconciled
	e.mu.Unlock()
	if !ready {
		return model.Mission{}, ErrNotReconciled
	}

	g := e.gate(in.UserID)
	g.Lock()
	defer g.Unlock()

	d, err := e.validateDeployment(ctx, in.UserID, in.CrisisID, in.BeingIDs)
	if err != nil {
		return model.Mission{}, err
	}

	now := e.now()
	travelMin := int(math.Round(d.distanceKm * e.Balance.TravelMinutesPerKm))
	duration := d.crisis.BaseDurationMin + travelMin
	prob, breakdown := SuccessProbability(e.Balance, d.crisis.RequiredAttributes, d.beings, d.crisis.Type, d.crisis.Scale)

	m := model.Mission{
		ID:          model.MissionID(uuid.NewString()),
		UserID:      in.UserID,
		CrisisID:    d.crisis.ID,
		CrisisType:  d.crisis.Type,
		CrisisScale: d.crisis.Scale,
		BeingIDs:    in.BeingIDs,
		Probability: prob,
		Breakdown:   breakdown,
		StartedAt:   now,
		EndsAt:      now.Add(time.Duration(duration) * time.Minute),
		DurationMin: duration,
		Outcome:     model.OutcomeUnresolved,
		BaseRewards: d.crisis.BaseRewards,
		Cooperative: in.Cooperative,
	}

	// The mission record lands first; cost and roster writes follow and
	// are compensated if a later write fails, so no half-deployment is
	// left committed.
	if err := e.Missions.PutActive(ctx, in.UserID, m); err != nil {
		return model.Mission{}, err
	}

	cost := e.Balance.PerUnitEnergyCost * len(d.beings)
	if err := e.Players.ConsumeEnergy(ctx, in.UserID, cost); err != nil {
		_, _ = e.Missions.Discard(ctx, in.UserID, m.ID)
		return model.Mission{}, err
	}

	deployed := make([]model.Being, len(d.beings))
	for i, b := range d.beings {
		b.Status = model.StatusDeployed
		mid := m.ID
		b.MissionID = &mid
		deployed[i] = b
	}
	if err := e.Beings.UpdateMany(ctx, in.UserID, deployed); err != nil {
		_ = e.Players.AddEnergy(ctx, in.UserID, cost)
		_, _ = e.Missions.Discard(ctx, in.UserID, m.ID)
		return model.Mission{}, err
	}

	e.scheduleResolution(m)
	e.logf("mission %s deployed: user=%s crisis=%s beings=%d p=%.2f ends=%s",
		m.ID, in.UserID, m.CrisisID, len(m.BeingIDs), m.Probability, m.EndsAt.Format(time.RFC3339))
	e.record(telemetry.EventMissionDeployed, telemetry.EventMetadata{
		"mission_id":  string(m.ID),
		"crisis_type": string(m.CrisisType),
		"probability": m.Probability,
	})
	return m, nil
}

// scheduleResolution arms an in-process timer for the mission deadline.
// The persisted EndsAt remains the record of truth; a dead timer is
// repaired by Reconcile on the next boot.
func (e *Engine) scheduleResolution(m model.Mission) {
	delay := m.EndsAt.Sub(e.now())
	if delay < 0 {
		delay = 0
	}
	userID := m.UserID
	id := m.ID

	e.mu.Lock()
	if e.timers == nil {
		e.timers = map[model.MissionID]*time.Timer{}
	}
	e.timers[id] = time.AfterFunc(delay, func() {
		e.dropTimer(id)
		if _, err := e.Resolve(context.Background(), userID, id); err != nil {
			e.logf("mission %s timer resolution failed: %v", id, err)
		}
	})
	e.mu.Unlock()
}

func (e *Engine) dropTimer(id model.MissionID) {
	e.mu.Lock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
	e.mu.Unlock()
}

// Resolution is the outcome of resolving one mission.
type Resolution struct {
	Resolved bool
	Mission  model.Mission
	Success  bool
	Rewards  model.Rewards
	Unlocks  []Unlock
	Streak   int
}

// Resolve rolls the stored probability, applies rewards, releases the
// beings, and archives the mission. Resolving an id that is no longer
// active is a silent no-op, which keeps the reconciliation path
// idempotent.
func (e *Engine) Resolve(ctx context.Context, userID string, id model.MissionID) (Resolution, error) {
	g := e.gate(userID)
	g.Lock()
	defer g.Unlock()
	return e.resolveLocked(ctx, userID, id)
}

func (e *Engine) resolveLocked(ctx context.Context, userID string, id model.MissionID) (Resolution, error) {
	m, ok, err := e.Missions.GetActive(ctx, userID, id)
	if err != nil {
		return Resolution{}, err
	}
	if !ok {
		return Resolution{}, nil
	}

	success := e.roll() < m.Probability

	streak, err := e.Missions.Streak(ctx, userID)
	if err != nil {
		return Resolution{}, err
	}
	firstTime := false
	if success {
		firstTime, err = e.firstSuccessForType(ctx, userID, m.CrisisType)
		if err != nil {
			return Resolution{}, err
		}
	}

	rewards := computeRewards(e.Balance, m, success, firstTime, streak)

	m.Completed = true
	if success {
		m.Outcome = model.OutcomeSuccess
	} else {
		m.Outcome = model.OutcomeFailure
	}
	m.EarnedRewards = &rewards

	newStreak := 0
	if success {
		newStreak = streak + 1
	}

	now := e.now()
	entry := model.HistoryEntry{
		MissionID:  m.ID,
		CrisisID:   m.CrisisID,
		CrisisType: m.CrisisType,
		Outcome:    m.Outcome,
		Rewards:    rewards,
		BeingIDs:   m.BeingIDs,
		ResolvedAt: now,
	}

	// Rewards are credited first and taken back if the archive does not
	// commit, so history never records rewards the player never received.
	if err := e.applyRewards(ctx, userID, rewards); err != nil {
		return Resolution{}, err
	}

	// One store transaction: active-set removal, history append, streak.
	archived, err := e.Missions.Archive(ctx, userID, id, entry, newStreak)
	if err != nil {
		e.revertRewards(ctx, userID, rewards)
		return Resolution{}, err
	}
	if !archived {
		e.revertRewards(ctx, userID, rewards)
		return Resolution{}, nil
	}
	e.dropTimer(id)

	if err := e.releaseBeings(ctx, userID, m.BeingIDs); err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Resolved: true,
		Mission:  m,
		Success:  success,
		Rewards:  rewards,
		Streak:   newStreak,
	}
	if success && e.Rewards != nil {
		res.Unlocks = e.Rewards.Generate(ctx, userID, m)
	}

	e.events().MissionResolved(m, success, rewards)
	e.logf("mission %s resolved: user=%s outcome=%s xp=%d streak=%d",
		m.ID, userID, m.Outcome, rewards.XP, newStreak)
	e.record(telemetry.EventMissionResolved, telemetry.EventMetadata{
		"mission_id":  string(m.ID),
		"crisis_type": string(m.CrisisType),
		"success":     success,
	})
	return res, nil
}

func (e *Engine) applyRewards(ctx context.Context, userID string, r model.Rewards) error {
	if r.XP != 0 {
		if err := e.Players.AddXP(ctx, userID, r.XP); err != nil {
			return err
		}
	}
	if r.Consciousness != 0 {
		if err := e.Players.AddConsciousness(ctx, userID, r.Consciousness); err != nil {
			return err
		}
	}
	if r.Energy != 0 {
		if err := e.Players.AddEnergy(ctx, userID, r.Energy); err != nil {
			return err
		}
	}
	return nil
}

// revertRewards undoes applyRewards when the archive did not commit.
// Best effort: a failed revert is logged, not returned.
func (e *Engine) revertRewards(ctx context.Context, userID string, r model.Rewards) {
	if r.XP != 0 {
		if err := e.Players.AddXP(ctx, userID, -r.XP); err != nil {
			e.logf("warn: revert xp user=%s: %v", userID, err)
		}
	}
	if r.Consciousness != 0 {
		if err := e.Players.AddConsciousness(ctx, userID, -r.Consciousness); err != nil {
			e.logf("warn: revert consciousness user=%s: %v", userID, err)
		}
	}
	if r.Energy != 0 {
		if err := e.Players.AddEnergy(ctx, userID, -r.Energy); err != nil {
			e.logf("warn: revert energy user=%s: %v", userID, err)
		}
	}
}

// releaseBeings drains each deployed being and routes it to resting or
// available.
func (e *Engine) releaseBeings(ctx context.Context, userID string, ids []model.BeingID) error {
	updated := make([]model.Being, 0, len(ids))
	for _, bid := range ids {
		b, ok, err := e.Beings.Get(ctx, userID, bid)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		b.Drain(e.Balance.MissionEnergyDrain)
		b.MissionID = nil
		if b.Energy < e.Balance.LowEnergyThreshold {
			b.Status = model.StatusResting
			e.record(telemetry.EventBeingRested, telemetry.EventMetadata{"being_id": string(b.ID)})
		} else {
			b.Status = model.StatusAvailable
		}
		updated = append(updated, b)
	}
	return e.Beings.UpdateMany(ctx, userID, updated)
}

// Cancel discards an active, unresolved mission: beings return to
// available immediately, no reward is computed, no history is written.
func (e *Engine) Cancel(ctx context.Context, userID string, id model.MissionID) error {
	g := e.gate(userID)
	g.Lock()
	defer g.Unlock()

	m, ok, err := e.Missions.GetActive(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return mission.ErrNotFound
	}

	e.dropTimer(id)
	if _, err := e.Missions.Discard(ctx, userID, id); err != nil {
		return err
	}

	updated := make([]model.Being, 0, len(m.BeingIDs))
	for _, bid := range m.BeingIDs {
		b, ok, err := e.Beings.Get(ctx, userID, bid)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		b.Status = model.StatusAvailable
		b.MissionID = nil
		updated = append(updated, b)
	}
	if err := e.Beings.UpdateMany(ctx, userID, updated); err != nil {
		return err
	}

	e.logf("mission %s cancelled: user=%s", id, userID)
	e.record(telemetry.EventMissionCancelled, telemetry.EventMetadata{"mission_id": string(id)})
	return nil
}

// Reconcile scans every user's active missions after a process start,
// resolves the ones whose deadline elapsed while the process was down,
// and re-arms timers for the rest. It must complete before any new
// deployment is accepted.
func (e *Engine) Reconcile(ctx context.Context) error {
	users, err := e.Missions.Users(ctx)
	if err != nil {
		return err
	}

	for _, userID := range users {
		g := e.gate(userID)
		g.Lock()

		ms, err := e.Missions.Active(ctx, userID)
		if err != nil {
			// One unreadable user must not block the rest.
			e.logf("warn: reconcile user=%s: %v", userID, err)
			g.Unlock()
			continue
		}
		for _, m := range ms {
			if m.Due(e.now()) {
				if _, err := e.resolveLocked(ctx, userID, m.ID); err != nil {
					e.logf("warn: reconcile mission %s: %v", m.ID, err)
					continue
				}
				e.record(telemetry.EventMissionRecovered, telemetry.EventMetadata{
					"mission_id": string(m.ID),
				})
			} else {
				e.scheduleResolution(m)
			}
		}
		g.Unlock()
	}

	e.mu.Lock()
	e.reconciled = true
	e.mu.Unlock()
	return nil
}

// MarkReconciled skips the boot pass. Test hook for engines built on an
// empty store.
func (e *Engine) MarkReconciled() {
	e.mu.Lock()
	e.reconciled = true
	e.mu.Unlock()
}

// firstSuccessForType reports whether the history holds no prior success
// of this crisis type.
func (e *Engine) firstSuccessForType(ctx context.Context, userID string, ctype model.CrisisType) (bool, error) {
	h, err := e.Missions.History(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, entry := range h {
		if entry.CrisisType == ctype && entry.Outcome == model.OutcomeSuccess {
			return false, nil
		}
	}
	return true, nil
}

// Stop cancels all armed timers. Pending missions stay persisted and are
// picked up by the next Reconcile.
func (e *Engine) Stop() {
	e.mu.Lock()
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
	e.mu.Unlock()
}
