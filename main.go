package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"nuevoser/internal/being"
	"nuevoser/internal/config"
	"nuevoser/internal/crisis"
	"nuevoser/internal/game"
	"nuevoser/internal/mission"
	"nuevoser/internal/player"
	"nuevoser/internal/serverapp"
	"nuevoser/internal/telemetry"
)

const addr = ":8080"

// Dev entrypoint: everything in memory, one seeded user. The container
// entrypoint with durable storage lives in cmd/server.
func main() {
	ctx := context.Background()
	logger := log.Default()

	bal := config.DefaultBalance()

	beingRepo := being.NewMemoryRepo()
	playerRepo := player.NewMemoryRepo()
	crisisRepo := crisis.NewMemoryRepo()
	missionStore := mission.NewMemoryStore(bal.HistoryCap)
	metrics := telemetry.NewMemoryRepository()
	hub := serverapp.NewEventHub(logger)

	if err := beingRepo.Seed(ctx, "default", being.SeedBeings()); err != nil {
		log.Fatal(err)
	}
	if err := playerRepo.Set(ctx, "default", player.DefaultState()); err != nil {
		log.Fatal(err)
	}
	if err := crisisRepo.Seed(ctx, crisis.SeedCrises()); err != nil {
		log.Fatal(err)
	}

	engine := &game.Engine{
		Beings:   beingRepo,
		Players:  playerRepo,
		Crises:   crisisRepo,
		Missions: missionStore,
		Balance:  bal,
		Clock:    game.RealClock{},
		Events:   hub,
		Metrics:  metrics,
		Logger:   logger,
	}

	// Must complete before the API takes deployments.
	if err := engine.Reconcile(ctx); err != nil {
		log.Fatal(err)
	}
	go engine.RunRecovery(ctx, 60*time.Second)

	handler, err := serverapp.NewHandler(serverapp.Options{
		Engine:  engine,
		Hub:     hub,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	logger.Printf("nuevoser listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
