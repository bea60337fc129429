package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"nuevoser/internal/being"
	"nuevoser/internal/config"
	"nuevoser/internal/crisis"
	"nuevoser/internal/game"
	"nuevoser/internal/mission"
	"nuevoser/internal/player"
	"nuevoser/internal/serverapp"
	"nuevoser/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := log.Default()

	opts, err := config.OptionsFromEnv()
	if err != nil {
		log.Fatalf("load options: %v", err)
	}
	bal, err := config.LoadBalance(opts.BalanceFile)
	if err != nil {
		log.Fatalf("load balance: %v", err)
	}

	beingRepo, err := being.NewFileRepo(opts.DataDir)
	if err != nil {
		log.Fatalf("open roster store: %v", err)
	}
	playerRepo, err := player.NewFileRepo(opts.DataDir)
	if err != nil {
		log.Fatalf("open player store: %v", err)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(opts.DataDir, "missions.db")
	}
	missionStore, err := mission.OpenSQLite(dbPath, bal.HistoryCap, logger)
	if err != nil {
		log.Fatalf("open mission store: %v", err)
	}
	defer missionStore.Close()

	crisisRepo := crisis.NewMemoryRepo()
	if err := crisisRepo.Seed(ctx, crisis.SeedCrises()); err != nil {
		log.Fatalf("seed crises: %v", err)
	}

	metrics := telemetry.NewMemoryRepository()
	hub := serverapp.NewEventHub(logger)

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

	// Resolve anything that came due while the process was down before
	// accepting new deployments.
	if err := engine.Reconcile(ctx); err != nil {
		log.Fatalf("reconcile: %v", err)
	}
	go engine.RunRecovery(ctx, opts.RecoveryInterval)

	handler, err := serverapp.NewHandler(serverapp.Options{
		Engine:  engine,
		Hub:     hub,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	logger.Printf("nuevoser listening on %s (data=%s db=%s)", opts.Addr, opts.DataDir, dbPath)
	log.Fatal(http.ListenAndServe(opts.Addr, handler))
}
