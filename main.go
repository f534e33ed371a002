package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/wfunc/snake/ai"
	"github.com/wfunc/snake/config"
	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/monitor"
	"github.com/wfunc/snake/persistence"
	"github.com/wfunc/snake/room"
	"github.com/wfunc/snake/rpc"
	"github.com/wfunc/snake/server"
	"github.com/wfunc/snake/services"
	"github.com/wfunc/snake/timer"
)

func openDatabase(cfg config.DatabaseConfig) (persistence.Database, error) {
	pg := cfg.Postgres
	switch cfg.Driver {
	case "gorm":
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "pq":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "", "none":
		return persistence.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func main() {
	configDir := pflag.String("config", ".", "directory containing config.yaml")
	pflag.Parse()

	// Initialize logger
	logger.Init(false)

	// Load configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Log.Development {
		logger.Init(true)
	}
	defer logger.Sync()

	// Initialize Database
	db, err := openDatabase(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Infof("Database ready (driver %s).", cfg.Database.Driver)

	scores := services.NewScoreService(db)

	mon := monitor.NewMonitor("snake")
	mon.StartServer(cfg.Server.MetricsAddress)
	defer mon.Stop()

	timers := timer.NewTimerManager(timer.DefaultResolution)
	defer timers.Stop()

	rooms := room.NewRoomManager(room.Deps{
		Scheduler: timers,
		Recorder:  scores,
		Metrics:   mon,
	})

	roomCfg := room.Config{
		Options:      cfg.Game.Options(),
		TickInterval: cfg.Game.TickInterval(),
		AIMode:       cfg.Game.AIMode,
	}
	if roomCfg.AIMode {
		roomCfg.Strategy = ai.Greedy{}
	}

	gameServer := server.NewGameServer(server.Options{
		Addr:        cfg.Server.HTTPAddress,
		Room:        roomCfg,
		Heartbeat:   30 * time.Second,
		IdleTimeout: 2 * time.Minute,
	}, rooms, scores, mon)

	// RPC
	rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	if err := rpcServer.Register(rpc.NewGameService(scores)); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}
	go rpcServer.Start()
	defer rpcServer.Stop()

	health, err := rpc.NewHealthServer(cfg.Server.GRPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create gRPC health server: %v", err)
	}
	go health.Start()
	defer health.Stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- gameServer.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Log.Errorf("Game server stopped: %v", err)
		}
	case s := <-sig:
		logger.Log.Infof("Received %s, shutting down.", s)
	}

	health.SetServing(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Shutdown error: %v", err)
	}
}
