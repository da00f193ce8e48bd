package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChiaveLabs/chiave/internal/config"
	"github.com/ChiaveLabs/chiave/internal/core/application"
	"github.com/ChiaveLabs/chiave/internal/infrastructure/clock"
	"github.com/ChiaveLabs/chiave/internal/infrastructure/db"
	"github.com/ChiaveLabs/chiave/internal/infrastructure/ledger"
	scheduler "github.com/ChiaveLabs/chiave/internal/infrastructure/scheduler/gocron"
	"github.com/ChiaveLabs/chiave/internal/interface/rest"
	log "github.com/sirupsen/logrus"
)

// nolint:all
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	log.Info("starting chiave...")

	dbSvc, err := db.NewService(db.ServiceConfig{
		DbType:   cfg.DbType,
		DbConfig: []any{cfg.Datadir, nil},
	})
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}

	ledgerSvc, err := ledger.NewTransferClient(
		cfg.LedgerURL, time.Duration(cfg.LedgerTimeout)*time.Second,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init ledger client")
	}

	buildInfo := application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	schedulerSvc := scheduler.NewScheduler()
	sweepInterval := time.Duration(cfg.SweepInterval) * time.Second

	appSvc, err := application.NewService(
		buildInfo, dbSvc, ledgerSvc, clock.NewSystemClock(), schedulerSvc, sweepInterval,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init application service")
	}

	svc, err := rest.NewService(rest.Config{
		Port:         cfg.HTTPPort,
		CallerHeader: cfg.CallerHeader,
	}, appSvc)
	if err != nil {
		log.WithError(err).Fatal("failed to init interface service")
	}

	log.RegisterExitHandler(svc.Stop)

	if err := appSvc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start application service")
	}

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		log.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down service...")
	appSvc.Stop()
	log.Exit(0)
}
