package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecowattch-server/confs"
	"ecowattch-server/db"
	"ecowattch-server/entities"
	"ecowattch-server/logger"
	"ecowattch-server/repositories"
	"ecowattch-server/server"

	"github.com/gin-gonic/gin"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		logger.New(0).Fatal("error loading config", "error", err)
	}

	log := logger.New(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", "driver", cfg.Database.Driver, "error", err)
	}
	defer closeStore()

	srv, err := server.NewServer(cfg, repos, log)
	if err != nil {
		log.Fatal("failed to build server", "error", err)
	}
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
	}
}

// openStore connects the configured backend and returns its repositories
// together with a function that drains it.
func openStore(ctx context.Context, cfg *confs.Config, log *logger.Logger) (server.Repositories, func(), error) {
	if cfg.Database.Driver == confs.DriverMemory {
		log.Warn("using in-memory store, data is lost on exit")
		store := repositories.NewMemoryStore(true)
		store.SeedOfferings(demoOfferings...)
		return server.Repositories{
			Users:     store.Users(),
			Dorms:     store.Dorms(),
			Offerings: store.Offerings(),
		}, func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		return server.Repositories{}, nil, err
	}

	schema, err := db.DetectSchema(ctx, database.GetDB())
	if err != nil {
		_ = database.Close()
		return server.Repositories{}, nil, err
	}
	log.Info("database schema detected", "driver", cfg.Database.Driver, "spendablePoints", schema.HasSpendablePoints)
	if !schema.HasSpendablePoints {
		log.Warn("Users.SpendablePoints column not found; balances read as default and writes are not persisted",
			"default", entities.DefaultSpendablePoints)
	}

	closeFn := func() {
		if err := database.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
	return server.Repositories{
		Users:     repositories.NewUserGormRepository(database, schema),
		Dorms:     repositories.NewDormGormRepository(database),
		Offerings: repositories.NewOfferingGormRepository(database),
	}, closeFn, nil
}

var demoOfferings = []entities.Offering{
	{OfferingName: "Sunset", ColorHex1: "FF5E5B", ColorHex2: "D8D8D8", ColorHex3: "FFFFEA", ColorHex4: "00CECB", ColorHex5: "FFED66", ColorHex6: "2E2E2E", ColorHex7: "F25F5C"},
	{OfferingName: "Forest", ColorHex1: "2D6A4F", ColorHex2: "40916C", ColorHex3: "52B788", ColorHex4: "74C69D", ColorHex5: "95D5B2", ColorHex6: "B7E4C7", ColorHex7: "D8F3DC"},
}
