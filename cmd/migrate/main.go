package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/dbmigrate"
	"github.com/fitai/fitai/internal/logging"
)

func main() {
	if len(os.Args) < 2 || !dbmigrate.ValidCommand(os.Args[1]) {
		fmt.Fprintf(os.Stderr, "usage: migrate [%s] [migrations-dir]\n", strings.Join(dbmigrate.Commands, "|"))
		os.Exit(2)
	}
	command := os.Args[1]
	dir := dbmigrate.DefaultMigrationsDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("FATAL logger: %v", err)
	}
	defer logger.Sync()

	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logger.Fatal("no database to migrate", zap.Error(err))
	}
	if sel.Warning != "" {
		logger.Warn(sel.Warning)
	}

	logger.Info("migrating", zap.String("command", command), zap.String("using", sel.Source), zap.String("dir", dir))
	if err := dbmigrate.Run(context.Background(), command, sel.URL, dir, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migration completed", zap.String("command", command))
}
