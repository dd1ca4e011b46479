package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/alizain-patel/shifts-online/internal/app"
	"github.com/alizain-patel/shifts-online/internal/config"
	"github.com/alizain-patel/shifts-online/internal/shared/apperror"
	"github.com/alizain-patel/shifts-online/internal/status"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	viewFlag := flag.String("view", cfg.DefaultView, "view mode: latest-per-user | all-events")
	windowFlag := flag.String("window", cfg.WindowMode(), "window mode: friday-to-today | today-only | none")
	preferToday := flag.Bool("prefer-today", cfg.PreferToday, "prefer today's latest record per user")
	flag.Parse()

	view, ok := status.ResolveViewMode(*viewFlag)
	if !ok {
		logger.Fatal("invalid -view", zap.String("view", *viewFlag))
	}
	window, ok := status.ResolveWindowMode(*windowFlag)
	if !ok {
		logger.Fatal("invalid -window", zap.String("window", *windowFlag))
	}

	q := status.Query{View: view, Window: window, PreferToday: *preferToday}
	if err := app.RunSnapshot(cfg, q, os.Stdout); err != nil {
		logger.Fatal("run snapshot failed", zap.Error(err))
	}
}
