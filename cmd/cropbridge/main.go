package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/bridge"
	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/config"
	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/metrics"
	"github.com/Arkie13/weather-base-crop-alert-and-recommendation-system/internal/recommender"
)

const version = "0.1.0"

func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml")
	modelPath := flag.String("model", "", "override model artifact path")
	useMock := flag.Bool("mock", false, "use the mock recommender instead of a persisted model")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("cropbridge " + version)
		return
	}

	// stdout carries exactly one JSON document, so everything else goes to
	// stderr. Any failure before the bridge runs still answers in JSON.
	cfg, err := config.Load(*configPath)
	if err != nil {
		bridge.WriteError(os.Stdout, err.Error(), "")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})).With("run_id", uuid.NewString())

	path := cfg.ModelPath
	if *modelPath != "" {
		path = *modelPath
	}
	if path == "" {
		path = config.DefaultModelPath()
	}

	var rec recommender.Recommender = recommender.NewBundle()
	if *useMock {
		rec = &recommender.Mock{}
		log.Info("mock recommender enabled")
	}

	runErr := bridge.Run(context.Background(), os.Stdin, os.Stdout, rec, path, log)

	if cfg.MetricsGateway != "" {
		if err := metrics.Push(cfg.MetricsGateway, cfg.MetricsJob); err != nil {
			log.Warn("metrics push failed", "error", err)
		}
	}

	if runErr != nil {
		log.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
