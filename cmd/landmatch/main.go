package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/engine"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to engine config file, JSON or YAML")
		envFile    = flag.String("env", ".env", "Dotenv file with API_KEY or GEMINI_API_KEY; missing files are ignored")
		capital    = flag.Float64("capital", 50_000_000, "Capital allocation in AED/SAR")
		target     = flag.Float64("return", 18, "Target IRR in percent")
		asset      = flag.String("asset", string(model.MixedUseCommunities), "Asset type")
		region     = flag.String("region", "", "Search region (overrides config)")
		lat        = flag.Float64("lat", math.NaN(), "Investor latitude (skips geolocation)")
		lng        = flag.Float64("lng", math.NaN(), "Investor longitude (skips geolocation)")
		compare    = flag.Bool("compare", false, "Select visible matches and print a comparison")
		advise     = flag.Bool("advise", false, "Also run compliance and procurement risk analysis")
		mapOut     = flag.String("map-out", "", "Write a PNG map of the matches to this path")
		serve      = flag.String("serve", "", "Serve the RPC API on this address instead of running a query")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := loadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	cfg := engine.DefaultConfig()
	if *configFile != "" {
		loaded, err := engine.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *region != "" {
		cfg.Region = *region
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := engine.New(ctx, &cfg)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	if !eng.HasAgent() {
		logger.Warn("no AI credentials configured; queries will return no results")
	}

	if *serve != "" {
		if err := runServer(ctx, *serve, eng, &cfg, logger); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	mandate := model.Mandate{
		Capital:      *capital,
		TargetReturn: *target,
		AssetType:    model.AssetType(*asset),
	}
	if !math.IsNaN(*lat) && !math.IsNaN(*lng) {
		p := geo.Point{Lat: *lat, Lng: *lng}
		if !p.Valid() {
			log.Fatalf("Invalid location %v,%v", *lat, *lng)
		}
		mandate.Location = &p
	}
	if err := mandate.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nAsset types:\n", err)
		for _, t := range model.AssetTypes() {
			fmt.Fprintf(os.Stderr, "  %s\n", t)
		}
		os.Exit(1)
	}

	opts := queryOptions{
		compare: *compare,
		advise:  *advise,
		mapOut:  *mapOut,
	}
	if err := runQuery(ctx, eng, &cfg, mandate, opts); err != nil {
		log.Fatalf("Query failed: %v", err)
	}
}

// loadEnv reads path into the environment without overriding variables that
// are already set.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
