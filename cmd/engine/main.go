package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ajitpratap0/epochflow/internal/config"
	"github.com/ajitpratap0/epochflow/internal/metrics"
	"github.com/ajitpratap0/epochflow/internal/orchestrator"
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform/examples"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults to ./configs/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	config.InitLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	log.Info().Str("version", config.Version).Msg("starting epochflow engine")

	var metricsSrv *metrics.Server
	if cfg.Monitoring.EnableMetrics {
		metricsSrv = metrics.NewServer(cfg.Monitoring.PrometheusPort, config.NewLogger("metrics"))
		if err := metricsSrv.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start metrics server")
		}
	}

	assetIDs := []table.AssetID{"BTC-USD", "ETH-USD", "SOL-USD"}
	manager := examples.DemoManager{Timeframe: "1D"}

	orch, err := orchestrator.New(assetIDs, manager, cfg.Execution, cfg.Catalog.VersionConstraint, config.NewPipelineLogger(orchestrator.NewRunID()))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct orchestrator")
	}

	baseData := demoBaseData(assetIDs, "1D")

	result, err := orch.ExecutePipeline(baseData)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	for tf, byAsset := range result {
		for assetID, tbl := range byAsset {
			log.Info().
				Str("timeframe", string(tf)).
				Str("asset", assetID).
				Int("rows", tbl.Len()).
				Strs("columns", tbl.ColumnNames()).
				Msg("final output assembled")
		}
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down metrics server")
		}
	}
}

// demoBaseData synthesizes a deterministic sine-wave "close" series per
// asset so the engine has something to run EMA/RSI over without wiring an
// external market-data feed, which is out of scope.
func demoBaseData(assetIDs []table.AssetID, tf table.TimeFrame) map[table.TimeFrame]map[table.AssetID]table.ColumnTable {
	const n = 90
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := 0; i < n; i++ {
		times[i] = base.AddDate(0, 0, i)
	}
	idx := table.NewIndex(times)

	byAsset := make(map[table.AssetID]table.ColumnTable, len(assetIDs))
	for a, assetID := range assetIDs {
		prices := make([]float64, n)
		for i := 0; i < n; i++ {
			prices[i] = 100 + float64(a)*10 + 5*math.Sin(float64(i)/6.0)
		}
		tbl, err := table.New(idx, table.FloatColumn("close", prices))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build demo base data")
		}
		byAsset[assetID] = tbl
	}

	return map[table.TimeFrame]map[table.AssetID]table.ColumnTable{tf: byAsset}
}
