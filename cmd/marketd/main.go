package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mintmarket/config"
	"mintmarket/core/types"
	"mintmarket/native/common"
	"mintmarket/native/market"
	"mintmarket/observability/logging"
	"mintmarket/rpc"
	"mintmarket/state"
	"mintmarket/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the marketd configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var rotation *logging.Rotation
	if cfg.LogFile != "" {
		rotation = &logging.Rotation{File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB, MaxBackups: 5}
	}
	logger := logging.Setup("marketd", cfg.Environment, rotation)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	manager, err := state.NewManager(db)
	if err != nil {
		logger.Error("load state", "err", err)
		os.Exit(1)
	}
	if cfg.GenesisFile != "" {
		if _, statErr := os.Stat(cfg.GenesisFile); statErr == nil {
			if manager.GenesisApplied() {
				logger.Info("genesis already applied, skipping", "file", cfg.GenesisFile)
			} else {
				genesis, err := state.LoadGenesis(cfg.GenesisFile)
				if err != nil {
					logger.Error("load genesis", "err", err)
					os.Exit(1)
				}
				if err := manager.ApplyGenesis(genesis); err != nil {
					logger.Error("apply genesis", "err", err)
					os.Exit(1)
				}
				logger.Info("genesis applied", "file", cfg.GenesisFile)
			}
		}
	}

	operators := make([][20]byte, 0, len(cfg.AllowedOperators))
	for _, raw := range cfg.AllowedOperators {
		addr, err := types.ParseAddress(raw)
		if err != nil {
			logger.Error("parse operator address", "addr", raw, "err", err)
			os.Exit(1)
		}
		operators = append(operators, addr)
	}
	registry := common.NewStaticRegistry(cfg.PausedModules, operators)

	engine := market.NewEngine()
	engine.SetState(manager)
	engine.SetCurrencyTransfer(manager)
	engine.SetAssetTransfer(manager)
	engine.SetRoyaltyResolver(manager)
	engine.SetPauses(registry)
	engine.SetOperators(registry)
	settlement := market.NewSettlement(engine)

	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		logger.Info("starting metrics server", "addr", cfg.MetricsAddress)
		if err := http.ListenAndServe(cfg.MetricsAddress, metricsMux); err != nil {
			logger.Error("metrics server stopped", "err", err)
		}
	}()

	server := rpc.NewServer(engine, settlement, logger)
	logger.Info("marketd ready", "network", cfg.NetworkName)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", "err", err)
		os.Exit(1)
	}
}
