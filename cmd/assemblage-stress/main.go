package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/gamesys/assemblage"
	"github.com/plus3/gamesys/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for (overrides config).")
	worlds := flag.Int("worlds", 0, "The number of independent worlds to run concurrently (overrides config).")
	entities := flag.Int("entities", 0, "The live entity target per world (overrides config).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *duration > 0 {
		cfg.Stress.Duration = *duration
	}
	if *worlds > 0 {
		cfg.Stress.Worlds = *worlds
	}
	if *entities > 0 {
		cfg.Stress.Entities = *entities
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	archetypes := assemblage.DefaultArchetypes()
	if cfg.Assemblage.ArchetypesPath != "" {
		archetypes, err = assemblage.LoadArchetypes(cfg.Assemblage.ArchetypesPath)
		if err != nil {
			log.Fatal("load archetypes", zap.String("path", cfg.Assemblage.ArchetypesPath), zap.Error(err))
		}
	}

	log.Info("starting assemblage stress test",
		zap.Duration("duration", cfg.Stress.Duration),
		zap.Int("worlds", cfg.Stress.Worlds),
		zap.Int("entities", cfg.Stress.Entities),
		zap.Bool("strict", cfg.Assemblage.StrictDependencies),
		zap.Strings("archetypes", archetypes.Names()))

	report := &Report{
		Duration:       cfg.Stress.Duration,
		Worlds:         cfg.Stress.Worlds,
		Entities:       cfg.Stress.Entities,
		Strict:         cfg.Assemblage.StrictDependencies,
		Archetypes:     archetypes.Names(),
		GCPauseMetrics: *gcPauseMetrics,
		Results:        make([]WorldReport, cfg.Stress.Worlds),
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stress.Duration)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Stress.Worlds {
		w := newWorld(i, cfg, archetypes, log.With(zap.Int("world", i)))
		g.Go(func() error {
			result, err := w.run(ctx)
			report.Results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal("stress test failed", zap.Error(err))
	}

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Finalize()

	log.Info("simulation finished", zap.Int64("ticks", report.TotalTicks))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
