package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plus3/lux/ecs"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ecs-stress: %v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup, so profiles are flushed even when the run fails.
func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	duration := flags.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flags.Int("entities", 1000, "The number of entities kept alive in each world.")
	worldCount := flags.Int("worlds", 1, "The number of worlds in the scene.")
	maxHealth := flags.Int("max-health", 120, "Entities live between 1 and this many updates before respawning.")
	seed := flags.Uint64("seed", 1, "Seed for the entity generator.")
	configPath := flags.String("config", "", "Optional toml file with an [ecs] table of limits.")
	profileMode := flags.String("profile", "", "Write a cpu or mem profile to the working directory.")
	logLevel := flags.String("log-level", "info", "Log level (debug, info, warn, error).")
	gcPauseMetrics := flags.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer logger.Sync() //nolint:errcheck

	cfg := ecs.DefaultConfig()
	if *configPath != "" {
		cfg, err = ecs.LoadConfig(*configPath)
		if err != nil {
			return errors.Wrapf(err, "failed to load config %s", *configPath)
		}
	}
	// room for the population plus each world's singleton entity
	if need := *entityCount + 1; cfg.MaxEntities < need {
		logger.Info("raising max_entities to fit the population", zap.Int("from", cfg.MaxEntities), zap.Int("to", need))
		cfg.MaxEntities = need
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return errors.Errorf("unknown profile mode %q", *profileMode)
	}

	logger.Info("starting ECS stress test",
		zap.Duration("duration", *duration),
		zap.Int("entities", *entityCount),
		zap.Int("worlds", *worldCount))

	// 1. Setup registry and scene
	registry := ecs.NewComponentRegistry(cfg)
	registerComponents(registry)
	scene := ecs.NewScene(registry, logger)

	sims := make([]*simulation, *worldCount)
	for i := range sims {
		sims[i] = &simulation{
			rng:       rand.New(rand.NewPCG(*seed, uint64(i))),
			maxHealth: max(*maxHealth, 1),
		}
		scene.CreateWorld(sims[i])
	}

	// 2. Populate every world
	for i, h := range scene.Worlds() {
		sims[i].populate(h.World(), *entityCount)
	}
	scene.Init()
	logger.Info("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Worlds:         *worldCount,
		Config:         cfg,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			scene.FixedUpdate()
			scene.Update()
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	for i, h := range scene.Worlds() {
		report.World = append(report.World, WorldReport{
			Index:     i,
			Stats:     h.World().CollectStats(),
			Groups:    h.Stats(),
			Spawned:   sims[i].spawned,
			Destroyed: sims[i].destroyed,
		})
	}

	logger.Info("simulation finished", zap.Int64("updates", totalUpdates))

	// 4. Generate report to console
	fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
	if err := report.Generate(out); err != nil {
		return errors.Wrap(err, "failed to generate report")
	}
	fmt.Fprintln(out, "--- End of Report ---")
	return nil
}

func newLogger(levelName string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, err
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
