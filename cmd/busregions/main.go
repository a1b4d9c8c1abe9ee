// busregions builds the onshore and offshore Voronoi bus regions for a
// network: every country (or US state) boundary is split between the buses
// it contains and the result is written as two GeoJSON files.
//
//	busregions [-config config.yaml] [-workers n] [-log-level debug]
//	busregions compare a.yaml b.yaml
//
// compare checks that two config files have the same structure (keys, value
// types, list contents) and exits with status 1 when they differ.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/0x0FACED/busregions/pkg/config"
	"github.com/0x0FACED/busregions/pkg/geoio"
	"github.com/0x0FACED/busregions/pkg/logger"
	"github.com/0x0FACED/busregions/pkg/regions"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var configFile = flag.String("config", "config.yaml", "YAML or TOML config file")
var workers = flag.Int("workers", 0, "Parallel partition passes, 0 - take from config")
var logLevel = flag.String("log-level", "", "debug, info, warn or error; empty - take from config")

func main() {
	flag.Parse()

	if flag.Arg(0) == "compare" {
		os.Exit(compare(os.Stdout, flag.Args()[1:]))
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *workers > 0 {
		cfg.Regions.Workers = *workers
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log := logger.NewWithOptions(logger.Options{
		Level: cfg.Logging.Level,
		Color: cfg.Logging.Color,
	}).With(zap.String("run_id", uuid.NewString()))
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("[m] Регионы не построены", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.ZapLogger) error {
	log.Info("[m] Старт",
		zap.String("config", *configFile),
		zap.Bool("use_state_shapes", cfg.UseStateShapes),
		zap.String("interconnect", cfg.Interconnect),
		zap.Int("workers", cfg.Regions.Workers))

	in, err := readInput(cfg)
	if err != nil {
		return err
	}

	res, err := regions.NewBuilder(cfg.RegionsStage(), log).Build(ctx, in)
	if err != nil {
		return err
	}

	if err := writeFile(cfg.Output.RegionsOnshore, func(w io.Writer) error {
		return geoio.WriteRegions(w, res.Onshore)
	}); err != nil {
		return err
	}

	writeOffshore := func(w io.Writer) error { return geoio.WriteRegions(w, res.Offshore) }
	if len(res.Offshore) == 0 {
		log.Warn("[m] Морских регионов нет, пишем морские границы как есть")
		writeOffshore = func(w io.Writer) error { return geoio.WriteShapes(w, in.OffshoreShapes) }
	}
	if err := writeFile(cfg.Output.RegionsOffshore, writeOffshore); err != nil {
		return err
	}

	if cfg.Output.Buses != "" {
		if err := writeFile(cfg.Output.Buses, func(w io.Writer) error {
			return geoio.WriteBuses(w, res.Buses)
		}); err != nil {
			return err
		}
	}

	log.Info("[m] Готово",
		zap.String("onshore", cfg.Output.RegionsOnshore),
		zap.String("offshore", cfg.Output.RegionsOffshore),
		zap.Strings("skipped", res.Skipped))
	return nil
}

func readInput(cfg config.Config) (regions.Input, error) {
	var in regions.Input

	f, err := os.Open(cfg.Input.Buses)
	if err != nil {
		return in, err
	}
	in.Buses, err = geoio.ReadBuses(f)
	f.Close()
	if err != nil {
		return in, fmt.Errorf("%s: %w", cfg.Input.Buses, err)
	}

	shapes := []struct {
		path string
		dst  *regions.Shapes
	}{
		{cfg.Input.CountryShapes, &in.CountryShapes},
		{cfg.Input.StateShapes, &in.StateShapes},
		{cfg.Input.OffshoreShapes, &in.OffshoreShapes},
	}
	for _, s := range shapes {
		if s.path == "" {
			*s.dst = regions.Shapes{}
			continue
		}
		if *s.dst, err = geoio.ReadShapes(s.path); err != nil {
			return in, err
		}
	}
	return in, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func compare(w io.Writer, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: busregions compare a.yaml b.yaml")
		return 2
	}
	a, err := config.LoadTree(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	b, err := config.LoadTree(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	mismatches := config.CompareStructure(a, b)
	for _, m := range mismatches {
		fmt.Fprintln(w, m)
	}
	if len(mismatches) > 0 {
		return 1
	}
	fmt.Fprintln(w, "structure matches")
	return 0
}
