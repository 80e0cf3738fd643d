package main

import (
	"context"
	"errors"
	"flag"
	"flightplan-synth/internal/api"
	"flightplan-synth/internal/config"
	"flightplan-synth/internal/logger"
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/airline"
	"flightplan-synth/internal/synth/airspace"
	"flightplan-synth/internal/synth/conflict"
	"flightplan-synth/internal/synth/export"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/internal/synth/graph"
	"flightplan-synth/internal/synth/simulation"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env: %v\n", err)
	}
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	lg := logger.New("flightplan-synth", cfg.LogLevel, cfg.LogDir)
	for _, line := range figure.NewFigure("FP SYNTH", "", false).Slicify() {
		lg.Info(line)
	}
	logger.Hello(lg)

	as, err := airspace.Load(cfg.WaypointsPath, cfg.AirportsPath)
	if err != nil {
		lg.Fatalf("loading airspace: %v", err)
	}
	lg.Infof("loaded %d waypoints and %d airports", len(as.Waypoints), len(as.Airports))
	if cfg.OpenFlight {
		resolved, missing := as.ResolveAirportsFromOpenFlights()
		lg.Infof("openflights: resolved %d airports, %d not found", len(resolved), len(missing))
	}
	if u := as.UnroutableAirports(); len(u) > 0 {
		lg.Warnf("%d airports aren't in the waypoint set and can't be routed: %v", len(u), u)
	}

	minima := conflict.Minima{HorizontalKm: cfg.MinSeparationKm, VerticalFt: cfg.MinSeparationFt}
	if cfg.CheckPath != "" {
		plans, err := export.ReadPlans(cfg.CheckPath)
		if err != nil {
			lg.Fatalf("%s: %v", cfg.CheckPath, err)
		}
		lg.Infof("%s: %d plans", cfg.CheckPath, len(plans))
		reportConflicts(lg, plans, as, cfg.ConflictStep, minima)
		return
	}

	start := time.Now()
	g := (&graph.Builder{
		MaxJumpKm: cfg.MaxJumpKm,
		Workers:   cfg.Workers,
		Indexed:   cfg.Indexed,
		Reporter:  simulation.ProgressReporter(lg, 1000),
	}).Build(as.Coordinates())
	lg.Infoj(log.JSON{
		"msg":     "graph built",
		"nodes":   len(g),
		"edges":   g.EdgeCount(),
		"elapsed": time.Since(start).String(),
	})

	gen := simulation.NewGenerator(as, g, lg)
	if cfg.AirlinesPath != "" {
		if gen.Airlines, err = loadAirlines(cfg.AirlinesPath); err != nil {
			lg.Fatalf("%s: %v", cfg.AirlinesPath, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.Listen != "":
		serve(ctx, lg, gen, cfg)

	case cfg.Schedule != "":
		lg.Info("running first batch")
		runBatch(lg, gen, cfg, cfg.Seed, minima)

		jobs := cron.New()
		if _, err := jobs.AddFunc(cfg.Schedule, func() { runBatch(lg, gen, cfg, 0, minima) }); err != nil {
			lg.Fatalf("schedule %q: %v", cfg.Schedule, err)
		}
		lg.Infof("scheduled batches: %s", cfg.Schedule)
		jobs.Start()
		<-ctx.Done()
		<-jobs.Stop().Done()

	default:
		if !runBatch(lg, gen, cfg, cfg.Seed, minima) {
			os.Exit(1)
		}
	}
}

func loadAirlines(path string) (*airline.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return airline.LoadJSON(f)
}

func runBatch(lg *log.Logger, gen *simulation.Generator, cfg *config.Config, seed int64, minima conflict.Minima) bool {
	r := rand.NewFromClock()
	if seed != 0 {
		r = rand.New(seed)
	}
	lg.Infof("seed %d", r.SeedValue())

	b, err := gen.Generate(r, cfg.Plans)
	if err != nil {
		lg.Errorf("generating plans: %v", err)
		return false
	}
	for _, s := range b.SkipLog {
		lg.Debugf("skipped %s %s-%s: %v", s.Callsign, s.Origin, s.Destination, s.Err)
	}

	if cfg.OutputPath == "" {
		err = export.EncodePlans(os.Stdout, b.Plans, false)
	} else {
		err = export.WritePlans(cfg.OutputPath, b.Plans)
	}
	if err != nil {
		lg.Errorf("writing plans: %v", err)
		return false
	}
	if cfg.GeoJSONPath != "" {
		if err := export.WriteGeoJSON(cfg.GeoJSONPath, b.Plans, gen.Airspace.Position); err != nil {
			lg.Errorf("writing GeoJSON: %v", err)
			return false
		}
	}

	if cfg.Conflicts {
		reportConflicts(lg, b.Plans, gen.Airspace, cfg.ConflictStep, minima)
	}
	return true
}

func reportConflicts(lg *log.Logger, plans []*flightplan.FlightPlan, as *airspace.Airspace, step time.Duration, minima conflict.Minima) {
	reports := simulation.DetectConflicts(plans, as.Position, step, minima)
	for _, r := range reports {
		lg.Warnf("conflict: %s", r)
	}
	lg.Infof("%d conflicts among %d plans", len(reports), len(plans))
}

func serve(ctx context.Context, lg *log.Logger, gen *simulation.Generator, cfg *config.Config) {
	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: api.New(gen, api.Options{
			RequestsPerSec: cfg.RequestsPerSec,
			MaxPlans:       cfg.MaxPlansPerCall,
		}, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	lg.Infof("listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatalf("%s: %v", cfg.Listen, err)
	}
}
