package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingInput = errors.New("waypoints and airports files are required")
	ErrInvalidValue = errors.New("invalid configuration value")
)

type Config struct {
	WaypointsPath string
	AirportsPath  string
	AirlinesPath  string
	OutputPath    string
	GeoJSONPath   string

	Plans      int
	Seed       int64
	MaxJumpKm  float64
	Workers    int
	Indexed    bool
	OpenFlight bool

	LogLevel string
	LogDir   string

	Listen          string
	RequestsPerSec  float64
	MaxPlansPerCall int

	Schedule string

	CheckPath       string
	Conflicts       bool
	ConflictStep    time.Duration
	MinSeparationKm float64
	MinSeparationFt float64
}

// LoadEnv loads .env from the working directory if there is one.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Getenv returns the environment value for key or def when it is unset.
func Getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v, err := strconv.Atoi(Getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(Getenv(key, ""), 64); err == nil {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(Getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(Getenv(key, "")); err == nil {
		return v
	}
	return def
}

// Parse builds a Config from FPS_* environment variables overridden by
// command-line flags.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := &Config{}
	fs.StringVar(&c.WaypointsPath, "waypoints", Getenv("FPS_WAYPOINTS", ""), "waypoints file (name,lat,lon per line)")
	fs.StringVar(&c.AirportsPath, "airports", Getenv("FPS_AIRPORTS", ""), "airports file (id,altitude_m per line)")
	fs.StringVar(&c.AirlinesPath, "airlines", Getenv("FPS_AIRLINES", ""), "optional JSON object of airline name to callsign prefix")
	fs.StringVar(&c.OutputPath, "out", Getenv("FPS_OUT", ""), "output file for plans; .zst suffix compresses; empty writes to stdout")
	fs.StringVar(&c.GeoJSONPath, "geojson", Getenv("FPS_GEOJSON", ""), "optional GeoJSON output file")
	fs.IntVar(&c.Plans, "n", getenvInt("FPS_PLANS", 1), "number of plans to attempt")
	fs.Int64Var(&c.Seed, "seed", int64(getenvInt("FPS_SEED", 0)), "random seed; 0 seeds from the clock")
	fs.Float64Var(&c.MaxJumpKm, "maxjump", getenvFloat("FPS_MAX_JUMP_KM", 70), "maximum distance between connected waypoints, km")
	fs.IntVar(&c.Workers, "workers", getenvInt("FPS_WORKERS", runtime.NumCPU()), "graph construction workers")
	fs.BoolVar(&c.Indexed, "index", getenvBool("FPS_INDEXED", false), "use a spatial index to pre-filter graph candidates")
	fs.BoolVar(&c.OpenFlight, "openflights", getenvBool("FPS_OPENFLIGHTS", false), "resolve airports missing from the waypoints file via openflights")
	fs.StringVar(&c.LogLevel, "loglevel", Getenv("FPS_LOG_LEVEL", "info"), "logging level: debug, info, warn, error")
	fs.StringVar(&c.LogDir, "logdir", Getenv("FPS_LOG_DIR", ""), "log file directory; empty logs to stderr")
	fs.StringVar(&c.Listen, "listen", Getenv("FPS_LISTEN", ""), "serve the HTTP API on this address instead of writing a batch")
	fs.Float64Var(&c.RequestsPerSec, "rps", getenvFloat("FPS_RPS", 5), "HTTP API requests per second")
	fs.IntVar(&c.MaxPlansPerCall, "maxplans", getenvInt("FPS_MAX_PLANS", 100), "maximum plans per HTTP request")
	fs.StringVar(&c.Schedule, "schedule", Getenv("FPS_SCHEDULE", ""), "cron schedule for repeated batches, e.g. @every 10m")
	fs.StringVar(&c.CheckPath, "check", Getenv("FPS_CHECK", ""), "read plans from this file and report their conflicts instead of generating")
	fs.BoolVar(&c.Conflicts, "conflicts", getenvBool("FPS_CONFLICTS", false), "report proximity conflicts between generated plans")
	fs.DurationVar(&c.ConflictStep, "conflictstep", getenvDuration("FPS_CONFLICT_STEP", 5*time.Second), "time step for conflict detection")
	fs.Float64Var(&c.MinSeparationKm, "minsepkm", getenvFloat("FPS_MIN_SEP_KM", 9.26), "horizontal proximity threshold, km")
	fs.Float64Var(&c.MinSeparationFt, "minsepft", getenvFloat("FPS_MIN_SEP_FT", 1000), "vertical proximity threshold, ft")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if c.WaypointsPath == "" || c.AirportsPath == "" {
		return ErrMissingInput
	}
	if c.Plans < 0 {
		return fmt.Errorf("plans %d: %w", c.Plans, ErrInvalidValue)
	}
	if c.MaxJumpKm <= 0 {
		return fmt.Errorf("maxjump %g: %w", c.MaxJumpKm, ErrInvalidValue)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if (c.Conflicts || c.CheckPath != "") && c.ConflictStep <= 0 {
		return fmt.Errorf("conflictstep %s: %w", c.ConflictStep, ErrInvalidValue)
	}
	return nil
}
