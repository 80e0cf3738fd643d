package api

import (
	"encoding/json"
	"errors"
	"flightplan-synth/internal/logger"
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/export"
	"flightplan-synth/internal/synth/route"
	"flightplan-synth/internal/synth/simulation"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/labstack/gommon/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"
)

const defaultDiversionFactor = 0.2

type Options struct {
	RequestsPerSec float64 // no limit if zero
	MaxPlans       int     // per request
}

type Server struct {
	gen      *simulation.Generator
	limiter  *rate.Limiter
	maxPlans int
	lg       *log.Logger
}

// New constructs the HTTP router serving plans from gen. Every request
// draws from its own generator, seeded from the seed query parameter or
// the clock, so requests share no mutable state.
func New(gen *simulation.Generator, opts Options, lg *log.Logger) http.Handler {
	if lg == nil {
		lg = logger.Discard()
	}
	limit := rate.Inf
	if opts.RequestsPerSec > 0 {
		limit = rate.Limit(opts.RequestsPerSec)
	}
	s := &Server{
		gen:      gen,
		limiter:  rate.NewLimiter(limit, max(1, int(opts.RequestsPerSec))),
		maxPlans: max(1, opts.MaxPlans),
		lg:       lg,
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/plans", s.handlePlans)
		r.Get("/plans.geojson", s.handlePlansGeoJSON)
		r.Get("/route", s.handleRoute)
	})

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSONError(w, http.StatusTooManyRequests, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestRand(r *http.Request) (*rand.Rand, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return rand.NewFromClock(), nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		return rand.NewFromClock(), nil
	}
	return rand.New(seed), nil
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) (*simulation.Batch, bool) {
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return nil, false
		}
	}
	n = min(n, s.maxPlans)

	rng, err := requestRand(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "seed must be an integer")
		return nil, false
	}

	b, err := s.gen.Generate(rng, n)
	if err != nil {
		s.lg.Errorf("%s: %v", r.URL, err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	w.Header().Set("X-Seed", strconv.FormatInt(b.Seed, 10))
	return b, true
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(w, r)
	if !ok {
		return
	}

	accept := r.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "msgpack"):
		w.Header().Set("Content-Type", "application/msgpack")
		if err := msgpack.NewEncoder(w).Encode(export.PlanRecords(b.Plans)); err != nil {
			s.lg.Errorf("msgpack: %v", err)
		}
	case strings.Contains(accept, "application/json"):
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(export.PlanRecords(b.Plans))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(b.String()))
	}
}

func (s *Server) handlePlansGeoJSON(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(w, r)
	if !ok {
		return
	}
	out, err := export.FeatureCollection(b.Plans, s.gen.Airspace.Position).MarshalJSON()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(out)
}

type routeResponse struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Path      route.Path `json:"path"`
	CostKm    float64    `json:"cost_km"`
	Randomize bool       `json:"randomize"`
	Seed      int64      `json:"seed,omitempty"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := routeResponse{From: q.Get("from"), To: q.Get("to")}
	if resp.From == "" || resp.To == "" {
		writeJSONError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	opts := route.Options{DiversionFactor: defaultDiversionFactor}
	if v := q.Get("randomize"); v != "" {
		var err error
		if opts.Randomize, err = strconv.ParseBool(v); err != nil {
			writeJSONError(w, http.StatusBadRequest, "randomize must be a boolean")
			return
		}
	}
	if v := q.Get("diversion"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 || d >= 1 {
			writeJSONError(w, http.StatusBadRequest, "diversion must be in [0, 1)")
			return
		}
		opts.DiversionFactor = d
	}
	if opts.Randomize {
		rng, err := requestRand(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		opts.Rand = rng
		resp.Seed = rng.SeedValue()
	}
	resp.Randomize = opts.Randomize

	p, cost, err := route.Search(s.gen.Graph, resp.From, resp.To, opts)
	if errors.Is(err, route.ErrNoRoute) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp.Path, resp.CostKm = p, cost

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
