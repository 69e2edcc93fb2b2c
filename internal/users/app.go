package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"DemoShop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
	CORSOrigins    []string

	// Zero means the defaults below.
	LoginLimitPerMin    int
	RegisterLimitPerMin int
}

const (
	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindow         = 60 * time.Second
)

type counter interface {
	Count() int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil && deps.Log != nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)
	setupRoutes(r, s, deps, metricsOn)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS(deps.CORSOrigins))
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RouteLabel))

	if c, ok := s.Store.(counter); ok {
		deps.Registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "users_registered",
				Help: "Users currently stored",
			},
			func() float64 { return float64(c.Count()) },
		))
	}
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps, metricsOn bool) {
	loginLimiter := kit.NewIPRateLimiter(orDefault(deps.LoginLimitPerMin, loginLimitPerMin), int(limitWindow.Seconds()))
	registerLimiter := kit.NewIPRateLimiter(orDefault(deps.RegisterLimitPerMin, registerLimitPerMin), int(limitWindow.Seconds()))

	r.Route("/api/users", func(rr chi.Router) {
		rr.Get("/", s.handleList)
		rr.With(registerLimiter.Middleware).Post("/register", s.handleRegister)
		rr.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
		rr.Get("/username/{username}", s.handleGetByUsername)
		rr.Get("/email/{email}", s.handleGetByEmail)
		rr.Get("/{id}", s.handleGet)
		rr.Put("/{id}", s.handleUpdate)
		rr.Delete("/{id}", s.handleDelete)
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.handleReady)

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
