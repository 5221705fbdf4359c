package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/service/companion"
	"github.com/sandevgo/kinbot/internal/service/recap"
	"github.com/sandevgo/kinbot/pkg/log"
)

type ChatService interface {
	Turn(ctx context.Context, userID, companionID, message string) (string, error)
}

type CompanionService interface {
	Create(ctx context.Context, in companion.CreateInput) (core.Companion, error)
	Get(ctx context.Context, id string) (companion.Profile, error)
	SetTone(ctx context.Context, id string, tone int) (core.Companion, error)
	Remember(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error)
}

type RecapService interface {
	RecapOne(ctx context.Context, companionID string) (recap.Outcome, error)
	RecapAll(ctx context.Context) (recap.BatchResult, error)
}

type Server struct {
	cfg        *config.HTTPConfig
	chat       ChatService
	companions CompanionService
	recaps     RecapService
	gatherer   prometheus.Gatherer
	server     *http.Server
}

// NewServer wires the routes. A nil gatherer leaves /metrics unmounted.
func NewServer(
	cfg *config.HTTPConfig,
	chat ChatService,
	companions CompanionService,
	recaps RecapService,
	gatherer prometheus.Gatherer,
) *Server {
	s := &Server{
		cfg:        cfg,
		chat:       chat,
		companions: companions,
		recaps:     recaps,
		gatherer:   gatherer,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler builds the router. The base context carries the logger into handlers.
func (s *Server) Handler(base context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withLogger(base))

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/companions", s.handleCreateCompanion)
		r.Get("/companions/{id}", s.handleGetCompanion)
		r.Patch("/companions/{id}/tone", s.handleSetTone)
		r.Post("/memories", s.handleUpsertMemory)
		r.Post("/chat", s.handleChat)

		r.Group(func(r chi.Router) {
			r.Use(jobTokenMiddleware(s.cfg.JobToken))
			r.Post("/jobs/recap", s.handleRecapOne)
			r.Post("/jobs/recap-all", s.handleRecapAll)
			// paths used by existing weekly cron callers
			r.Post("/jobs/weekly-recap", s.handleRecapOne)
			r.Post("/jobs/weekly-recap-all", s.handleRecapAll)
		})
	})
	return r
}

func (s *Server) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "http")
	s.server.Handler = s.Handler(ctx)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	log.FromCtx(ctx).Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// withLogger hands the base logger to every request context so handlers
// and services log through pkg/log.
func withLogger(base context.Context) func(http.Handler) http.Handler {
	logger := log.FromCtx(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
