package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/fixture"
	"github.com/vango-dev/hydrate/pkg/telemetry"
)

// maxMarkup bounds the body of a check request.
const maxMarkup = 4 << 20

// server serves fixtures over HTTP so that client-side tooling can fetch
// server markup and post markup back for a hydration check.
type server struct {
	files    map[string]*fixture.File
	tc       *toolchain
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func newServer(cfg *config.Config, files map[string]*fixture.File, logOut io.Writer) (*server, error) {
	reg := prometheus.NewRegistry()
	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = telemetry.NewMetrics(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithSubsystem(cfg.Metrics.Subsystem),
		)
	}
	tc, err := newToolchain(cfg, false, logOut, metrics)
	if err != nil {
		return nil, err
	}
	return &server{
		files:    files,
		tc:       tc,
		metrics:  metrics,
		registry: reg,
		upgrader: newUpgrader(),
		logger:   cfg.NewLogger(logOut),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/fixtures", s.handleList)
	r.Get("/fixtures/{name}", s.handleRender)
	r.Post("/check/{name}", s.handleCheck)
	r.Get("/live/{name}", s.handleLive)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type fixtureInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Templates   []string `json:"templates"`
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list := make([]fixtureInfo, 0, len(s.files))
	for _, f := range s.files {
		list = append(list, fixtureInfo{Name: f.Name, Description: f.Description, Templates: f.TemplateNames()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fixture(w, r)
	if !ok {
		return
	}
	start := time.Now()
	v, err := f.Root()
	var markup string
	if err == nil {
		markup, err = s.tc.renderer.RenderToString(v)
	}
	s.metrics.ObserveRender(time.Since(start), err)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, markup)
}

func (s *server) handleCheck(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fixture(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMarkup))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("E070").WithDetail("read markup").Wrap(err))
		return
	}
	rep, err := s.tc.check(r.Context(), f, string(body))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if rep.Error != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, rep)
}

func (s *server) fixture(w http.ResponseWriter, r *http.Request) (*fixture.File, bool) {
	name := chi.URLParam(r, "name")
	f, ok := s.files[name]
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("E061").WithDetailf("fixture %q", name))
	}
	return f, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func codeOf(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "E070"
}

func writeError(w http.ResponseWriter, status int, err error) {
	e := errors.FromError(err, "E070")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, e.FormatJSON())
}

func serveCmd(env *cliEnv) *cobra.Command {
	var (
		port int
		host string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fixtures for hydration checks",
		Long: `Serve every fixture of a directory over HTTP.

Routes:
  GET  /fixtures          list fixtures
  GET  /fixtures/{name}   server markup of a fixture
  POST /check/{name}      hydrate the posted markup against a fixture
  GET  /live/{name}       websocket session checking each message
  GET  /metrics           Prometheus metrics (when enabled)

Examples:
  hydrate serve
  hydrate serve --port=8080 --dir testdata/fixtures
  hydrate serve --dir s3://ui-fixtures/hydrate/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if dir == "" {
				dir = cfg.FixturesPath()
			}
			return runServe(cmd.Context(), cfg, fixtureSource(cfg, dir))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from hydrate.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from hydrate.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Fixture directory or s3://bucket/prefix (default from hydrate.json)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, src fixture.Source) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := src.Load(ctx)
	if err != nil {
		return err
	}
	s, err := newServer(cfg, files, os.Stderr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServeAddress(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	success("Serving %d fixtures from %s", len(files), describeSource(src))
	info("Listening on http://%s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.New("E070").WithDetailf("listen on %s", srv.Addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
