package main

import (
	"io"
	"os"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/pkg/hydrate"
	"github.com/vango-dev/hydrate/pkg/render"
	"github.com/vango-dev/hydrate/pkg/telemetry"
	"github.com/vango-dev/hydrate/pkg/template"
)

// cliEnv resolves the configuration shared by all commands.
type cliEnv struct {
	configPath *string
	cfg        *config.Config
}

// config loads and validates the configuration once.
func (e *cliEnv) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	switch path := *e.configPath; {
	case path == "":
		cfg, err = config.LoadFromWorkingDir()
	case isDir(path):
		cfg, err = config.Load(path)
	default:
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

// toolchain is a renderer and runtime configured alike.
type toolchain struct {
	renderer *render.Renderer
	runtime  *hydrate.Runtime
}

func newToolchain(cfg *config.Config, minify bool, logOut io.Writer, metrics *telemetry.Metrics) (*toolchain, error) {
	catalog := template.NewCatalog()
	rt, err := hydrate.New(hydrate.Options{
		Markers: cfg.Markers,
		Catalog: catalog,
		Logger:  cfg.NewLogger(logOut),
		Metrics: metrics,
		Tracer:  telemetry.NewTracer(),
	})
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(render.RendererConfig{
		Markers: cfg.Markers,
		Catalog: catalog,
		Minify:  minify || cfg.Render.Minify,
	})
	return &toolchain{renderer: r, runtime: rt}, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
