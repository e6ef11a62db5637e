package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/marker"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hydrate.json"

	// DefaultPort is the default fixture server port.
	DefaultPort = 7070

	// DefaultHost is the default fixture server host.
	DefaultHost = "localhost"

	// DefaultFixtures is the default fixtures directory.
	DefaultFixtures = "fixtures"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "hydrate"
)

// Config represents the complete hydrate.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Markers are the comment marker prefixes used for rendering and
	// hydration.
	Markers marker.Markers `json:"markers"`

	// Render contains server rendering configuration.
	Render RenderConfig `json:"render"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Serve contains fixture server configuration.
	Serve ServeConfig `json:"serve"`

	// Fixtures is the directory holding fixture files, or an
	// s3://bucket/prefix URL.
	Fixtures string `json:"fixtures" validate:"required"`

	// S3 configures the client used for s3:// fixture locations.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains server rendering settings.
type RenderConfig struct {
	// Minify minifies rendered markup. Comments are kept.
	Minify bool `json:"minify,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled turns on metrics collection and the /metrics endpoint.
	Enabled bool `json:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" validate:"required,promname"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty" validate:"omitempty,promname"`
}

// S3Config contains settings for reading fixtures from S3.
type S3Config struct {
	// Region is the bucket region. Defaults to AWS_REGION, then us-east-1.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the service endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty" validate:"omitempty,url"`

	// PathStyle addresses buckets by path instead of by host.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" validate:"oneof=debug info warn error"`

	// Format is text or json.
	Format string `json:"format,omitempty" validate:"oneof=text json"`
}

// ServeConfig contains fixture server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" validate:"required"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" validate:"min=0,max=65535"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Markers: marker.Default(),
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Serve: ServeConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Fixtures: DefaultFixtures,
	}
}

// Load reads configuration from the specified directory.
// It looks for hydrate.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E052").
				WithDetail("No hydrate.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E051").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E051").
			WithDetail("Failed to parse hydrate.json: " + err.Error()).
			WithSuggestion("Check that hydrate.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E051").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E051").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	c.Markers = c.Markers.OrDefault()

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}

	if c.Fixtures == "" {
		c.Fixtures = DefaultFixtures
	}
}

var promName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("promname", func(fl validator.FieldLevel) bool {
		return promName.MatchString(fl.Field().String())
	}); err != nil {
		panic("config: register promname validation: " + err.Error())
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return errors.New("E050").Wrap(err)
		}
		e := verrs[0]
		return errors.New("E050").
			WithDetailf("%s: failed %q check (value %v)", strings.TrimPrefix(e.Namespace(), "Config."), e.Tag(), e.Value())
	}
	if err := c.Markers.Validate(); err != nil {
		return errors.New("E050").WithDetail(err.Error())
	}
	return nil
}

// ServeAddress returns the address string for the fixture server.
func (c *Config) ServeAddress() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// FixturesPath returns the absolute path to the fixtures directory.
// S3 URLs are returned unchanged.
func (c *Config) FixturesPath() string {
	if filepath.IsAbs(c.Fixtures) || strings.HasPrefix(c.Fixtures, "s3://") {
		return c.Fixtures
	}
	return filepath.Join(c.Dir(), c.Fixtures)
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing hydrate.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E052").
				WithDetail("No hydrate.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
// Without a hydrate.json the defaults are returned.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.CodeOf(err) == "E052" {
			cfg := New()
			cfg.configPath = filepath.Join(wd, ConfigFileName)
			return cfg, nil
		}
		return nil, err
	}

	return Load(root)
}
