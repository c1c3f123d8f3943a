package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. FISHBOARD_API_URL.
const EnvPrefix = "FISHBOARD_"

// Config is the fishboard runtime configuration.
type Config struct {
	// APIURL is the root of the remote fish API.
	APIURL string `yaml:"api_url" toml:"api_url"`
	// Addr is the listen address of the dashboard server.
	Addr string `yaml:"addr" toml:"addr"`
	// RequestTimeout bounds each upstream call. Zero disables the timeout.
	RequestTimeout time.Duration `yaml:"request_timeout" toml:"request_timeout"`
	// CacheTTL keeps the fish list between renders. Zero refetches every time.
	CacheTTL      time.Duration `yaml:"cache_ttl" toml:"cache_ttl"`
	ChartCacheTTL time.Duration `yaml:"chart_cache_ttl" toml:"chart_cache_ttl"`
	ChartTheme    string        `yaml:"chart_theme" toml:"chart_theme"`
	// AssetsHost overrides where the ECharts runtime is loaded from.
	AssetsHost string `yaml:"assets_host" toml:"assets_host"`
	TopN       int    `yaml:"top_n" toml:"top_n"`
	SiteTitle  string `yaml:"site_title" toml:"site_title"`
	LogLevel   string `yaml:"log_level" toml:"log_level"`
	LogFormat  string `yaml:"log_format" toml:"log_format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		APIURL:         "http://127.0.0.1:8000",
		Addr:           ":8080",
		RequestTimeout: 10 * time.Second,
		CacheTTL:       0,
		ChartCacheTTL:  5 * time.Minute,
		ChartTheme:     "westeros",
		TopN:           5,
		SiteTitle:      "BamaBass Tracker",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadOptions selects the sources merged by Load.
type LoadOptions struct {
	// Path is an optional .yaml, .yml or .toml file.
	Path string
	// EnvFile is read when present. Defaults to ".env"; "-" skips it.
	EnvFile string
	// Lookup reads process environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load merges defaults, the config file, the env file and FISHBOARD_*
// variables, in that order, and validates the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()
	if opts.Path != "" {
		if err := loadFile(opts.Path, &cfg); err != nil {
			return Config{}, err
		}
	}
	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	merged := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnv(&cfg, merged); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(bytes.NewReader(data), cfg)
	case ".toml":
		return decodeTOML(string(data), cfg)
	default:
		return fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
}

func decodeYAML(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func decodeTOML(data string, cfg *Config) error {
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return fmt.Errorf("config: parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("config: unknown toml keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "-" {
		return nil, nil
	}
	if path == "" {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read env file %s: %w", path, err)
	}
	return values, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"API_URL":     &cfg.APIURL,
		"ADDR":        &cfg.Addr,
		"CHART_THEME": &cfg.ChartTheme,
		"ASSETS_HOST": &cfg.AssetsHost,
		"SITE_TITLE":  &cfg.SiteTitle,
		"LOG_LEVEL":   &cfg.LogLevel,
		"LOG_FORMAT":  &cfg.LogFormat,
	}
	for key, target := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*target = strings.TrimSpace(v)
		}
	}
	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"CACHE_TTL":       &cfg.CacheTTL,
		"CHART_CACHE_TTL": &cfg.ChartCacheTTL,
	}
	for key, target := range durations {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*target = d
	}
	if v, ok := lookup(EnvPrefix + "TOP_N"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sTOP_N: %w", EnvPrefix, err)
		}
		cfg.TopN = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api_url must be an http(s) url, got %q", c.APIURL)
	}
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.RequestTimeout < 0 || c.CacheTTL < 0 || c.ChartCacheTTL < 0 {
		return errors.New("config: durations must not be negative")
	}
	if c.TopN < 1 {
		return fmt.Errorf("config: top_n must be at least 1, got %d", c.TopN)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
