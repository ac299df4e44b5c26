// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Browser    BrowserConfig    `yaml:"browser"`
	Detection  DetectionConfig  `yaml:"detection"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Output     OutputConfig     `yaml:"output"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig locates the hotel records to process.
type InputConfig struct {
	// Path is a CSV or JSON file of hotel records.
	Path string `yaml:"path"`
	// Limit caps how many records are processed; 0 means all.
	Limit int `yaml:"limit"`
	// SkipChains drops records whose website belongs to a big hotel chain.
	SkipChains bool `yaml:"skip_chains"`
	// SkipJunk drops records whose website is a social or OTA page.
	SkipJunk bool `yaml:"skip_junk"`
}

// BrowserConfig controls the shared Chrome instance.
type BrowserConfig struct {
	Headless bool `yaml:"headless"`
	// PoolSize is the number of reusable browsing contexts. Zero disables
	// reuse and gives each hotel a fresh context.
	PoolSize int `yaml:"pool_size"`
	// UserAgent overrides the default desktop Chrome string when set.
	UserAgent string `yaml:"user_agent"`
}

// DetectionConfig carries the cascade's timeouts and tunables.
type DetectionConfig struct {
	PrecheckTimeout Duration `yaml:"precheck_timeout"`
	// NavTimeout bounds the first navigation attempt, which waits for the
	// DOM content-loaded event.
	NavTimeout Duration `yaml:"nav_timeout"`
	// NavRetryTimeout bounds the second attempt, which settles for the
	// navigation merely being committed.
	NavRetryTimeout Duration `yaml:"nav_retry_timeout"`
	// SettleDelay is the pause after navigation before the page is read,
	// giving widgets a chance to inject themselves.
	SettleDelay Duration `yaml:"settle_delay"`
	// PopupWait is how long a click is given to open a new tab.
	PopupWait Duration `yaml:"popup_wait"`
	// WidgetWait is how long a click is given to fire booking traffic when
	// it neither navigated nor opened a tab.
	WidgetWait Duration `yaml:"widget_wait"`
	// MaxButtons caps the scored booking-button candidates examined.
	MaxButtons int `yaml:"max_buttons"`
	// PatternOverlay optionally names a YAML file of extra engine entries
	// appended after the built-in table.
	PatternOverlay string `yaml:"pattern_overlay"`
}

// PipelineConfig controls scheduling across hotels.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
	// Pause is the minimum spacing between hotel starts, smoothing load on
	// shared infrastructure.
	Pause Duration `yaml:"pause"`
	// Resume skips records that already have a terminal stored result.
	Resume bool `yaml:"resume"`
	// FlushEvery persists accumulated results after this many completions.
	FlushEvery int `yaml:"flush_every"`
}

// OutputConfig selects where results land. Store is always on; the export
// sinks run only when configured.
type OutputConfig struct {
	// StorePath is the SQLite result store.
	StorePath string `yaml:"store_path"`
	// CSVPath, JSONPath and ExcelPath are optional file exports.
	CSVPath   string `yaml:"csv_path"`
	JSONPath  string `yaml:"json_path"`
	ExcelPath string `yaml:"excel_path"`
	// PostgresDSN, MySQLDSN and MongoURI are optional database sinks.
	PostgresDSN string `yaml:"postgres_dsn"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	MongoURI    string `yaml:"mongo_uri"`
	// MongoDatabase and MongoCollection locate the Mongo sink; defaults
	// apply when MongoURI is set and these are blank.
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

// MonitoringConfig controls the metrics endpoint.
type MonitoringConfig struct {
	// Addr serves /metrics and /status when non-empty, e.g. ":9090".
	Addr string `yaml:"addr"`
}

// LoggingConfig controls process logging.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default returns the configuration used when a field is left unset.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			SkipChains: true,
			SkipJunk:   true,
		},
		Browser: BrowserConfig{
			Headless: true,
			PoolSize: 3,
		},
		Detection: DetectionConfig{
			PrecheckTimeout: Duration(5 * time.Second),
			NavTimeout:      Duration(30 * time.Second),
			NavRetryTimeout: Duration(15 * time.Second),
			SettleDelay:     Duration(1500 * time.Millisecond),
			PopupWait:       Duration(2 * time.Second),
			WidgetWait:      Duration(3 * time.Second),
			MaxButtons:      10,
		},
		Pipeline: PipelineConfig{
			Concurrency: 3,
			FlushEvery:  10,
		},
		Output: OutputConfig{
			StorePath: "stayscout.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file, fills unset fields with defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses configuration from YAML bytes. Environment variables in
// the form ${VAR} are expanded before parsing so DSNs can stay out of the
// file.
func LoadBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

// applyDefaults backfills zero values that yaml may have clobbered.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Detection.PrecheckTimeout == 0 {
		cfg.Detection.PrecheckTimeout = def.Detection.PrecheckTimeout
	}
	if cfg.Detection.NavTimeout == 0 {
		cfg.Detection.NavTimeout = def.Detection.NavTimeout
	}
	if cfg.Detection.NavRetryTimeout == 0 {
		cfg.Detection.NavRetryTimeout = def.Detection.NavRetryTimeout
	}
	if cfg.Detection.SettleDelay == 0 {
		cfg.Detection.SettleDelay = def.Detection.SettleDelay
	}
	if cfg.Detection.PopupWait == 0 {
		cfg.Detection.PopupWait = def.Detection.PopupWait
	}
	if cfg.Detection.WidgetWait == 0 {
		cfg.Detection.WidgetWait = def.Detection.WidgetWait
	}
	if cfg.Detection.MaxButtons == 0 {
		cfg.Detection.MaxButtons = def.Detection.MaxButtons
	}
	if cfg.Pipeline.Concurrency == 0 {
		cfg.Pipeline.Concurrency = def.Pipeline.Concurrency
	}
	if cfg.Pipeline.FlushEvery == 0 {
		cfg.Pipeline.FlushEvery = def.Pipeline.FlushEvery
	}
	if cfg.Output.StorePath == "" {
		cfg.Output.StorePath = def.Output.StorePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Output.MongoURI != "" {
		if cfg.Output.MongoDatabase == "" {
			cfg.Output.MongoDatabase = "stayscout"
		}
		if cfg.Output.MongoCollection == "" {
			cfg.Output.MongoCollection = "leads"
		}
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if c.Input.Limit < 0 {
		return fmt.Errorf("input.limit cannot be negative")
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be at least 1")
	}
	if c.Browser.PoolSize < 0 {
		return fmt.Errorf("browser.pool_size cannot be negative")
	}
	if c.Detection.MaxButtons < 1 {
		return fmt.Errorf("detection.max_buttons must be at least 1")
	}
	if c.Detection.NavTimeout < c.Detection.NavRetryTimeout {
		return fmt.Errorf("detection.nav_timeout must not be shorter than nav_retry_timeout")
	}
	if c.Detection.PatternOverlay != "" {
		if _, err := os.Stat(c.Detection.PatternOverlay); err != nil {
			return fmt.Errorf("detection.pattern_overlay: %v", err)
		}
	}
	return nil
}

// Template returns an example configuration file body for `stayscout template`.
func Template() string {
	return `# stayscout configuration
input:
  path: hotels.csv
  limit: 0
  skip_chains: true
  skip_junk: true

browser:
  headless: true
  pool_size: 3

detection:
  precheck_timeout: 5s
  nav_timeout: 30s
  nav_retry_timeout: 15s
  settle_delay: 1500ms
  popup_wait: 2s
  widget_wait: 3s
  max_buttons: 10
  # pattern_overlay: extra_engines.yaml

pipeline:
  concurrency: 3
  pause: 0s
  resume: true
  flush_every: 10

output:
  store_path: stayscout.db
  csv_path: results.csv
  # json_path: results.json
  # excel_path: leads.xlsx
  # postgres_dsn: ${STAYSCOUT_PG_DSN}
  # mysql_dsn: ${STAYSCOUT_MYSQL_DSN}
  # mongo_uri: ${STAYSCOUT_MONGO_URI}

monitoring:
  addr: ""

logging:
  level: info
  console: true
`
}
