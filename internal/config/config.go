package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/markscan/internal/charset"
	"github.com/sells-group/markscan/internal/extract"
)

// AppName is used for the env prefix and the XDG config directory.
const AppName = "markscan"

// Config holds the full application configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Markers MarkersConfig `yaml:"markers" mapstructure:"markers"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ScanConfig configures encoding detection. A nil ConfidenceThreshold keeps
// the sniffer default; 0 accepts any guess.
type ScanConfig struct {
	SampleSize          int      `yaml:"sample_size" mapstructure:"sample_size"`
	ConfidenceThreshold *float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	DefaultEncoding     string   `yaml:"default_encoding" mapstructure:"default_encoding"`
	FallbackEncoding    string   `yaml:"fallback_encoding" mapstructure:"fallback_encoding"`
}

// MarkersConfig selects a marker preset and overrides single markers.
// Empty marker fields keep the preset's value.
type MarkersConfig struct {
	Preset          string `yaml:"preset" mapstructure:"preset"`
	extract.Markers `yaml:",inline" mapstructure:",squash"`
}

// OutputConfig configures how results are rendered.
type OutputConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	DisplayLimit int    `yaml:"display_limit" mapstructure:"display_limit"`
}

// StoreConfig configures the optional run-history backend. An empty
// driver disables history.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SQLitePath returns the history database file: DatabaseURL when set,
// otherwise history.db under the XDG data directory.
func (c StoreConfig) SQLitePath() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return filepath.Join(xdg.DataHome, AppName, "history.db")
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Sniffer builds an encoding sniffer from the scan settings.
func (c ScanConfig) Sniffer() *charset.Sniffer {
	s := charset.NewSniffer()
	if c.SampleSize > 0 {
		s.SampleSize = c.SampleSize
	}
	if c.ConfidenceThreshold != nil {
		s.Threshold = *c.ConfidenceThreshold
	}
	if c.DefaultEncoding != "" {
		s.Default = c.DefaultEncoding
	}
	if c.FallbackEncoding != "" {
		s.Fallback = c.FallbackEncoding
	}
	return s
}

// Resolve returns the preset with the configured overrides applied.
func (c MarkersConfig) Resolve() (extract.Markers, error) {
	base, err := extract.Preset(c.Preset)
	if err != nil {
		return extract.Markers{}, err
	}
	m := base.Merge(c.Markers)
	if err := m.Validate(); err != nil {
		return extract.Markers{}, err
	}
	return m, nil
}

// Defaults returns the configuration Load produces with no file and no
// environment overrides.
func Defaults() Config {
	return Config{
		Scan: ScanConfig{
			SampleSize:          charset.DefaultSampleSize,
			ConfidenceThreshold: float64Ptr(charset.DefaultThreshold),
			DefaultEncoding:     charset.DefaultLabel,
			FallbackEncoding:    charset.FallbackLabel,
		},
		Markers: MarkersConfig{Preset: extract.PresetGeneric},
		Output:  OutputConfig{Format: "text", DisplayLimit: 500},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

func float64Ptr(v float64) *float64 { return &v }

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path
// searches for config.yaml in the working directory and the XDG config
// directory.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
	}

	// Environment
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("scan.sample_size", d.Scan.SampleSize)
	v.SetDefault("scan.confidence_threshold", *d.Scan.ConfidenceThreshold)
	v.SetDefault("scan.default_encoding", d.Scan.DefaultEncoding)
	v.SetDefault("scan.fallback_encoding", d.Scan.FallbackEncoding)
	v.SetDefault("markers.preset", d.Markers.Preset)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.display_limit", d.Output.DisplayLimit)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	// Marker keys default to empty so AutomaticEnv can see them.
	for _, key := range []string{
		"ship_doc_name", "ship_doc_number", "ship_doc_date", "record_end",
		"item_trigger", "item_name", "item_end", "code_start", "code_end", "delimiter",
	} {
		v.SetDefault("markers."+key, "")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
