package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "fieldaudit/internal/platform/errors"
)

const (
	DefaultDataDir = ".fieldaudit"
	settingsFile   = "config.yaml"

	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

const defaultSettingsYAML = `# fieldaudit configuration
version: 1

# Where saved evaluations live: sqlite (default), redis or memory.
storage:
  driver: sqlite
  redis:
    addr: 127.0.0.1:6379
    db: 0

# Sample units per evaluation category.
samples:
  seedling: 200
  hole_quality: 100
  hole_distance: 50

# Accepted hole spacing in meters (closed intervals).
distance:
  street:
    min: 2.70
    max: 3.30
  line:
    min: 1.70
    max: 2.30

log:
  level: info
`

type Config struct {
	DataDir      string
	DBPath       string
	LogPath      string
	ActivePath   string
	ExportDir    string
	SettingsPath string
	Settings     Settings
}

type Settings struct {
	Version  int              `yaml:"version"`
	Storage  StorageSettings  `yaml:"storage"`
	Samples  SampleSettings   `yaml:"samples"`
	Distance DistanceSettings `yaml:"distance"`
	Log      LogSettings      `yaml:"log"`
}

type StorageSettings struct {
	Driver string        `yaml:"driver"`
	Redis  RedisSettings `yaml:"redis"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
}

type SampleSettings struct {
	Seedling     int `yaml:"seedling"`
	HoleQuality  int `yaml:"hole_quality"`
	HoleDistance int `yaml:"hole_distance"`
}

type RangeSettings struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type DistanceSettings struct {
	Street RangeSettings `yaml:"street"`
	Line   RangeSettings `yaml:"line"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

// DefaultSettings mirrors defaultSettingsYAML.
func DefaultSettings() Settings {
	return Settings{
		Version: 1,
		Storage: StorageSettings{
			Driver: DriverSQLite,
			Redis:  RedisSettings{Addr: "127.0.0.1:6379"},
		},
		Samples: SampleSettings{Seedling: 200, HoleQuality: 100, HoleDistance: 50},
		Distance: DistanceSettings{
			Street: RangeSettings{Min: 2.70, Max: 3.30},
			Line:   RangeSettings{Min: 1.70, Max: 2.30},
		},
		Log: LogSettings{Level: "info"},
	}
}

// New resolves paths under dataDir with default settings and touches nothing on disk.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("%w: data dir is required", apperrors.ErrInvalidInput)
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "fieldaudit.db"),
		LogPath:      filepath.Join(dataDir, "logs", "fieldaudit.log"),
		ActivePath:   filepath.Join(dataDir, "active-evaluation.json"),
		ExportDir:    filepath.Join(dataDir, "exports"),
		SettingsPath: filepath.Join(dataDir, settingsFile),
		Settings:     DefaultSettings(),
	}, nil
}

// Load is New plus config.yaml, which is written with defaults on first use.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	raw, err := os.ReadFile(cfg.SettingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return Config{}, fmt.Errorf("create data dir: %w", err)
		}
		if err := os.WriteFile(cfg.SettingsPath, []byte(defaultSettingsYAML), 0o644); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidInput, cfg.SettingsPath, err)
	}
	if err := settings.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func (s Settings) Validate() error {
	switch s.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverRedis:
		if strings.TrimSpace(s.Storage.Redis.Addr) == "" {
			return fmt.Errorf("%w: storage.redis.addr is required for the redis driver", apperrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported storage driver %q", apperrors.ErrInvalidInput, s.Storage.Driver)
	}
	for name, n := range map[string]int{
		"samples.seedling":      s.Samples.Seedling,
		"samples.hole_quality":  s.Samples.HoleQuality,
		"samples.hole_distance": s.Samples.HoleDistance,
	} {
		if n <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", apperrors.ErrInvalidInput, name, n)
		}
	}
	if s.Distance.Street.Min > s.Distance.Street.Max {
		return fmt.Errorf("%w: distance.street min exceeds max", apperrors.ErrInvalidInput)
	}
	if s.Distance.Line.Min > s.Distance.Line.Max {
		return fmt.Errorf("%w: distance.line min exceeds max", apperrors.ErrInvalidInput)
	}
	switch strings.ToLower(s.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unsupported log level %q", apperrors.ErrInvalidInput, s.Log.Level)
	}
	return nil
}
