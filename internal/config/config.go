package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/catpoint/internal/logger"
)

// Config holds the settings shared by the catpoint commands.
type Config struct {
	// StateFile is the path to the YAML file storing the security state.
	StateFile string `yaml:"state_file" env:"STATE_FILE"`
	// LogLevel is the minimum level of log messages, e.g. "info".
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// Classifier selects the image classifier: random, always or never.
	Classifier string `yaml:"classifier" env:"CLASSIFIER"`
	// CameraDir is the directory watched for new camera images.
	CameraDir string `yaml:"camera_dir" env:"CAMERA_DIR"`
	// Debounce is how long a new image file must stay quiet before it is processed.
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`
}

const (
	// DefaultConfigFilename is the default filename for catpoint settings.
	DefaultConfigFilename = "catpoint.yaml"

	// DefaultStateFilename is the default filename for the security state.
	DefaultStateFilename = "catpoint-state.yaml"

	// DefaultLogLevel is used when no log level is configured.
	DefaultLogLevel = "info"

	// DefaultDebounce is the default quiet period for new camera images.
	DefaultDebounce = 200 * time.Millisecond

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CATPOINT_"
)

// Classifier names accepted in the configuration.
const (
	ClassifierRandom = "random"
	ClassifierAlways = "always"
	ClassifierNever  = "never"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownClassifier is returned for classifier names outside the supported set.
	errUnknownClassifier = errors.New("unknown classifier")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeDebounce is returned when the debounce period is negative.
	errNegativeDebounce = errors.New("debounce must not be negative")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Keep defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the classifier name and log level.
func Validate(settings *Config) error {
	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.Classifier == "" {
		settings.Classifier = ClassifierRandom
	}

	if settings.Debounce == 0 {
		settings.Debounce = DefaultDebounce
	}

	if settings.Debounce < 0 {
		return errNegativeDebounce
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if !slices.Contains([]string{ClassifierRandom, ClassifierAlways, ClassifierNever}, settings.Classifier) {
		return fmt.Errorf("%w: %q", errUnknownClassifier, settings.Classifier)
	}

	return nil
}
