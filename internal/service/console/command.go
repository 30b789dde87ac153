package console

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"text/tabwriter"

	"github.com/oshokin/catpoint/internal/camera"
	"github.com/oshokin/catpoint/internal/classifier"
	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/observer"
	repository "github.com/oshokin/catpoint/internal/repository/state"
	"github.com/oshokin/catpoint/internal/service/security"
)

// Options controls configuration shared by every command.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// StateFile overrides the configured state file when set.
	StateFile string
	// Out receives human-readable output; os.Stdout when nil.
	Out io.Writer
}

var (
	// ErrSensorNotFound is returned when a command names an unknown sensor.
	ErrSensorNotFound = errors.New("sensor not found")
	// errCameraDirRequired is returned by Watch without a directory.
	errCameraDirRequired = errors.New("camera directory is not configured")
)

// session is a fully wired service for one command.
type session struct {
	cfg     *config.Config
	store   *repository.FileStore
	service *security.Service
	out     io.Writer
}

// open loads settings and wires the store, classifier, observers and service.
func open(ctx context.Context, opts *Options) (context.Context, *session, error) {
	ctx = logger.WithName(ctx, "catpoint")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ctx, nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return ctx, nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	logger.SetLevel(level)

	if opts.StateFile != "" {
		cfg.StateFile = opts.StateFile
	}

	store, err := repository.OpenFileStore(ctx, cfg.StateFile)
	if err != nil {
		return ctx, nil, fmt.Errorf("open state: %w", err)
	}

	imageClassifier, err := classifier.New(cfg.Classifier)
	if err != nil {
		return ctx, nil, fmt.Errorf("create classifier: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	svc, err := security.New(ctx, store, imageClassifier,
		security.WithObserver(new(observer.Logging)),
		security.WithObserver(observer.NewPrinter(out)),
	)
	if err != nil {
		return ctx, nil, fmt.Errorf("initialise service: %w", err)
	}

	catDetected, err := store.CatDetected(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("load cat detection: %w", err)
	}

	svc.SetCatDetected(catDetected)

	logger.DebugKV(ctx, "Session opened", "state_file", store.Path(), "classifier", cfg.Classifier)

	return ctx, &session{
		cfg:     cfg,
		store:   store,
		service: svc,
		out:     out,
	}, nil
}

// Status prints the arming status, the alarm status and every sensor.
func Status(ctx context.Context, opts *Options) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	return s.printStatus(ctx)
}

// SetArmingStatus arms or disarms the system. When catDetected is set the
// cat detection flag is forced before arming.
func SetArmingStatus(ctx context.Context, opts *Options, status domain.ArmingStatus, catDetected bool) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	if catDetected {
		s.service.SetCatDetected(true)
	}

	if err = s.service.SetArmingStatus(ctx, status); err != nil {
		return fmt.Errorf("set arming status: %w", err)
	}

	if err = s.saveCatDetected(ctx); err != nil {
		return err
	}

	return s.printStatus(ctx)
}

// AddSensor registers a new inactive sensor.
func AddSensor(ctx context.Context, opts *Options, name, sensorType string) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	parsed, err := domain.ParseSensorType(sensorType)
	if err != nil {
		return err
	}

	if err = s.service.AddSensor(ctx, domain.NewSensor(name, parsed)); err != nil {
		return fmt.Errorf("add sensor: %w", err)
	}

	return s.printStatus(ctx)
}

// RemoveSensor forgets a sensor.
func RemoveSensor(ctx context.Context, opts *Options, name, sensorType string) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	sensor, err := s.findSensor(ctx, name, sensorType)
	if err != nil {
		return err
	}

	if err = s.service.RemoveSensor(ctx, sensor); err != nil {
		return fmt.Errorf("remove sensor: %w", err)
	}

	return s.printStatus(ctx)
}

// ChangeSensorActivation activates or deactivates a known sensor.
func ChangeSensorActivation(ctx context.Context, opts *Options, name, sensorType string, active bool) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	sensor, err := s.findSensor(ctx, name, sensorType)
	if err != nil {
		return err
	}

	if err = s.service.ChangeSensorActivation(ctx, sensor, active); err != nil {
		return fmt.Errorf("change sensor activation: %w", err)
	}

	return s.printStatus(ctx)
}

// ProcessImage classifies one image file.
func ProcessImage(ctx context.Context, opts *Options, path string) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	if err = camera.ProcessFile(ctx, s, path); err != nil {
		return err
	}

	return s.printStatus(ctx)
}

// Watch processes images from the camera directory until ctx is canceled.
// dir overrides the configured camera directory when set.
func Watch(ctx context.Context, opts *Options, dir string) error {
	ctx, s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	if dir == "" {
		dir = s.cfg.CameraDir
	}

	if dir == "" {
		return errCameraDirRequired
	}

	watcher, err := camera.NewWatcher(dir, s, s.cfg.Debounce)
	if err != nil {
		return err
	}

	return watcher.Run(ctx)
}

// ProcessImage runs the image through the service and saves the cat detection flag,
// so later invocations arm with the last camera result.
func (s *session) ProcessImage(ctx context.Context, img image.Image) error {
	if err := s.service.ProcessImage(ctx, img); err != nil {
		return err
	}

	return s.saveCatDetected(ctx)
}

// saveCatDetected writes the service's cat detection flag to the state file.
func (s *session) saveCatDetected(ctx context.Context) error {
	if err := s.store.SetCatDetected(ctx, s.service.CatDetected()); err != nil {
		return fmt.Errorf("save cat detection: %w", err)
	}

	return nil
}

// findSensor looks up a stored sensor by name and type.
func (s *session) findSensor(ctx context.Context, name, sensorType string) (*domain.Sensor, error) {
	parsed, err := domain.ParseSensorType(sensorType)
	if err != nil {
		return nil, err
	}

	key := domain.NewSensor(name, parsed).Key()

	sensors, err := s.service.Sensors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}

	for _, sensor := range sensors {
		if sensor.Key() == key {
			return sensor, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSensorNotFound, key)
}

// printStatus writes the current state as a small table.
func (s *session) printStatus(ctx context.Context) error {
	arming, err := s.service.ArmingStatus(ctx)
	if err != nil {
		return fmt.Errorf("load arming status: %w", err)
	}

	alarm, err := s.service.AlarmStatus(ctx)
	if err != nil {
		return fmt.Errorf("load alarm status: %w", err)
	}

	sensors, err := s.service.Sensors(ctx)
	if err != nil {
		return fmt.Errorf("load sensors: %w", err)
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "arming:\t%s\n", arming)
	_, _ = fmt.Fprintf(tw, "alarm:\t%s\n", alarm)

	for _, sensor := range sensors {
		state := "inactive"
		if sensor.Active {
			state = "active"
		}

		_, _ = fmt.Fprintf(tw, "sensor:\t%s\t%s\t%s\n", sensor.Name, sensor.Type, state)
	}

	if err = tw.Flush(); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	return nil
}
