package security

import (
	"context"
	"errors"
	"fmt"
	"image"
	"reflect"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
)

// CatConfidenceThreshold is the minimum confidence, in percent, passed to the classifier.
const CatConfidenceThreshold float32 = 50.0

var (
	// ErrNilSensor is returned when a sensor operation receives no sensor.
	ErrNilSensor = errors.New("sensor is required")
	// ErrNilImage is returned when ProcessImage receives no image.
	ErrNilImage = errors.New("image is required")
	// ErrObserverNotComparable is returned for observers whose dynamic type cannot be compared.
	ErrObserverNotComparable = errors.New("observer type is not comparable")
	// errStoreRequired is returned when the service is built without a store.
	errStoreRequired = errors.New("state store is required")
	// errClassifierRequired is returned when the service is built without a classifier.
	errClassifierRequired = errors.New("image classifier is required")
)

// Service decides the alarm status from arming changes, sensor events and camera images.
// It owns no state besides the previous arming status and the cat detection flag;
// everything else lives in the StateStore and is read at call time.
type Service struct {
	// store persists arming status, alarm status and sensors.
	store StateStore
	// classifier detects cats in camera images.
	classifier ImageClassifier
	// observers are notified in registration order.
	observers []StatusObserver
	// previousArming is the arming status set by the last SetArmingStatus call.
	previousArming domain.ArmingStatus
	// catDetected is the result of the last processed image.
	catDetected bool
	// mu serialises every public operation.
	mu sync.Mutex
}

// Option configures the service.
type Option func(*Service) error

// WithObserver registers an observer at construction time.
func WithObserver(observer StatusObserver) Option {
	return func(s *Service) error {
		return s.addObserver(observer)
	}
}

// New creates a service backed by the provided store and classifier.
// The previous arming status is initialised from the store.
func New(ctx context.Context, store StateStore, classifier ImageClassifier, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errStoreRequired
	}

	if classifier == nil {
		return nil, errClassifierRequired
	}

	arming, err := store.ArmingStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load arming status: %w", err)
	}

	s := &Service{
		store:          store,
		classifier:     classifier,
		previousArming: arming,
	}

	for _, opt := range opts {
		if err = opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SetArmingStatus changes the arming status and updates the alarm status accordingly.
//
// Arming from DISARMED while a cat was last seen raises the alarm at once.
// Disarming always clears the alarm. Arming resets every sensor to inactive.
func (s *Service) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.previousArming == domain.Disarmed && status.IsArmed() && s.catDetected {
		if err := s.setAlarmStatus(ctx, domain.Alarm); err != nil {
			return err
		}
	}

	if status == domain.Disarmed {
		if err := s.setAlarmStatus(ctx, domain.NoAlarm); err != nil {
			return err
		}
	} else if err := s.resetSensors(ctx); err != nil {
		return err
	}

	if err := s.store.SetArmingStatus(ctx, status); err != nil {
		return fmt.Errorf("persist arming status: %w", err)
	}

	logger.InfoKV(ctx, "Arming status changed", "from", s.previousArming.String(), "to", status.String())

	s.previousArming = status

	return nil
}

// ChangeSensorActivation sets the sensor's active flag, persists it and
// updates the alarm status. The caller's sensor is modified in place.
func (s *Service) ChangeSensorActivation(ctx context.Context, sensor *domain.Sensor, active bool) error {
	if sensor == nil {
		return ErrNilSensor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := sensor.Active
	sensor.Active = active

	if err := s.store.UpdateSensor(ctx, sensor); err != nil {
		sensor.Active = wasActive

		return fmt.Errorf("persist sensor %s: %w", sensor.Key(), err)
	}

	logger.DebugKV(ctx, "Sensor activation changed", "sensor", sensor.Key(), "was_active", wasActive, "active", active)

	switch {
	case active:
		// A repeated activation of an already active sensor escalates as well.
		return s.handleActivation(ctx)
	case wasActive:
		return s.handleDeactivation(ctx)
	default:
		return nil
	}
}

// ProcessImage asks the classifier whether the image shows a cat and
// updates the alarm status with the result.
func (s *Service) ProcessImage(ctx context.Context, img image.Image) error {
	if img == nil {
		return ErrNilImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catPresent, err := s.classifier.ContainsCat(ctx, img, CatConfidenceThreshold)
	if err != nil {
		return fmt.Errorf("classify image: %w", err)
	}

	return s.onCatDetectionResult(ctx, catPresent)
}

// AddObserver registers an observer. Adding the same observer twice has no effect.
// A nil observer is ignored; a non-comparable one is rejected with ErrObserverNotComparable.
func (s *Service) AddObserver(observer StatusObserver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addObserver(observer)
}

// RemoveObserver unregisters an observer. Removing an unknown observer is a no-op.
func (s *Service) RemoveObserver(observer StatusObserver) {
	if observer == nil || !reflect.TypeOf(observer).Comparable() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, registered := range s.observers {
		if registered == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)

			return
		}
	}
}

// AlarmStatus returns the current alarm status.
func (s *Service) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.AlarmStatus(ctx)
}

// ArmingStatus returns the current arming status.
func (s *Service) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.ArmingStatus(ctx)
}

// Sensors returns every known sensor.
func (s *Service) Sensors(ctx context.Context) ([]*domain.Sensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Sensors(ctx)
}

// AddSensor registers a new sensor. It never changes the alarm status.
func (s *Service) AddSensor(ctx context.Context, sensor *domain.Sensor) error {
	if sensor == nil {
		return ErrNilSensor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.AddSensor(ctx, sensor)
}

// RemoveSensor forgets a sensor. It never changes the alarm status.
func (s *Service) RemoveSensor(ctx context.Context, sensor *domain.Sensor) error {
	if sensor == nil {
		return ErrNilSensor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.RemoveSensor(ctx, sensor)
}

// CatDetected reports whether the last processed image showed a cat.
func (s *Service) CatDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catDetected
}

// SetCatDetected overrides the cat detection flag without processing an image.
func (s *Service) SetCatDetected(catDetected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catDetected = catDetected
}

// handleActivation escalates the alarm status one step while armed.
func (s *Service) handleActivation(ctx context.Context) error {
	arming, err := s.store.ArmingStatus(ctx)
	if err != nil {
		return fmt.Errorf("load arming status: %w", err)
	}

	if arming == domain.Disarmed {
		return nil
	}

	alarm, err := s.store.AlarmStatus(ctx)
	if err != nil {
		return fmt.Errorf("load alarm status: %w", err)
	}

	switch alarm {
	case domain.NoAlarm:
		return s.setAlarmStatus(ctx, domain.PendingAlarm)
	case domain.PendingAlarm:
		return s.setAlarmStatus(ctx, domain.Alarm)
	default:
		return nil
	}
}

// handleDeactivation clears a pending alarm once every sensor is quiet.
// An alarm that already fired is not downgraded.
func (s *Service) handleDeactivation(ctx context.Context) error {
	alarm, err := s.store.AlarmStatus(ctx)
	if err != nil {
		return fmt.Errorf("load alarm status: %w", err)
	}

	if alarm != domain.PendingAlarm {
		return nil
	}

	anyActive, err := s.anySensorActive(ctx)
	if err != nil {
		return err
	}

	if anyActive {
		return nil
	}

	return s.setAlarmStatus(ctx, domain.NoAlarm)
}

// onCatDetectionResult applies a classifier result and notifies observers.
func (s *Service) onCatDetectionResult(ctx context.Context, catPresent bool) error {
	arming, err := s.store.ArmingStatus(ctx)
	if err != nil {
		return fmt.Errorf("load arming status: %w", err)
	}

	if catPresent && arming == domain.ArmedHome {
		if err = s.setAlarmStatus(ctx, domain.Alarm); err != nil {
			return err
		}
	} else {
		anyActive, err := s.anySensorActive(ctx)
		if err != nil {
			return err
		}

		if !anyActive {
			if err = s.setAlarmStatus(ctx, domain.NoAlarm); err != nil {
				return err
			}
		}
	}

	s.catDetected = catPresent

	logger.InfoKV(ctx, "Camera image processed", "cat_detected", catPresent, "arming", arming.String())

	for _, observer := range s.observers {
		observer.CatDetected(ctx, catPresent)
	}

	return nil
}

// resetSensors deactivates every sensor and sends a single sensor notification.
func (s *Service) resetSensors(ctx context.Context) error {
	sensors, err := s.store.Sensors(ctx)
	if err != nil {
		return fmt.Errorf("load sensors: %w", err)
	}

	for _, sensor := range sensors {
		sensor.Active = false

		if err = s.store.UpdateSensor(ctx, sensor); err != nil {
			return fmt.Errorf("reset sensor %s: %w", sensor.Key(), err)
		}
	}

	logger.DebugKV(ctx, "Sensors reset", "count", len(sensors))

	for _, observer := range s.observers {
		observer.SensorStatusChanged(ctx)
	}

	return nil
}

// setAlarmStatus is the only place where the alarm status changes.
func (s *Service) setAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	if err := s.store.SetAlarmStatus(ctx, status); err != nil {
		return fmt.Errorf("persist alarm status: %w", err)
	}

	logger.InfoKV(ctx, "Alarm status changed", "status", status.String())

	for _, observer := range s.observers {
		observer.AlarmStatusChanged(ctx, status)
	}

	return nil
}

// anySensorActive reports whether at least one sensor is active.
func (s *Service) anySensorActive(ctx context.Context) (bool, error) {
	sensors, err := s.store.Sensors(ctx)
	if err != nil {
		return false, fmt.Errorf("load sensors: %w", err)
	}

	for _, sensor := range sensors {
		if sensor.Active {
			return true, nil
		}
	}

	return false, nil
}

// addObserver appends the observer unless it is already registered.
func (s *Service) addObserver(observer StatusObserver) error {
	if observer == nil {
		return nil
	}

	if !reflect.TypeOf(observer).Comparable() {
		return fmt.Errorf("%w: %T", ErrObserverNotComparable, observer)
	}

	for _, registered := range s.observers {
		if registered == observer {
			return nil
		}
	}

	s.observers = append(s.observers, observer)

	return nil
}
