package security

import (
	"context"
	"image"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// StateStore persists the arming status, the alarm status and the sensor set.
type StateStore interface {
	ArmingStatus(ctx context.Context) (domain.ArmingStatus, error)
	SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error
	AlarmStatus(ctx context.Context) (domain.AlarmStatus, error)
	SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error
	Sensors(ctx context.Context) ([]*domain.Sensor, error)
	AddSensor(ctx context.Context, sensor *domain.Sensor) error
	RemoveSensor(ctx context.Context, sensor *domain.Sensor) error
	UpdateSensor(ctx context.Context, sensor *domain.Sensor) error
}

// ImageClassifier decides whether an image shows a cat.
type ImageClassifier interface {
	ContainsCat(ctx context.Context, img image.Image, confidenceThreshold float32) (bool, error)
}

// StatusObserver receives notifications about system changes.
//
// Observers are called synchronously while the service holds its lock,
// so they must not call back into the service. Registration compares
// observers with ==, so the dynamic type must be comparable: use a pointer
// for structs holding funcs, maps or slices. Service.AddObserver rejects
// other types with ErrObserverNotComparable.
type StatusObserver interface {
	SensorStatusChanged(ctx context.Context)
	CatDetected(ctx context.Context, catPresent bool)
	AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus)
}
