package security

import (
	"errors"
	"fmt"
)

// SensorType is the kind of physical detector behind a sensor.
type SensorType int

const (
	// Door is a door contact sensor.
	Door SensorType = iota
	// Window is a window contact sensor.
	Window
	// Motion is a motion detector.
	Motion
)

// ErrUnknownSensorType is returned when a sensor type name cannot be parsed.
var ErrUnknownSensorType = errors.New("unknown sensor type")

//nolint:gochecknoglobals // Lookup table for enum names.
var sensorTypeNames = map[SensorType]string{
	Door:   "DOOR",
	Window: "WINDOW",
	Motion: "MOTION",
}

// String returns the canonical upper-case name of the sensor type.
func (t SensorType) String() string {
	if name, ok := sensorTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("SensorType(%d)", int(t))
}

// MarshalYAML encodes the sensor type by name.
func (t SensorType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML decodes the sensor type from its name.
func (t *SensorType) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseSensorType(name)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// ParseSensorType converts a case-insensitive name into a SensorType.
func ParseSensorType(name string) (SensorType, error) {
	switch normalize(name) {
	case "DOOR":
		return Door, nil
	case "WINDOW":
		return Window, nil
	case "MOTION":
		return Motion, nil
	default:
		return Door, fmt.Errorf("%w: %q", ErrUnknownSensorType, name)
	}
}

// Sensor is a single detector known to the system.
type Sensor struct {
	// Name is the human-readable sensor name, e.g. "Front door".
	Name string `yaml:"name"`
	// Type is the kind of detector.
	Type SensorType `yaml:"type"`
	// Active is true while the sensor reports a physical trigger.
	Active bool `yaml:"active"`
}

// NewSensor returns an inactive sensor.
func NewSensor(name string, sensorType SensorType) *Sensor {
	return &Sensor{
		Name: name,
		Type: sensorType,
	}
}

// Key identifies the sensor by name and type.
func (s *Sensor) Key() string {
	return s.Type.String() + "/" + s.Name
}

// Clone returns a copy of the sensor to avoid leaking internal references.
func (s *Sensor) Clone() *Sensor {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// String renders the sensor for logs.
func (s *Sensor) String() string {
	return fmt.Sprintf("%s(active=%t)", s.Key(), s.Active)
}
