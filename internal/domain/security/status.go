package security

import (
	"errors"
	"fmt"
	"strings"
)

// ArmingStatus describes whether the system is monitoring sensors.
type ArmingStatus int

const (
	// Disarmed means the system ignores sensor activations.
	Disarmed ArmingStatus = iota
	// ArmedHome means the system is armed while someone is at home.
	ArmedHome
	// ArmedAway means the system is armed while the house is empty.
	ArmedAway
)

// AlarmStatus describes the current threat level.
type AlarmStatus int

const (
	// NoAlarm is the quiet state.
	NoAlarm AlarmStatus = iota
	// PendingAlarm means an intrusion is suspected.
	PendingAlarm
	// Alarm means an intrusion is confirmed.
	Alarm
)

var (
	// ErrUnknownArmingStatus is returned when an arming status name cannot be parsed.
	ErrUnknownArmingStatus = errors.New("unknown arming status")
	// ErrUnknownAlarmStatus is returned when an alarm status name cannot be parsed.
	ErrUnknownAlarmStatus = errors.New("unknown alarm status")
)

//nolint:gochecknoglobals // Lookup tables for enum names.
var (
	armingStatusNames = map[ArmingStatus]string{
		Disarmed:  "DISARMED",
		ArmedHome: "ARMED_HOME",
		ArmedAway: "ARMED_AWAY",
	}
	alarmStatusNames = map[AlarmStatus]string{
		NoAlarm:      "NO_ALARM",
		PendingAlarm: "PENDING_ALARM",
		Alarm:        "ALARM",
	}
)

// IsArmed reports whether the status is one of the armed variants.
func (s ArmingStatus) IsArmed() bool {
	return s == ArmedHome || s == ArmedAway
}

// String returns the canonical upper-case name of the arming status.
func (s ArmingStatus) String() string {
	if name, ok := armingStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ArmingStatus(%d)", int(s))
}

// MarshalYAML encodes the arming status by name.
func (s ArmingStatus) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes the arming status from its name.
func (s *ArmingStatus) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseArmingStatus(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseArmingStatus converts a name such as "ARMED_HOME", "armed-home" or "home"
// into an ArmingStatus.
func ParseArmingStatus(name string) (ArmingStatus, error) {
	switch normalize(name) {
	case "DISARMED", "OFF":
		return Disarmed, nil
	case "ARMED_HOME", "HOME":
		return ArmedHome, nil
	case "ARMED_AWAY", "AWAY":
		return ArmedAway, nil
	default:
		return Disarmed, fmt.Errorf("%w: %q", ErrUnknownArmingStatus, name)
	}
}

// String returns the canonical upper-case name of the alarm status.
func (s AlarmStatus) String() string {
	if name, ok := alarmStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("AlarmStatus(%d)", int(s))
}

// MarshalYAML encodes the alarm status by name.
func (s AlarmStatus) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes the alarm status from its name.
func (s *AlarmStatus) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseAlarmStatus(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseAlarmStatus converts a name such as "PENDING_ALARM" into an AlarmStatus.
func ParseAlarmStatus(name string) (AlarmStatus, error) {
	switch normalize(name) {
	case "NO_ALARM":
		return NoAlarm, nil
	case "PENDING_ALARM":
		return PendingAlarm, nil
	case "ALARM":
		return Alarm, nil
	default:
		return NoAlarm, fmt.Errorf("%w: %q", ErrUnknownAlarmStatus, name)
	}
}

// normalize upper-cases a name and maps dashes and spaces to underscores.
func normalize(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))

	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}
