package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestParseArmingStatus verifies names, aliases and unknown values.
func TestParseArmingStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]ArmingStatus{
		"DISARMED":   Disarmed,
		"armed_home": ArmedHome,
		"armed-away": ArmedAway,
		"home":       ArmedHome,
		" away ":     ArmedAway,
		"off":        Disarmed,
	}
	for name, want := range cases {
		got, err := ParseArmingStatus(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseArmingStatus("sleeping")
	require.ErrorIs(t, err, ErrUnknownArmingStatus)
}

// TestArmingStatusIsArmed checks which variants count as armed.
func TestArmingStatusIsArmed(t *testing.T) {
	t.Parallel()

	require.False(t, Disarmed.IsArmed())
	require.True(t, ArmedHome.IsArmed())
	require.True(t, ArmedAway.IsArmed())
}

// TestParseAlarmStatus verifies every alarm status name parses back to itself.
func TestParseAlarmStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []AlarmStatus{NoAlarm, PendingAlarm, Alarm} {
		got, err := ParseAlarmStatus(status.String())
		require.NoError(t, err)
		require.Equal(t, status, got)
	}

	_, err := ParseAlarmStatus("panic")
	require.ErrorIs(t, err, ErrUnknownAlarmStatus)
	require.Equal(t, "AlarmStatus(42)", AlarmStatus(42).String())
}

// TestStatusYAML ensures statuses are stored by name.
func TestStatusYAML(t *testing.T) {
	t.Parallel()

	type snapshot struct {
		Arming ArmingStatus `yaml:"arming"`
		Alarm  AlarmStatus  `yaml:"alarm"`
	}

	data, err := yaml.Marshal(snapshot{Arming: ArmedAway, Alarm: PendingAlarm})
	require.NoError(t, err)
	require.Contains(t, string(data), "arming: ARMED_AWAY")
	require.Contains(t, string(data), "alarm: PENDING_ALARM")

	var decoded snapshot
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Equal(t, ArmedAway, decoded.Arming)
	require.Equal(t, PendingAlarm, decoded.Alarm)

	require.Error(t, yaml.Unmarshal([]byte("arming: SOMETIMES\n"), &decoded))
}
