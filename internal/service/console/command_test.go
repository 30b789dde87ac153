package console

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// newOptions returns options pointing at a fresh directory with the given classifier.
func newOptions(t *testing.T, classifierKind string) (*Options, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "catpoint.yaml")

	require.NoError(t, config.Save(configPath, &config.Config{
		StateFile:  filepath.Join(dir, "state.yaml"),
		LogLevel:   "error",
		Classifier: classifierKind,
	}))

	out := new(bytes.Buffer)

	return &Options{
		ConfigPath: configPath,
		Out:        out,
	}, out
}

// TestSensorLifecycle walks a sensor through add, arm, activate and remove across separate invocations.
func TestSensorLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts, out := newOptions(t, config.ClassifierNever)

	require.NoError(t, AddSensor(ctx, opts, "Front door", "door"))
	require.Contains(t, out.String(), "Front door")

	require.NoError(t, SetArmingStatus(ctx, opts, domain.ArmedAway, false))
	require.Contains(t, out.String(), "sensors: status changed")

	out.Reset()
	require.NoError(t, ChangeSensorActivation(ctx, opts, "Front door", "DOOR", true))
	require.Contains(t, out.String(), "alarm: PENDING_ALARM")
	require.Contains(t, out.String(), "active")

	out.Reset()
	require.NoError(t, ChangeSensorActivation(ctx, opts, "Front door", "DOOR", true))
	require.Contains(t, out.String(), "alarm: ALARM")

	out.Reset()
	require.NoError(t, SetArmingStatus(ctx, opts, domain.Disarmed, false))
	require.Contains(t, out.String(), "alarm: NO_ALARM")

	require.NoError(t, RemoveSensor(ctx, opts, "Front door", "door"))

	err := ChangeSensorActivation(ctx, opts, "Front door", "door", true)
	require.ErrorIs(t, err, ErrSensorNotFound)

	require.Error(t, AddSensor(ctx, opts, "Laser", "laser"))
}

// TestArmWithForcedCat verifies the forced cat flag raises the alarm on arming.
func TestArmWithForcedCat(t *testing.T) {
	t.Parallel()

	opts, out := newOptions(t, config.ClassifierNever)

	require.NoError(t, SetArmingStatus(context.Background(), opts, domain.ArmedHome, true))
	require.Contains(t, out.String(), "alarm: ALARM")
}

// TestProcessImage verifies an image file reaches the classifier and the alarm logic.
func TestProcessImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts, out := newOptions(t, config.ClassifierAlways)

	path := writeFrame(t)

	require.NoError(t, SetArmingStatus(ctx, opts, domain.ArmedHome, false))

	out.Reset()
	require.NoError(t, ProcessImage(ctx, opts, path))
	require.Contains(t, out.String(), "camera: cat detected")
	require.Contains(t, out.String(), "alarm: ALARM")

	require.Error(t, ProcessImage(ctx, opts, filepath.Join(t.TempDir(), "absent.png")))
}

// writeFrame writes a small PNG and returns its path.
func writeFrame(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "frame.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewGray(image.Rect(0, 0, 2, 2))))
	require.NoError(t, file.Close())

	return path
}

// TestCatSeenWhileDisarmed_ArmingRaisesAlarm checks the cat flag survives between invocations.
func TestCatSeenWhileDisarmed_ArmingRaisesAlarm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts, out := newOptions(t, config.ClassifierAlways)

	require.NoError(t, ProcessImage(ctx, opts, writeFrame(t)))
	require.Contains(t, out.String(), "camera: cat detected")
	require.Contains(t, out.String(), "alarm: NO_ALARM")

	out.Reset()
	require.NoError(t, SetArmingStatus(ctx, opts, domain.ArmedHome, false))
	require.Contains(t, out.String(), "alarm: ALARM")
	require.Contains(t, out.String(), "ARMED_HOME")
}

// TestCatCleared_ArmingStaysQuiet checks a later cat-free image clears the saved flag.
func TestCatCleared_ArmingStaysQuiet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts, out := newOptions(t, config.ClassifierNever)

	require.NoError(t, SetArmingStatus(ctx, opts, domain.Disarmed, true))
	require.NoError(t, ProcessImage(ctx, opts, writeFrame(t)))

	out.Reset()
	require.NoError(t, SetArmingStatus(ctx, opts, domain.ArmedAway, false))
	require.NotContains(t, out.String(), "alarm: ALARM")
}

// TestWatch_RequiresDirectory asserts Watch fails without a camera directory.
func TestWatch_RequiresDirectory(t *testing.T) {
	t.Parallel()

	opts, _ := newOptions(t, config.ClassifierNever)

	require.ErrorIs(t, Watch(context.Background(), opts, ""), errCameraDirRequired)
}

// TestStatus_StateFileOverride verifies the state file option wins over the settings.
func TestStatus_StateFileOverride(t *testing.T) {
	t.Parallel()

	opts, out := newOptions(t, config.ClassifierNever)
	opts.StateFile = filepath.Join(t.TempDir(), "override.yaml")

	require.NoError(t, SetArmingStatus(context.Background(), opts, domain.ArmedAway, false))

	_, err := os.Stat(opts.StateFile)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, Status(context.Background(), opts))
	require.Contains(t, out.String(), "ARMED_AWAY")
}
