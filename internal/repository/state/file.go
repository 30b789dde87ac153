package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// snapshot is the on-disk representation of the security state.
type snapshot struct {
	// ArmingStatus is stored by name, e.g. ARMED_HOME.
	ArmingStatus domain.ArmingStatus `yaml:"arming_status"`
	// AlarmStatus is stored by name, e.g. PENDING_ALARM.
	AlarmStatus domain.AlarmStatus `yaml:"alarm_status"`
	// CatDetected carries the last camera result between processes.
	CatDetected bool `yaml:"cat_detected"`
	// Sensors is sorted by sensor key to keep diffs stable.
	Sensors []*domain.Sensor `yaml:"sensors"`
}

// FileStore persists the security state to a YAML file on disk.
// Reads are served from memory; every write rewrites the whole file.
type FileStore struct {
	// path is the filesystem location of the YAML state file.
	path string
	// memory holds the current state between writes.
	memory *MemoryStore
	// mu serialises writes so the file always matches memory.
	mu sync.Mutex
}

// OpenFileStore loads the state file at path. A missing file yields a
// disarmed, quiet state without sensors; the file is created on the first write.
func OpenFileStore(_ context.Context, path string) (*FileStore, error) {
	f := &FileStore{
		path:   filepath.Clean(path),
		memory: NewMemoryStore(),
	}

	contents, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s snapshot
	if err = yaml.Unmarshal(contents, &s); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	f.memory.restore(&s)

	return f, nil
}

// Path returns the location of the state file.
func (f *FileStore) Path() string {
	return f.path
}

// ArmingStatus returns the current arming status.
func (f *FileStore) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	return f.memory.ArmingStatus(ctx)
}

// SetArmingStatus stores the arming status and saves the file.
func (f *FileStore) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	return f.write(func() error {
		return f.memory.SetArmingStatus(ctx, status)
	})
}

// AlarmStatus returns the current alarm status.
func (f *FileStore) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	return f.memory.AlarmStatus(ctx)
}

// SetAlarmStatus stores the alarm status and saves the file.
func (f *FileStore) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	return f.write(func() error {
		return f.memory.SetAlarmStatus(ctx, status)
	})
}

// CatDetected returns the saved cat detection flag.
func (f *FileStore) CatDetected(ctx context.Context) (bool, error) {
	return f.memory.CatDetected(ctx)
}

// SetCatDetected saves the cat detection flag and the file.
func (f *FileStore) SetCatDetected(ctx context.Context, catDetected bool) error {
	return f.write(func() error {
		return f.memory.SetCatDetected(ctx, catDetected)
	})
}

// Sensors returns copies of all sensors sorted by key.
func (f *FileStore) Sensors(ctx context.Context) ([]*domain.Sensor, error) {
	return f.memory.Sensors(ctx)
}

// AddSensor stores the sensor and saves the file.
func (f *FileStore) AddSensor(ctx context.Context, sensor *domain.Sensor) error {
	return f.write(func() error {
		return f.memory.AddSensor(ctx, sensor)
	})
}

// RemoveSensor deletes the sensor and saves the file.
func (f *FileStore) RemoveSensor(ctx context.Context, sensor *domain.Sensor) error {
	return f.write(func() error {
		return f.memory.RemoveSensor(ctx, sensor)
	})
}

// UpdateSensor stores the sensor's current values and saves the file.
func (f *FileStore) UpdateSensor(ctx context.Context, sensor *domain.Sensor) error {
	return f.write(func() error {
		return f.memory.UpdateSensor(ctx, sensor)
	})
}

// write applies the change in memory and then rewrites the state file.
// On save failure the in-memory change is rolled back.
func (f *FileStore) write(apply func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := f.memory.snapshot()

	if err := apply(); err != nil {
		return err
	}

	if err := f.save(f.memory.snapshot()); err != nil {
		f.memory.restore(previous)

		return err
	}

	return nil
}

// save encodes the snapshot and replaces the state file atomically.
func (f *FileStore) save(s *snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
