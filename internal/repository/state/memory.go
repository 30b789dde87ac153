package state

import (
	"context"
	"sort"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// MemoryStore keeps the security state in memory.
// Sensors are stored and returned as copies keyed by Sensor.Key.
type MemoryStore struct {
	// arming is the current arming status.
	arming domain.ArmingStatus
	// alarm is the current alarm status.
	alarm domain.AlarmStatus
	// sensors maps sensor keys to stored copies.
	sensors map[string]*domain.Sensor
	// catDetected is the last camera result saved by the host.
	catDetected bool
	// mu protects concurrent access to the fields above.
	mu sync.RWMutex
}

// NewMemoryStore creates a disarmed, quiet store without sensors.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		arming:  domain.Disarmed,
		alarm:   domain.NoAlarm,
		sensors: make(map[string]*domain.Sensor),
	}
}

// ArmingStatus returns the current arming status.
func (m *MemoryStore) ArmingStatus(context.Context) (domain.ArmingStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.arming, nil
}

// SetArmingStatus stores the arming status.
func (m *MemoryStore) SetArmingStatus(_ context.Context, status domain.ArmingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.arming = status

	return nil
}

// AlarmStatus returns the current alarm status.
func (m *MemoryStore) AlarmStatus(context.Context) (domain.AlarmStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.alarm, nil
}

// SetAlarmStatus stores the alarm status.
func (m *MemoryStore) SetAlarmStatus(_ context.Context, status domain.AlarmStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alarm = status

	return nil
}

// CatDetected returns the saved cat detection flag.
func (m *MemoryStore) CatDetected(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.catDetected, nil
}

// SetCatDetected saves the cat detection flag.
func (m *MemoryStore) SetCatDetected(_ context.Context, catDetected bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catDetected = catDetected

	return nil
}

// Sensors returns copies of all sensors sorted by key.
func (m *MemoryStore) Sensors(context.Context) ([]*domain.Sensor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedSensors(), nil
}

// AddSensor stores a copy of the sensor, replacing one with the same key.
func (m *MemoryStore) AddSensor(_ context.Context, sensor *domain.Sensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sensors[sensor.Key()] = sensor.Clone()

	return nil
}

// RemoveSensor deletes the sensor. Unknown sensors are ignored.
func (m *MemoryStore) RemoveSensor(_ context.Context, sensor *domain.Sensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sensors, sensor.Key())

	return nil
}

// UpdateSensor stores the sensor's current values.
func (m *MemoryStore) UpdateSensor(_ context.Context, sensor *domain.Sensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sensors[sensor.Key()] = sensor.Clone()

	return nil
}

// snapshot captures the whole state for persistence.
func (m *MemoryStore) snapshot() *snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &snapshot{
		ArmingStatus: m.arming,
		AlarmStatus:  m.alarm,
		CatDetected:  m.catDetected,
		Sensors:      m.sortedSensors(),
	}
}

// restore replaces the whole state with the snapshot contents.
func (m *MemoryStore) restore(s *snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.arming = s.ArmingStatus
	m.alarm = s.AlarmStatus
	m.catDetected = s.CatDetected
	m.sensors = make(map[string]*domain.Sensor, len(s.Sensors))

	for _, sensor := range s.Sensors {
		if sensor != nil {
			m.sensors[sensor.Key()] = sensor.Clone()
		}
	}
}

// sortedSensors must be called with mu held.
func (m *MemoryStore) sortedSensors() []*domain.Sensor {
	result := make([]*domain.Sensor, 0, len(m.sensors))
	for _, sensor := range m.sensors {
		result = append(result, sensor.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})

	return result
}
