// Package state implements persistence for the security system state.
//
// MemoryStore keeps the arming status, alarm status and sensors in memory.
// FileStore adds write-through persistence to a YAML file on disk so the
// state survives process restarts. Both satisfy the StateStore interface the
// decision service depends on.
package state
