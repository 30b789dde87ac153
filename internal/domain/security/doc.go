// Package security contains core domain types for the home security monitor.
//
// It defines the arming and alarm statuses the decision service moves
// between, and Sensor (a door, window or motion detector) with Clone helpers
// to avoid leaking internal references.
package security
