// Package security implements the alarm decision service.
//
// Service is a finite state machine over the arming and alarm statuses. It
// reacts to arming changes, sensor activations and camera images, persists
// every transition through a StateStore and fans notifications out to the
// registered StatusObservers.
package security
