// Package console hosts the decision service for one CLI invocation.
//
// Each command loads the configuration, opens the YAML state file, builds the
// classifier and the service, prints notifications to the terminal and then
// performs a single operation (or, for Watch, runs until interrupted).
package console
