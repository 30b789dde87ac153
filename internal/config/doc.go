// Package config defines the settings used by the catpoint binary and
// provides helpers to load, validate and save them in YAML format.
//
// Values from the YAML file can be overridden by CATPOINT_* environment
// variables.
package config
