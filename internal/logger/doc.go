// Package logger wraps zap for the catpoint packages.
//
// A context carries a named sugared logger (ToContext, WithName, WithKV);
// the *KV helpers log through it and fall back to a global stderr logger
// whose level is set from the configuration.
package logger
