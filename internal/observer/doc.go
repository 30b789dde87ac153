// Package observer contains ready-made status observers for the decision service.
package observer
