// Package classifier provides image classifiers for the decision service.
//
// None of them recognises cats: Random flips a coin for every image and
// Fixed always returns the same answer. A real model can be plugged in by
// implementing the same ContainsCat method.
package classifier
