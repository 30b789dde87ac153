// Package camera feeds camera images into the decision service.
//
// Watcher observes a directory with fsnotify and hands every new PNG, JPEG
// or GIF file to an ImageProcessor once the file has stopped changing.
package camera
