// Package watcher turns raw fsnotify activity under the watch
// directory into settled file events. New subdirectories are picked up
// on the fly, category directories are never watched, and a file is
// only announced once its size has been stable for the configured
// settle window.
package watcher
