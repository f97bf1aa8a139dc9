/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package config holds the process-wide tunables that sit above any single
// Scanner: defaults a Scanner falls back to unless it was configured
// otherwise, and sanity bounds unrelated to any one scan's state.
package config

import "sync"

// Settings is the process-wide configuration singleton, in the shape of the
// teacher's globals.GetInstance() pattern.
type Settings struct {
	// UseArchiveEntryTimestamps, when false (the default), makes archive
	// traversal trust the archive file's own modification time over any
	// one entry's embedded timestamp. See spec §4.4.
	UseArchiveEntryTimestamps bool

	// MaxPackageFilterEntries is a process-wide bound on how many
	// whitelist/blacklist prefixes a single package filter list may carry.
	// No code in this module reads it: filter lists of any length are
	// accepted.
	MaxPackageFilterEntries int
}

var (
	instance     *Settings
	instanceOnce sync.Once
)

// GetInstance returns the process-wide Settings, creating it with defaults
// on first call.
func GetInstance() *Settings {
	instanceOnce.Do(func() {
		instance = &Settings{
			UseArchiveEntryTimestamps: false,
			MaxPackageFilterEntries:   4096,
		}
	})
	return instance
}

// resetForTest restores default settings; used only by package tests that
// need a clean singleton between cases.
func resetForTest() {
	instance = &Settings{
		UseArchiveEntryTimestamps: false,
		MaxPackageFilterEntries:   4096,
	}
}
