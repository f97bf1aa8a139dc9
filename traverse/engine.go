/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package traverse implements the classpath walker spec.md §4.4 describes:
// root enumeration over directories and archives, whitelist/blacklist
// scoping, highest-modification-timestamp tracking, and per-file dispatch
// to a classfile handler or registered path-pattern matchers. Directory
// trees are walked over an afero.Fs rather than raw os calls, grounded on
// jfeliu007-goplantuml's ClassDiagramOptions.FileSystem afero.Fs field, so
// a scan can run against an in-memory tree in tests without touching disk.
package traverse

import (
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ClassfileHandler receives the raw bytes of every in-scope ".class" file
// (spec §4.4's "open a stream and invoke the header parser").
type ClassfileHandler func(absPath, relPath string, data []byte) error

// PatternHandler receives every in-scope non-classfile file whose relative
// path matched a registered pattern's regular expression.
type PatternHandler func(absPath, relPath string, r io.Reader) error

// PatternMatcher pairs a compiled regular expression with the callback to
// invoke on a match (spec §4.4, §6: register_path_pattern_match).
type PatternMatcher struct {
	Regex   *regexp.Regexp
	Handler PatternHandler
}

// Engine is one configured traversal: a filter, a filesystem to walk
// directory roots against, and the dispatch targets for in-scope files.
type Engine struct {
	Fs       afero.Fs
	Filter   *Filter
	Patterns []PatternMatcher

	// OnClassfile is invoked for every in-scope ".class" file. May be nil.
	OnClassfile ClassfileHandler
	// OnWarning receives non-fatal diagnostics, including the
	// future-timestamp-detected warning (spec §7), once per archive.
	OnWarning func(format string, args ...interface{})
	// UseArchiveEntryTimestamps selects per-entry timestamps over the
	// archive file's own timestamp when tracking modification time (spec
	// §4.4; sourced from internal/config in production use).
	UseArchiveEntryTimestamps bool
	// TimestampOnly skips classfile/pattern dispatch entirely and only
	// tracks the highest modification timestamp observed (spec §4.4's
	// timestamp-only scan mode, used by classpath_modified_since_last_scan).
	TimestampOnly bool
}

// Scan walks every root in order (spec §4.4: "enumerate roots"), returning
// the highest modification timestamp observed across every directory,
// file, and archive entry visited. A root that does not exist, or an I/O
// failure while reading one, is spec §7's IoError: fatal, wrapped, and
// returned immediately.
func (e *Engine) Scan(roots []string) (time.Time, error) {
	var highest time.Time
	update := func(t time.Time) {
		if t.After(highest) {
			highest = t
		}
	}

	for _, root := range roots {
		info, err := e.Fs.Stat(root)
		if err != nil {
			return highest, errors.Wrapf(err, "traverse: stat root %s", root)
		}
		switch {
		case info.IsDir():
			update(info.ModTime())
			if err := e.walkDir(root, rootPrefix, update); err != nil {
				return highest, err
			}
		case isArchive(root):
			if err := e.walkArchive(root, info.ModTime(), update); err != nil {
				return highest, err
			}
		default:
			update(info.ModTime())
			if !e.TimestampOnly {
				if err := e.dispatchFile(root, rootPrefix+info.Name()); err != nil {
					return highest, err
				}
			}
		}
	}
	return highest, nil
}

func isArchive(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".jar") || strings.HasSuffix(lower, ".zip")
}

// walkDir recursively walks one directory subtree, applying the
// prune/in_whitelist/keep_recursing classification at every level (spec
// §4.4).
func (e *Engine) walkDir(absPath, relPath string, update func(time.Time)) error {
	prune, inWhitelist, keepRecursing := e.Filter.classifyDir(relPath)
	if prune || (!inWhitelist && !keepRecursing) {
		return nil
	}

	entries, err := afero.ReadDir(e.Fs, absPath)
	if err != nil {
		return errors.Wrapf(err, "traverse: reading directory %s", absPath)
	}

	for _, entry := range entries {
		childAbs := path.Join(absPath, entry.Name())
		if entry.IsDir() {
			update(entry.ModTime())
			if err := e.walkDir(childAbs, relPath+entry.Name()+"/", update); err != nil {
				return err
			}
			continue
		}

		update(entry.ModTime())
		if !inWhitelist {
			continue
		}
		childRel := relPath + entry.Name()
		if isArchive(entry.Name()) {
			if err := e.walkArchive(childAbs, entry.ModTime(), update); err != nil {
				return err
			}
			continue
		}
		if e.TimestampOnly {
			continue
		}
		if err := e.dispatchFile(childAbs, childRel); err != nil {
			return err
		}
	}
	return nil
}
