/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package traverse

import (
	"archive/zip"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// walkArchive iterates a .jar/.zip's entries without recursing into any
// nested archive (spec §4.4: archives are read as flat entry lists, one
// level only). No archive-in-archive support exists because spec.md never
// describes one: an entry whose own name ends in .jar/.zip is dispatched
// like any other file, not opened as a sub-archive.
func (e *Engine) walkArchive(absPath string, archiveModTime time.Time, update func(time.Time)) error {
	r, err := zip.OpenReader(absPath)
	if err != nil {
		return errors.Wrapf(err, "traverse: opening archive %s", absPath)
	}
	defer r.Close()

	warnedFuture := false
	now := time.Now()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entryRel := normalizeEntryPath(f.Name)
		if !e.Filter.archiveEntryInScope(entryRel) {
			continue
		}

		entryModTime := f.Modified
		if entryModTime.After(now) && !warnedFuture {
			warnedFuture = true
			if e.OnWarning != nil {
				e.OnWarning("archive %s: entry %s has a modification timestamp in the future", absPath, f.Name)
			}
		}

		if e.UseArchiveEntryTimestamps {
			update(entryModTime)
		} else {
			update(archiveModTime)
		}

		if e.TimestampOnly {
			continue
		}
		if err := e.dispatchArchiveEntry(absPath, entryRel, f); err != nil {
			return err
		}
	}
	return nil
}

func normalizeEntryPath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return rootPrefix + strings.TrimLeft(name, "/")
}

func (e *Engine) dispatchArchiveEntry(archivePath, relPath string, f *zip.File) error {
	if strings.HasSuffix(strings.ToLower(relPath), ".class") {
		if e.OnClassfile == nil {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, "traverse: opening entry %s in %s", f.Name, archivePath)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return errors.Wrapf(err, "traverse: reading entry %s in %s", f.Name, archivePath)
		}
		return e.OnClassfile(archivePath+"!"+f.Name, relPath, data)
	}

	matcher, ok := e.matchPattern(relPath)
	if !ok {
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "traverse: opening entry %s in %s", f.Name, archivePath)
	}
	defer rc.Close()
	return matcher.Handler(archivePath+"!"+f.Name, relPath, rc)
}

func (e *Engine) matchPattern(relPath string) (PatternMatcher, bool) {
	for _, m := range e.Patterns {
		if m.Regex.MatchString(relPath) {
			return m, true
		}
	}
	return PatternMatcher{}, false
}
