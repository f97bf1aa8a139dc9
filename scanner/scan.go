/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package scanner

import (
	"time"

	"github.com/pkg/errors"

	"classgraph/classfile"
	"classgraph/descriptor"
	"classgraph/traverse"
)

// encounteredNames is the per-scan shadowing set spec §4.2 step 3 and §4.4
// "Shadowing" describe: first occurrence of a qualified name wins.
type encounteredNames struct {
	seen map[string]bool
}

func newEncounteredNames() *encounteredNames {
	return &encounteredNames{seen: make(map[string]bool)}
}

func (e *encounteredNames) Seen(name string) bool {
	return e.seen[name]
}

func (e *encounteredNames) MarkSeen(name string) {
	e.seen[name] = true
}

// fieldMatcher adapts Scanner's registered static-final-field matches to
// classfile.FieldMatcher.
type fieldMatcher struct {
	s *Scanner
}

func (m fieldMatcher) Wants(className, fieldName string) bool {
	_, ok := m.s.fieldMatches[fieldKey{className, fieldName}]
	return ok
}

// Scan performs a full scan over roots (spec §6's scan()): resets graph
// and shadowing state, traverses the classpath, parses every classfile,
// accumulates relations, finalizes the graph, then runs the match
// dispatcher. Root order determines the first-wins shadowing outcome
// (spec §5).
func (s *Scanner) Scan(roots []string, filterEntries []string) error {
	s.graph.Reset()
	names := newEncounteredNames()

	engine := &traverse.Engine{
		Fs:                        s.Fs,
		Filter:                    traverse.NewFilter(filterEntries),
		Patterns:                  s.patternMatches,
		UseArchiveEntryTimestamps: useArchiveEntryTimestamps(),
		OnWarning:                 onWarning,
		OnClassfile: func(absPath, relPath string, data []byte) error {
			return s.parseAndAccumulate(absPath, data, names)
		},
	}

	highest, err := engine.Scan(roots)
	if err != nil {
		return err
	}

	s.graph.Finalize()
	s.lastScanTime = highest
	s.haveScanned = true

	return s.dispatchMatches()
}

// ClasspathModifiedSinceLastScan runs traversal in timestamp-only mode
// (spec §6: classpath_modified_since_last_scan) and reports whether the
// highest observed modification timestamp grew since the last full scan,
// or whether no full scan has ever run.
func (s *Scanner) ClasspathModifiedSinceLastScan(roots []string, filterEntries []string) (bool, error) {
	if !s.haveScanned {
		return true, nil
	}
	engine := &traverse.Engine{
		Fs:                        s.Fs,
		Filter:                    traverse.NewFilter(filterEntries),
		UseArchiveEntryTimestamps: useArchiveEntryTimestamps(),
		OnWarning:                 onWarning,
		TimestampOnly:             true,
	}
	highest, err := engine.Scan(roots)
	if err != nil {
		return false, err
	}
	return highest.After(s.lastScanTime), nil
}

// parseAndAccumulate runs the header parser over one classfile's bytes and
// folds a successful parse into the graph. ErrNotAClassfile is swallowed
// (spec §7); a MalformedClassfileError is logged and the file is skipped,
// traversal continuing with the next entry.
func (s *Scanner) parseAndAccumulate(absPath string, data []byte, names *encounteredNames) error {
	record, err := classfile.Parse(data, classfile.Callbacks{
		Seen:     names.Seen,
		MarkSeen: names.MarkSeen,
		Matches:  fieldMatcher{s},
		OnMatch: func(m classfile.ConstantMatch) {
			if cb, ok := s.fieldMatches[fieldKey{m.ClassName, m.FieldName}]; ok {
				cb(m.ClassName, m.FieldName, valueAsInterface(m.Value))
			}
		},
		OnWarning: onWarning,
	})
	if err == classfile.ErrNotAClassfile {
		return nil
	}
	if _, malformed := err.(*classfile.MalformedClassfileError); malformed {
		onWarning("skipping %s: %s", absPath, err.Error())
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "scanner: parsing %s", absPath)
	}
	if record == nil {
		return nil // java.lang.Object or a shadowed duplicate
	}

	if record.Kind == classfile.KindInterface {
		s.graph.AddInterface(record.Name, record.Interfaces)
	} else {
		s.graph.AddClass(record.Name, record.SuperclassName, record.Interfaces, record.Annotations)
	}
	return nil
}

func valueAsInterface(v descriptor.Value) interface{} {
	return v.GoValue()
}

// dispatchMatches runs the post-finalize match dispatcher (spec §4.5): for
// each registered predicate, in registration order, enumerate matching
// names and invoke the type loader then the callback. A TypeLoadError
// aborts the loop for the remainder of the scan.
func (s *Scanner) dispatchMatches() error {
	for _, m := range s.subclassMatches {
		if err := s.rejectIfInterface(m.superclass); err != nil {
			return err
		}
		if err := s.dispatchNames(s.graph.SubclassesOf(m.superclass), m.callback); err != nil {
			return err
		}
	}
	for _, m := range s.subinterfaceMatches {
		if err := s.dispatchNames(s.graph.SubinterfacesOf(m.superinterface), m.callback); err != nil {
			return err
		}
	}
	for _, m := range s.implementsMatches {
		if err := s.dispatchNames(s.graph.ImplementorsOf(m.iface), m.callback); err != nil {
			return err
		}
	}
	for _, m := range s.annotationMatches {
		if err := s.dispatchNames(s.graph.ClassesWithAnnotation(m.annotation), m.callback); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) dispatchNames(names []string, callback func(name string, handle interface{})) error {
	if s.Loader == nil {
		return nil
	}
	for _, name := range names {
		handle, err := s.Loader(name)
		if err != nil {
			return errors.Wrapf(err, "scanner: loading %s", name)
		}
		callback(name, handle)
	}
	return nil
}

// Pull queries (spec §6): passthroughs onto the finalized graph.

func (s *Scanner) SubclassesOf(name string) []string        { return s.graph.SubclassesOf(name) }
func (s *Scanner) SuperclassesOf(name string) []string       { return s.graph.SuperclassesOf(name) }
func (s *Scanner) SubinterfacesOf(name string) []string      { return s.graph.SubinterfacesOf(name) }
func (s *Scanner) SuperinterfacesOf(name string) []string    { return s.graph.SuperinterfacesOf(name) }
func (s *Scanner) ClassesImplementing(name string) []string  { return s.graph.ImplementorsOf(name) }
func (s *Scanner) ClassesWithAnnotation(name string) []string {
	return s.graph.ClassesWithAnnotation(name)
}
func (s *Scanner) AllClassNames() []string { return s.graph.AllClassNames() }

// KindOf reports "class" or "interface" for a name recorded during the
// most recent scan, or "" if the name was never recorded.
func (s *Scanner) KindOf(name string) string {
	k, ok := s.graph.KindOf(name)
	if !ok {
		return ""
	}
	return k.String()
}

// LastScanTime returns the highest modification timestamp observed during
// the most recent scan, or the zero time if none has run.
func (s *Scanner) LastScanTime() time.Time { return s.lastScanTime }
