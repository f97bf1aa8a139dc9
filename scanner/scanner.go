/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package scanner is the facade spec.md §6 exposes to callers: register
// match predicates against a classpath, run a scan, and pull query results
// out of the finalized graph. It wires classfile.Parse, graph.Graph, and
// traverse.Engine together the way the teacher's gfunction.go wires a
// table of Load_* registrants into one MTable — here the registrants are
// the caller's own register_* calls rather than a fixed built-in list, so
// registration happens at runtime instead of at MTableLoadGFunctions time.
package scanner

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"classgraph/graph"
	"classgraph/internal/config"
	"classgraph/internal/logging"
	"classgraph/traverse"
)

// TypeLoader resolves a qualified name to a runtime handle on demand, the
// "opaque operation returning a runtime handle or failing with a wrapped
// error" spec §4.5 describes. Supplied once per Scanner; invoked by the
// match dispatcher for every matching name.
type TypeLoader func(qualifiedName string) (interface{}, error)

type subclassMatch struct {
	superclass string
	callback   func(name string, handle interface{})
}

type subinterfaceMatch struct {
	superinterface string
	callback       func(name string, handle interface{})
}

type implementsMatch struct {
	iface    string
	callback func(name string, handle interface{})
}

type annotationMatch struct {
	annotation string
	callback   func(name string, handle interface{})
}

// Scanner is one classpath's worth of registered matchers, graph state,
// and last-scan bookkeeping (spec §5: "the graph tables, encountered-name
// set, registered matchers, and last-modified timestamp are owned
// exclusively by the scanner instance").
type Scanner struct {
	Fs     afero.Fs
	Loader TypeLoader

	graph *graph.Graph

	subclassMatches     []subclassMatch
	subinterfaceMatches []subinterfaceMatch
	implementsMatches   []implementsMatch
	annotationMatches   []annotationMatch
	fieldMatches        map[fieldKey]func(className, fieldName string, value interface{})
	patternMatches      []traverse.PatternMatcher

	lastScanTime time.Time
	haveScanned  bool
}

type fieldKey struct {
	class string
	field string
}

// New returns an empty Scanner over fs (pass afero.NewOsFs() for the real
// filesystem; an afero.MemMapFs works for tests), with loader used to
// resolve match callbacks' runtime handles.
func New(fs afero.Fs, loader TypeLoader) *Scanner {
	return &Scanner{
		Fs:           fs,
		Loader:       loader,
		graph:        graph.New(),
		fieldMatches: make(map[fieldKey]func(className, fieldName string, value interface{})),
	}
}

// RegisterSubclassMatch registers a callback for every class discovered to
// be a (transitive, strict) subclass of superclassName. Fails with
// InvalidArgument if superclassName was already recorded as an interface
// this scan (spec §4.5 validation) — checked again at dispatch time since
// registration may precede the parse that first names it.
func (s *Scanner) RegisterSubclassMatch(superclassName string, callback func(name string, handle interface{})) error {
	if err := s.rejectIfInterface(superclassName); err != nil {
		return err
	}
	s.subclassMatches = append(s.subclassMatches, subclassMatch{superclassName, callback})
	return nil
}

// RegisterSubinterfaceMatch registers a callback for every interface
// discovered to be a (transitive, strict) subinterface of
// superinterfaceName. Fails with InvalidArgument if superinterfaceName was
// already recorded as a class this scan.
func (s *Scanner) RegisterSubinterfaceMatch(superinterfaceName string, callback func(name string, handle interface{})) error {
	if err := s.rejectIfClass(superinterfaceName); err != nil {
		return err
	}
	s.subinterfaceMatches = append(s.subinterfaceMatches, subinterfaceMatch{superinterfaceName, callback})
	return nil
}

// RegisterImplementationMatch registers a callback for every class
// discovered to implement interfaceName (spec §4.3's implementors_of).
// Fails with InvalidArgument if interfaceName was already recorded as a
// class this scan.
func (s *Scanner) RegisterImplementationMatch(interfaceName string, callback func(name string, handle interface{})) error {
	if err := s.rejectIfClass(interfaceName); err != nil {
		return err
	}
	s.implementsMatches = append(s.implementsMatches, implementsMatch{interfaceName, callback})
	return nil
}

// RegisterAnnotationMatch registers a callback for every class carrying
// annotation.
func (s *Scanner) RegisterAnnotationMatch(annotation string, callback func(name string, handle interface{})) {
	s.annotationMatches = append(s.annotationMatches, annotationMatch{annotation, callback})
}

// RegisterStaticFinalFieldMatch registers a callback for each
// fully-qualified field name in fields (spec §6: "set of fully-qualified
// field names"), delivered inline during parsing rather than through the
// post-finalize dispatcher (spec §4.5).
func (s *Scanner) RegisterStaticFinalFieldMatch(fields []string, callback func(className, fieldName string, value interface{})) {
	for _, fqfn := range fields {
		class, field := splitFieldName(fqfn)
		s.fieldMatches[fieldKey{class, field}] = callback
	}
}

// RegisterPathPatternMatch registers a callback invoked for every in-scope
// non-classfile entry whose relative path matches re. The engine guarantees
// the stream is closed on return (spec §4.4); the callback only sees the
// bytes already read from it.
func (s *Scanner) RegisterPathPatternMatch(re *regexp.Regexp, callback func(absPath, relPath string, data []byte) error) {
	s.patternMatches = append(s.patternMatches, traverse.PatternMatcher{
		Regex: re,
		Handler: func(absPath, relPath string, r io.Reader) error {
			data, err := io.ReadAll(r)
			if err != nil {
				return errors.Wrapf(err, "scanner: reading %s", absPath)
			}
			return callback(absPath, relPath, data)
		},
	})
}

func (s *Scanner) rejectIfInterface(name string) error {
	if k, ok := s.graph.KindOf(name); ok && k == graph.KindInterface {
		return errors.Errorf("scanner: %s is an interface, not a class", name)
	}
	return nil
}

func (s *Scanner) rejectIfClass(name string) error {
	if k, ok := s.graph.KindOf(name); ok && k == graph.KindClass {
		return errors.Errorf("scanner: %s is a class, not an interface", name)
	}
	return nil
}

func splitFieldName(fqfn string) (class, field string) {
	idx := lastDot(fqfn)
	if idx < 0 {
		return fqfn, ""
	}
	return fqfn[:idx], fqfn[idx+1:]
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// onWarning forwards non-fatal diagnostics (spec §7) to internal/logging at
// WARNING level.
func onWarning(format string, args ...interface{}) {
	_ = logging.Log(fmt.Sprintf(format, args...), logging.WARNING)
}

func useArchiveEntryTimestamps() bool {
	return config.GetInstance().UseArchiveEntryTimestamps
}
