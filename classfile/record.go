/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "classgraph/descriptor"

// Kind distinguishes a class record from an interface record. Spec §3
// invariant: a name cannot be both in one scan.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
)

func (k Kind) String() string {
	if k == KindInterface {
		return "interface"
	}
	return "class"
}

// ClassRecord is spec §3's Class record: everything the header parser
// extracts from one successfully parsed classfile.
type ClassRecord struct {
	Name           string
	Kind           Kind
	SuperclassName string   // empty for KindInterface (no record is produced for ObjectClassName)
	Interfaces     []string // declared "implements" (class) or "extends" (interface) list, in order
	Annotations    []string // deduplicated, first-seen order
}

// ConstantMatch is spec §3's Constant-field match tuple, delivered inline
// during parsing rather than through the match dispatcher.
type ConstantMatch struct {
	ClassName string
	FieldName string
	Value     descriptor.Value
}

// FieldMatcher reports whether a (class, field) pair was registered for a
// static-final constant match (spec §4.2 step 6).
type FieldMatcher interface {
	Wants(className, fieldName string) bool
}
