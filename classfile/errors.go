/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "errors"

// ErrNotAClassfile is returned when the first four bytes of a stream are
// not the 0xCAFEBABE magic. Per spec §7 this is never logged; the
// scanner's classfile handler treats it as "not a classfile" and moves on.
var ErrNotAClassfile = errors.New("classfile: not a classfile")

var errTruncated = errors.New("classfile: unexpected end of data")

// MalformedClassfileError is spec §7's MalformedClassfile: the magic
// matched but something downstream underflowed or pointed at a bad
// constant-pool index. Aborts this file only; the scanner's classfile
// handler logs it and traversal continues with the next entry.
type MalformedClassfileError struct {
	Reason string
}

func (e *MalformedClassfileError) Error() string {
	return "classfile: malformed: " + e.Reason
}

func newMalformed(reason string) error {
	return &MalformedClassfileError{Reason: reason}
}
