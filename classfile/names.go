/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "strings"

// ObjectClassName is the qualified name of the JVM root object type. Per
// spec §4.2 step 2, a classfile naming it is special: it has no superclass
// field to read and no relation record is emitted for it.
const ObjectClassName = "java.lang.Object"

// translateSlashes turns an archive/classfile-internal "/"-separated name
// into the dotted qualified name spec §3 defines as this system's sole
// identity for classes, interfaces, and annotations.
func translateSlashes(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// annotationNameFromDescriptor strips the "L...;" descriptor wrapper an
// annotation's type_index resolves to and dots the remaining slashes, per
// spec §4.2's annotation element reader.
func annotationNameFromDescriptor(d string) string {
	d = strings.TrimPrefix(d, "L")
	d = strings.TrimSuffix(d, ";")
	return translateSlashes(d)
}
