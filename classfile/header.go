/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classfile implements the hard-core binary decoder spec.md §4.1
// and §4.2 describe: a constant-pool reader plus a classfile header parser
// that extracts relations, annotations, and selected constant-valued
// static final fields, skipping everything else (method bodies, code
// attributes, bytecode). Grounded on the teacher's
// classloader/parser.go, extended with the constant-pool decode, the
// annotation reader, and the field ConstantValue extraction that file
// never did (it parsed only through the field count, per its own
// comments).
package classfile

import (
	"classgraph/descriptor"
)

const (
	magicByte0, magicByte1, magicByte2, magicByte3 = 0xCA, 0xFE, 0xBA, 0xBE

	accessInterface  = 0x0200
	fieldAccessStatic = 0x0008
	fieldAccessFinal  = 0x0010
)

// Callbacks bundles the effects Parse produces beyond the returned
// ClassRecord: shadowing-set lookups, static-final constant matches, and
// non-fatal diagnostics (spec §7: FieldMatchMisconfigured,
// FieldNotConstantInitialized are "emit a diagnostic, skip, continue").
type Callbacks struct {
	// Seen reports whether name has already been recorded this scan.
	Seen func(name string) bool
	// MarkSeen records name as encountered this scan. Per spec §9's open
	// question, Parse calls this immediately after reading the this-class
	// name, before anything else is parsed, so this classfile counts as
	// "seen" for shadowing purposes even if it turns out to be malformed
	// further in.
	MarkSeen func(name string)

	// Matches reports whether a given (class, field) was registered for a
	// static-final constant match. May be nil if no matches are registered.
	Matches FieldMatcher
	// OnMatch is invoked once per satisfied static-final constant match.
	OnMatch func(ConstantMatch)
	// OnWarning receives non-fatal diagnostics (spec §7).
	OnWarning func(format string, args ...interface{})
}

func (cb Callbacks) warn(format string, args ...interface{}) {
	if cb.OnWarning != nil {
		cb.OnWarning(format, args...)
	}
}

// Parse decodes one classfile stream (spec §4.1-§4.2). It returns
// ErrNotAClassfile if the magic doesn't match (never logged; traversal
// continues), a *MalformedClassfileError if decoding fails after the magic
// check (this file only is abandoned), or (nil, nil) when the this-class
// name is the root object type or has already been seen this scan
// (shadowing: first occurrence wins, later ones are dropped entirely).
func Parse(data []byte, cb Callbacks) (*ClassRecord, error) {
	c := newCursor(data)

	if len(data) < 4 || data[0] != magicByte0 || data[1] != magicByte1 ||
		data[2] != magicByte2 || data[3] != magicByte3 {
		return nil, ErrNotAClassfile
	}
	if err := c.skip(4); err != nil {
		return nil, newMalformed("consuming magic: " + err.Error())
	}
	if err := c.skip(4); err != nil { // minor + major version
		return nil, newMalformed("skipping version numbers: " + err.Error())
	}

	p, err := readPool(c)
	if err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}

	accessFlags, err := c.u2()
	if err != nil {
		return nil, newMalformed("reading access flags: " + err.Error())
	}
	isInterface := accessFlags&accessInterface != 0

	thisName, err := readIndirectString(c, p)
	if err != nil {
		return nil, err
	}
	thisName = translateSlashes(thisName)

	if thisName == ObjectClassName {
		return nil, nil // root type: no superclass to read, no record emitted
	}
	if cb.Seen != nil && cb.Seen(thisName) {
		return nil, nil // shadowed: an earlier occurrence on the path already won
	}
	if cb.MarkSeen != nil {
		cb.MarkSeen(thisName)
	}

	superIdx, err := c.u2()
	if err != nil {
		return nil, newMalformed("reading superclass index: " + err.Error())
	}
	var superName string
	if superIdx != 0 {
		superName, err = p.stringAt(superIdx)
		if err != nil {
			return nil, err
		}
		superName = translateSlashes(superName)
	}
	if superName == "" && !isInterface {
		return nil, newMalformed("class " + thisName + " has no superclass and is not java.lang.Object")
	}

	interfaceCount, err := c.u2()
	if err != nil {
		return nil, newMalformed("reading interface count: " + err.Error())
	}
	interfaces := make([]string, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		name, err := readIndirectString(c, p)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, translateSlashes(name))
	}

	if err := parseFields(c, p, thisName, cb); err != nil {
		return nil, err
	}
	if err := skipMethods(c); err != nil {
		return nil, err
	}
	annotations, err := parseClassAttributes(c, p)
	if err != nil {
		return nil, err
	}

	record := &ClassRecord{
		Name:        thisName,
		Interfaces:  interfaces,
		Annotations: annotations,
	}
	if isInterface {
		record.Kind = KindInterface
	} else {
		record.Kind = KindClass
		record.SuperclassName = superName
	}
	return record, nil
}

// parseFields walks the field table (spec §4.2 step 6), emitting a
// ConstantMatch for every static-final field with a ConstantValue
// attribute that the caller registered a match for.
func parseFields(c *cursor, p *pool, className string, cb Callbacks) error {
	fieldCount, err := c.u2()
	if err != nil {
		return newMalformed("reading field count: " + err.Error())
	}

	for i := 0; i < int(fieldCount); i++ {
		accessFlags, err := c.u2()
		if err != nil {
			return newMalformed("reading field access flags: " + err.Error())
		}
		nameIdx, err := c.u2()
		if err != nil {
			return newMalformed("reading field name index: " + err.Error())
		}
		fieldName, err := p.stringAt(nameIdx)
		if err != nil {
			return err
		}
		descIdx, err := c.u2()
		if err != nil {
			return newMalformed("reading field descriptor index: " + err.Error())
		}
		fieldDesc, err := p.stringAt(descIdx)
		if err != nil {
			return err
		}
		attrCount, err := c.u2()
		if err != nil {
			return newMalformed("reading field attribute count: " + err.Error())
		}

		isStaticFinal := accessFlags&fieldAccessStatic != 0 && accessFlags&fieldAccessFinal != 0
		wantsMatch := cb.Matches != nil && cb.Matches.Wants(className, fieldName)
		if wantsMatch && !isStaticFinal {
			cb.warn("static-final field match requested for non-static-final field %s.%s", className, fieldName)
		}

		sawConstantValue := false
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx, err := c.u2()
			if err != nil {
				return newMalformed("reading field attribute name index: " + err.Error())
			}
			attrName, err := p.stringAt(attrNameIdx)
			if err != nil {
				return err
			}
			attrLen, err := c.u4()
			if err != nil {
				return newMalformed("reading field attribute length: " + err.Error())
			}

			if attrName == "ConstantValue" && wantsMatch && isStaticFinal && !sawConstantValue {
				valueIdx, err := c.u2()
				if err != nil {
					return newMalformed("reading ConstantValue index: " + err.Error())
				}
				raw, err := p.literalAt(valueIdx)
				if err != nil {
					return err
				}
				value, err := descriptor.Coerce(fieldDesc, raw)
				if err != nil {
					return newMalformed("coercing ConstantValue for " + className + "." + fieldName + ": " + err.Error())
				}
				if cb.OnMatch != nil {
					cb.OnMatch(ConstantMatch{ClassName: className, FieldName: fieldName, Value: value})
				}
				sawConstantValue = true
			} else if err := c.skip(int(attrLen)); err != nil {
				return newMalformed("skipping field attribute: " + err.Error())
			}
		}

		if wantsMatch && isStaticFinal && !sawConstantValue {
			cb.warn("static-final field %s.%s has no ConstantValue attribute", className, fieldName)
		}
	}
	return nil
}

// skipMethods advances the cursor past the entire method table (spec §4.2
// step 7): this system never inspects method bodies or method-level
// annotations.
func skipMethods(c *cursor) error {
	methodCount, err := c.u2()
	if err != nil {
		return newMalformed("reading method count: " + err.Error())
	}
	for i := 0; i < int(methodCount); i++ {
		if err := c.skip(6); err != nil { // access_flags, name_index, descriptor_index
			return newMalformed("skipping method header: " + err.Error())
		}
		attrCount, err := c.u2()
		if err != nil {
			return newMalformed("reading method attribute count: " + err.Error())
		}
		for j := 0; j < int(attrCount); j++ {
			if err := c.skip(2); err != nil {
				return newMalformed("skipping method attribute name index: " + err.Error())
			}
			attrLen, err := c.u4()
			if err != nil {
				return newMalformed("reading method attribute length: " + err.Error())
			}
			if err := c.skip(int(attrLen)); err != nil {
				return newMalformed("skipping method attribute: " + err.Error())
			}
		}
	}
	return nil
}

// parseClassAttributes walks the class-level attribute table (spec §4.2
// step 8), collecting annotation names out of RuntimeVisibleAnnotations
// and skipping everything else structurally.
func parseClassAttributes(c *cursor, p *pool) ([]string, error) {
	attrCount, err := c.u2()
	if err != nil {
		return nil, newMalformed("reading class attribute count: " + err.Error())
	}

	var annotations []string
	seen := make(map[string]bool)
	for i := 0; i < int(attrCount); i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return nil, newMalformed("reading class attribute name index: " + err.Error())
		}
		attrName, err := p.stringAt(nameIdx)
		if err != nil {
			return nil, err
		}
		attrLen, err := c.u4()
		if err != nil {
			return nil, newMalformed("reading class attribute length: " + err.Error())
		}

		if attrName == "RuntimeVisibleAnnotations" {
			annoCount, err := c.u2()
			if err != nil {
				return nil, newMalformed("reading annotation count: " + err.Error())
			}
			for j := 0; j < int(annoCount); j++ {
				name, err := readAnnotation(c, p)
				if err != nil {
					return nil, err
				}
				if !seen[name] {
					seen[name] = true
					annotations = append(annotations, name)
				}
			}
		} else if err := c.skip(int(attrLen)); err != nil {
			return nil, newMalformed("skipping class attribute: " + err.Error())
		}
	}
	return annotations, nil
}
