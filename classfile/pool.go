/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"math"
	"strconv"
	"strings"
)

// Constant pool tags this system decodes (spec §4.1). Grounded on the
// pack's daimatz-gojvm constant_pool.go tag table and the teacher's
// classloader/parser.go, which reads the same prelude.
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

// poolEntry holds one constant-pool slot. For tagClass/tagString, ref holds
// the pending UTF8 index until resolve() replaces str with the target
// string; for tagUTF8, str is populated immediately.
type poolEntry struct {
	tag       byte
	str       string
	ref       uint16
	intVal    int32
	longVal   int64
	floatVal  float32
	doubleVal float64
}

// pool is one classfile's resolved constant pool, 1-indexed; index 0 is the
// unused placeholder slot the format reserves.
type pool struct {
	entries []poolEntry
}

// readPool decodes the pool-count prefix and the constant table that
// follows it (spec §4.1 steps 3-4), leaving the deferred class/string
// references unresolved until resolve() runs.
func readPool(c *cursor) (*pool, error) {
	count, err := c.u2()
	if err != nil {
		return nil, newMalformed("reading constant pool count: " + err.Error())
	}
	p := &pool{entries: make([]poolEntry, count)}

	for i := 1; i < int(count); i++ {
		tagByte, err := c.u1()
		if err != nil {
			return nil, newMalformed("reading constant pool tag at index " + strconv.Itoa(i) + ": " + err.Error())
		}
		entry := poolEntry{tag: tagByte}
		slot := i

		switch tagByte {
		case tagUTF8:
			length, err := c.u2()
			if err != nil {
				return nil, newMalformed("reading utf8 length: " + err.Error())
			}
			raw, err := c.bytes(int(length))
			if err != nil {
				return nil, newMalformed("reading utf8 bytes: " + err.Error())
			}
			entry.str = decodeModifiedUTF8(raw)

		case tagInteger:
			v, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading int constant: " + err.Error())
			}
			entry.intVal = int32(v)

		case tagFloat:
			v, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading float constant: " + err.Error())
			}
			entry.floatVal = math.Float32frombits(v)

		case tagLong:
			hi, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading long constant: " + err.Error())
			}
			lo, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading long constant: " + err.Error())
			}
			entry.longVal = int64(uint64(hi)<<32 | uint64(lo))
			i++ // long occupies two slots

		case tagDouble:
			hi, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading double constant: " + err.Error())
			}
			lo, err := c.u4()
			if err != nil {
				return nil, newMalformed("reading double constant: " + err.Error())
			}
			entry.doubleVal = math.Float64frombits(uint64(hi)<<32 | uint64(lo))
			i++ // double occupies two slots

		case tagClass, tagString:
			idx, err := c.u2()
			if err != nil {
				return nil, newMalformed("reading class/string referent: " + err.Error())
			}
			entry.ref = idx

		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType:
			if err := c.skip(4); err != nil {
				return nil, newMalformed("skipping ref entry: " + err.Error())
			}

		case tagMethodHandle:
			if err := c.skip(3); err != nil {
				return nil, newMalformed("skipping method handle entry: " + err.Error())
			}

		case tagMethodType:
			if err := c.skip(2); err != nil {
				return nil, newMalformed("skipping method type entry: " + err.Error())
			}

		case tagInvokeDynamic:
			if err := c.skip(4); err != nil {
				return nil, newMalformed("skipping invokedynamic entry: " + err.Error())
			}

		default:
			// unknown tag: best-effort parse, no bytes consumed beyond the tag.
		}

		if slot < len(p.entries) {
			p.entries[slot] = entry
		}
	}
	return p, nil
}

// resolve replaces every deferred class/string referent with the string
// held at the index it points to (spec §4.1 step 5). Forward references are
// legal because this is a second pass over the already-read table.
func (p *pool) resolve() error {
	for i := 1; i < len(p.entries); i++ {
		e := p.entries[i]
		if e.tag != tagClass && e.tag != tagString {
			continue
		}
		if int(e.ref) <= 0 || int(e.ref) >= len(p.entries) {
			return newMalformed("constant pool referent out of range at index " + strconv.Itoa(i))
		}
		p.entries[i].str = p.entries[e.ref].str
	}
	return nil
}

// stringAt is the "read indirect string" helper of spec §4.1: look up the
// resolved string at a constant-pool index.
func (p *pool) stringAt(idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(p.entries) {
		return "", newMalformed("constant pool index out of range: " + strconv.Itoa(int(idx)))
	}
	return p.entries[idx].str, nil
}

// literalAt returns the raw literal at idx, typed so descriptor.Coerce can
// narrow/retype it: int32 for int constants, int64 for long, float32/
// float64 for float/double, string for a Utf8 or resolved String entry.
func (p *pool) literalAt(idx uint16) (interface{}, error) {
	if int(idx) <= 0 || int(idx) >= len(p.entries) {
		return nil, newMalformed("constant pool index out of range: " + strconv.Itoa(int(idx)))
	}
	e := p.entries[idx]
	switch e.tag {
	case tagInteger:
		return e.intVal, nil
	case tagLong:
		return e.longVal, nil
	case tagFloat:
		return e.floatVal, nil
	case tagDouble:
		return e.doubleVal, nil
	case tagUTF8, tagString:
		return e.str, nil
	default:
		return nil, newMalformed("constant pool entry at index " + strconv.Itoa(int(idx)) + " is not a literal")
	}
}

// readIndirectString reads a 16-bit index off the cursor and resolves it
// against the pool in one step, as spec §4.1's helper is used throughout
// §4.2 (this-class, super-class, interface entries).
func readIndirectString(c *cursor, p *pool) (string, error) {
	idx, err := c.u2()
	if err != nil {
		return "", newMalformed("reading indirect string index: " + err.Error())
	}
	return p.stringAt(idx)
}

// decodeModifiedUTF8 decodes the classfile's modified-UTF-8 payload. Class,
// package, field, and annotation names are plain ASCII in practice; this
// also handles the general 1/2/3-byte encodings so string constants with
// non-ASCII text round-trip.
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		c0 := b[i]
		switch {
		case c0&0x80 == 0:
			sb.WriteByte(c0)
			i++
		case c0&0xE0 == 0xC0 && i+1 < len(b):
			r := rune(c0&0x1F)<<6 | rune(b[i+1]&0x3F)
			sb.WriteRune(r)
			i += 2
		case c0&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c0&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			sb.WriteRune(r)
			i += 3
		default:
			sb.WriteByte(c0)
			i++
		}
	}
	return sb.String()
}
