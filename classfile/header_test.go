/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// builder assembles classfile byte streams for tests. Constant-pool entries
// and their 1-based slot numbering are handled separately by poolBuilder.
type builder struct {
	buf     bytes.Buffer
	cpCount uint16 // next free constant-pool index (slot 0 is reserved)
}

func newBuilder() *builder {
	b := &builder{cpCount: 1}
	b.u1(0xCA)
	b.u1(0xFE)
	b.u1(0xBA)
	b.u1(0xBE)
	b.u2(0) // minor
	b.u2(52) // major
	return b
}

func (b *builder) u1(v byte)    { b.buf.WriteByte(v) }
func (b *builder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *builder) u4(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }

// poolBuilder collects constant-pool entries in a side buffer and tracks
// the slot count; tests write that count after the prelude and then splice
// the entries in.
type poolBuilder struct {
	entries bytes.Buffer
	count   uint16 // number of slots consumed so far, including slot 0
}

func newPoolBuilder() *poolBuilder {
	return &poolBuilder{count: 1}
}

func (p *poolBuilder) utf8(s string) uint16 {
	idx := p.count
	p.entries.WriteByte(1) // tagUTF8
	binary.Write(&p.entries, binary.BigEndian, uint16(len(s)))
	p.entries.WriteString(s)
	p.count++
	return idx
}

func (p *poolBuilder) class(nameIdx uint16) uint16 {
	idx := p.count
	p.entries.WriteByte(7) // tagClass
	binary.Write(&p.entries, binary.BigEndian, nameIdx)
	p.count++
	return idx
}

func (p *poolBuilder) integer(v int32) uint16 {
	idx := p.count
	p.entries.WriteByte(3) // tagInteger
	binary.Write(&p.entries, binary.BigEndian, uint32(v))
	p.count++
	return idx
}

func (p *poolBuilder) bytesAndCount() ([]byte, uint16) {
	return p.entries.Bytes(), p.count
}

func TestParseSimpleClassWithFieldAndAnnotation(t *testing.T) {
	pool := newPoolBuilder()
	thisUtf8 := pool.utf8("com/example/Foo")
	thisClass := pool.class(thisUtf8)
	superUtf8 := pool.utf8("java/lang/Bar")
	superClass := pool.class(superUtf8)
	ifaceUtf8 := pool.utf8("com/example/Iface")
	ifaceClass := pool.class(ifaceUtf8)
	fieldName := pool.utf8("value")
	fieldDesc := pool.utf8("I")
	constantValueAttrName := pool.utf8("ConstantValue")
	constantValueIdx := pool.integer(42)
	rvaAttrName := pool.utf8("RuntimeVisibleAnnotations")
	annoTypeIdx := pool.utf8("Lcom/example/Anno;")

	poolBytes, count := pool.bytesAndCount()

	b := newBuilder()
	b.u2(count)
	b.buf.Write(poolBytes)

	b.u2(0x0021)      // access_flags: public + super, not an interface
	b.u2(thisClass)   // this_class
	b.u2(superClass)  // super_class
	b.u2(1)           // interfaces_count
	b.u2(ifaceClass)  // interfaces[0]

	b.u2(1) // fields_count
	b.u2(0x0018) // field access_flags: static | final
	b.u2(fieldName)
	b.u2(fieldDesc)
	b.u2(1) // field attributes_count
	b.u2(constantValueAttrName)
	b.u4(2) // attribute_length
	b.u2(constantValueIdx)

	b.u2(0) // methods_count

	b.u2(1) // class attributes_count
	b.u2(rvaAttrName)
	b.u4(0) // attribute_length, unused by the RVA branch
	b.u2(1) // num_annotations
	b.u2(annoTypeIdx) // annotation type_index
	b.u2(0)           // num_element_value_pairs

	var matched []ConstantMatch
	var warnings []string
	cb := Callbacks{
		Seen:     func(string) bool { return false },
		MarkSeen: func(string) {},
		Matches:  alwaysWants{},
		OnMatch:  func(m ConstantMatch) { matched = append(matched, m) },
		OnWarning: func(format string, args ...interface{}) {
			warnings = append(warnings, format)
		},
	}

	record, err := Parse(b.buf.Bytes(), cb)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record == nil {
		t.Fatal("Parse returned nil record")
	}
	if record.Name != "com.example.Foo" {
		t.Errorf("Name = %q, want com.example.Foo", record.Name)
	}
	if record.Kind != KindClass {
		t.Errorf("Kind = %v, want KindClass", record.Kind)
	}
	if record.SuperclassName != "java.lang.Bar" {
		t.Errorf("SuperclassName = %q, want java.lang.Bar", record.SuperclassName)
	}
	if len(record.Interfaces) != 1 || record.Interfaces[0] != "com.example.Iface" {
		t.Errorf("Interfaces = %v, want [com.example.Iface]", record.Interfaces)
	}
	if len(record.Annotations) != 1 || record.Annotations[0] != "com.example.Anno" {
		t.Errorf("Annotations = %v, want [com.example.Anno]", record.Annotations)
	}
	if len(matched) != 1 {
		t.Fatalf("matched = %v, want exactly one ConstantMatch", matched)
	}
	if matched[0].ClassName != "com.example.Foo" || matched[0].FieldName != "value" {
		t.Errorf("match = %+v, want class=com.example.Foo field=value", matched[0])
	}
	if matched[0].Value.Int() != 42 {
		t.Errorf("match value = %d, want 42", matched[0].Value.Int())
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

type alwaysWants struct{}

func (alwaysWants) Wants(className, fieldName string) bool { return true }

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x00, 0x00, 0x00}, Callbacks{})
	if err != ErrNotAClassfile {
		t.Errorf("err = %v, want ErrNotAClassfile", err)
	}
}

func TestParseTruncatedIsMalformed(t *testing.T) {
	_, err := Parse([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00}, Callbacks{})
	if _, ok := err.(*MalformedClassfileError); !ok {
		t.Errorf("err = %v, want *MalformedClassfileError", err)
	}
}

func TestParseObjectClassReturnsNilRecord(t *testing.T) {
	pool := newPoolBuilder()
	nameUtf8 := pool.utf8("java/lang/Object")
	classIdx := pool.class(nameUtf8)
	poolBytes, count := pool.bytesAndCount()

	b := newBuilder()
	b.u2(count)
	b.buf.Write(poolBytes)
	b.u2(0x0021)
	b.u2(classIdx)
	b.u2(0) // super_class: none, but we never get here since Object short-circuits

	record, err := Parse(b.buf.Bytes(), Callbacks{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil for java.lang.Object", record)
	}
}

func TestParseShadowedNameReturnsNilRecord(t *testing.T) {
	pool := newPoolBuilder()
	nameUtf8 := pool.utf8("com/example/Dup")
	classIdx := pool.class(nameUtf8)
	superUtf8 := pool.utf8("java/lang/Object")
	superClass := pool.class(superUtf8)
	poolBytes, count := pool.bytesAndCount()

	b := newBuilder()
	b.u2(count)
	b.buf.Write(poolBytes)
	b.u2(0x0021)
	b.u2(classIdx)
	b.u2(superClass)
	b.u2(0) // interfaces_count
	b.u2(0) // fields_count
	b.u2(0) // methods_count
	b.u2(0) // class attributes_count

	cb := Callbacks{
		Seen:     func(string) bool { return true }, // already encountered
		MarkSeen: func(string) {},
	}
	record, err := Parse(b.buf.Bytes(), cb)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil for a shadowed name", record)
	}
}
