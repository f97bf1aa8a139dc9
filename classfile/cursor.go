/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "encoding/binary"

// cursor is a forward-only, bounds-checked reader over one classfile's raw
// bytes. Grounded on the pack's jar.go classFileReader helper
// (other_examples/…google-oss-rebuild__pkg-diffr-jar.go.go), which reads
// the same binary prelude the same way.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) u1() (byte, error) {
	if c.pos+1 > len(c.data) {
		return 0, errTruncated
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, errTruncated
	}
	v := binary.BigEndian.Uint16(c.data[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

func (c *cursor) u4() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, errTruncated
	}
	v := binary.BigEndian.Uint32(c.data[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) skip(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return errTruncated
	}
	c.pos += n
	return nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errTruncated
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}
