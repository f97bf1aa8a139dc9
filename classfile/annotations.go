/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// readAnnotation decodes one annotation structure, returning its qualified
// type name, per spec §4.2's "Annotation element reader". It is recursive
// only to advance the cursor correctly past nested annotations; only the
// outermost call's name is ever kept by the caller.
func readAnnotation(c *cursor, p *pool) (string, error) {
	typeIdx, err := c.u2()
	if err != nil {
		return "", newMalformed("reading annotation type index: " + err.Error())
	}
	descriptor, err := p.stringAt(typeIdx)
	if err != nil {
		return "", err
	}
	name := annotationNameFromDescriptor(descriptor)

	pairCount, err := c.u2()
	if err != nil {
		return "", newMalformed("reading annotation element-value pair count: " + err.Error())
	}
	for i := 0; i < int(pairCount); i++ {
		if err := c.skip(2); err != nil { // element_name_index
			return "", newMalformed("skipping annotation element name index: " + err.Error())
		}
		if err := readElementValue(c, p); err != nil {
			return "", err
		}
	}
	return name, nil
}

// readElementValue advances the cursor past one annotation element value,
// per spec §4.2's element-value dispatch table. It never returns data; its
// only job is consuming the right number of bytes.
func readElementValue(c *cursor, p *pool) error {
	tag, err := c.u1()
	if err != nil {
		return newMalformed("reading element value tag: " + err.Error())
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		if err := c.skip(2); err != nil {
			return newMalformed("skipping const_value_index: " + err.Error())
		}
	case 'e':
		if err := c.skip(4); err != nil {
			return newMalformed("skipping enum_const_value: " + err.Error())
		}
	case 'c':
		if err := c.skip(2); err != nil {
			return newMalformed("skipping class_info_index: " + err.Error())
		}
	case '@':
		if _, err := readAnnotation(c, p); err != nil {
			return err
		}
	case '[':
		count, err := c.u2()
		if err != nil {
			return newMalformed("reading array value count: " + err.Error())
		}
		for i := 0; i < int(count); i++ {
			if err := readElementValue(c, p); err != nil {
				return err
			}
		}
	default:
		// unknown element tag: no action, best-effort parse.
	}
	return nil
}
