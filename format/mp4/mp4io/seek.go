package mp4io

import "bytes"

// SeekToAtom inspects the single atom header at *offset. If its tag is tag it returns
// true and leaves *offset on that header. Otherwise *offset moves past the whole atom and
// false is returned, so callers loop until a match or until *offset reaches len(b).
// Children are never entered. A header that cannot be decoded moves *offset to len(b).
func SeekToAtom(b []byte, offset *int64, tag Tag) bool {
	if *offset >= int64(len(b)) {
		return false
	}
	c := checkAtom(b, *offset)
	if c.size < uint64(c.headerLen) || c.headerLen == 0 {
		*offset = int64(len(b))
		return false
	}
	if c.valid && c.tag == tag {
		return true
	}
	if c.size > uint64(int64(len(b))-*offset) {
		*offset = int64(len(b))
		return false
	}
	*offset += int64(c.size)
	return false
}

// FindAtom scans the sibling atoms of b from the start and returns the header offset of
// the first one tagged tag.
func FindAtom(b []byte, tag Tag) (int64, bool) {
	var off int64
	for off < int64(len(b)) {
		if SeekToAtom(b, &off, tag) {
			return off, true
		}
	}
	return off, false
}

// FindPath descends through nested atoms, searching the payload of each match for the
// next tag, and returns a copy of the last atom's payload.
func FindPath(b []byte, tags ...Tag) ([]byte, bool) {
	payload, ok := findPath(b, tags...)
	if !ok {
		return nil, false
	}
	return bytes.Clone(payload), true
}

// findPath is FindPath without the copy; the result aliases b.
func findPath(b []byte, tags ...Tag) ([]byte, bool) {
	for _, tag := range tags {
		off, ok := FindAtom(b, tag)
		if !ok {
			return nil, false
		}
		b = checkAtom(b, off).payload(b)
	}
	return b, true
}

// eachAtom calls fn with the payload of every sibling tagged tag until fn returns false.
func eachAtom(b []byte, tag Tag, fn func(payload []byte) bool) {
	var off int64
	for off < int64(len(b)) {
		if !SeekToAtom(b, &off, tag) {
			continue
		}
		c := checkAtom(b, off)
		if !fn(c.payload(b)) {
			return
		}
		off += int64(c.size)
	}
}
