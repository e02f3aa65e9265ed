package mp4io

import (
	"github.com/ugparu/videoatoms/utils"
	"github.com/ugparu/videoatoms/utils/bits/pio"
)

// atomCheck is the result of validating one atom header inside a buffer. It lives only
// for the duration of a single read or seek.
type atomCheck struct {
	offset    int64
	size      uint64
	headerLen int
	tag       Tag
	wide      bool
	valid     bool
	err       error
}

func (c atomCheck) payload(b []byte) []byte {
	start := c.offset + int64(c.headerLen)
	return b[start : c.offset+int64(c.size)]
}

// checkAtom decodes the header at offset and verifies that the whole atom lies inside b.
// A zero size means the atom runs to the end of b.
func checkAtom(b []byte, offset int64) (c atomCheck) {
	c.offset = offset
	if offset < 0 || offset > int64(len(b)) {
		c.err = &utils.MalformedError{Offset: offset, Reason: "offset outside buffer"}
		return
	}
	remaining := uint64(int64(len(b)) - offset)
	if remaining < HeaderSize {
		c.err = &utils.TruncatedError{Offset: offset, Declared: HeaderSize, Available: remaining}
		return
	}

	h := b[offset:]
	c.tag = Tag(pio.U32BE(h[4:]))
	c.size = uint64(pio.U32BE(h))
	c.headerLen = HeaderSize

	switch c.size {
	case wideMarker:
		if remaining < WideHeaderSize {
			c.err = &utils.TruncatedError{
				Tag: c.tag.String(), Offset: offset, Declared: WideHeaderSize, Available: remaining,
			}
			return
		}
		c.wide = true
		c.headerLen = WideHeaderSize
		c.size = getWideSize(h[8:])
	case 0:
		c.size = remaining
	}

	if c.size < uint64(c.headerLen) {
		c.err = &utils.MalformedError{Tag: c.tag.String(), Offset: offset, Reason: "size below header length"}
		return
	}
	if c.size > remaining {
		c.err = &utils.TruncatedError{Tag: c.tag.String(), Offset: offset, Declared: c.size, Available: remaining}
		return
	}
	c.valid = true
	return
}
