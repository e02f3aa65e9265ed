package mp4io

import (
	"github.com/ugparu/videoatoms/utils"
	"github.com/ugparu/videoatoms/utils/bits/pio"
)

// BuildEmpty returns a header-only atom.
func BuildEmpty(tag Tag) []byte {
	return BuildFromData(tag, nil)
}

// BuildFromData frames payload with tag. The 16-byte wide header is used only when the
// framed size would not fit the 32-bit size field.
func BuildFromData(tag Tag, payload []byte) []byte {
	hl := headerLenFor(uint64(len(payload)))
	b := make([]byte, hl+len(payload))
	putHeader(b, tag, uint64(len(b)), hl == WideHeaderSize)
	copy(b[hl:], payload)
	return b
}

// BuildHeader returns only the header of an atom carrying payloadLen bytes, for writers
// that stream the payload separately.
func BuildHeader(tag Tag, payloadLen uint64) []byte {
	hl := headerLenFor(payloadLen)
	b := make([]byte, hl)
	putHeader(b, tag, payloadLen+uint64(hl), hl == WideHeaderSize)
	return b
}

// BuildContainer wraps already-framed children with one more header. Every child slice
// may hold several concatenated atoms; each must be well formed and none may be mdat.
func BuildContainer(tag Tag, children ...[]byte) ([]byte, error) {
	n := 0
	for _, child := range children {
		if err := checkChildren(child); err != nil {
			return nil, err
		}
		n += len(child)
	}
	payload := make([]byte, 0, n)
	for _, child := range children {
		payload = append(payload, child...)
	}
	return BuildFromData(tag, payload), nil
}

func checkChildren(b []byte) error {
	var off int64
	for off < int64(len(b)) {
		c := checkAtom(b, off)
		if !c.valid {
			return c.err
		}
		if c.tag == MDAT {
			return &utils.MalformedError{Tag: c.tag.String(), Offset: off, Reason: "mdat cannot be nested"}
		}
		off += int64(c.size)
	}
	return nil
}

const (
	metaPrefixSize = 4
	maxMetaValue   = 0xFFFF
)

// BuildMetadata builds one user-data text entry: value length, packed language code
// and the UTF-8 value. Entries are the children of udta.
func BuildMetadata(tag Tag, value string) ([]byte, error) {
	if len(value) > maxMetaValue {
		return nil, &utils.MalformedError{Tag: tag.String(), Reason: "metadata value longer than 65535 bytes"}
	}
	payload := make([]byte, metaPrefixSize+len(value))
	pio.PutU16BE(payload, uint16(len(value)))
	pio.PutU16BE(payload[2:], LanguageUndetermined)
	copy(payload[metaPrefixSize:], value)
	return BuildFromData(tag, payload), nil
}

// ParseMetadata returns the text held by a user-data entry payload.
func ParseMetadata(payload []byte) (string, error) {
	if len(payload) < metaPrefixSize {
		return "", parseErr("MetaLength", 0, nil)
	}
	n := int(pio.U16BE(payload))
	if len(payload) < metaPrefixSize+n {
		return "", parseErr("MetaValue", metaPrefixSize, nil)
	}
	return string(payload[metaPrefixSize : metaPrefixSize+n]), nil
}
