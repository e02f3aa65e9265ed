// Package mp4io frames, reads and locates QuickTime/MP4 atoms.
//
// An atom is a size-prefixed, tagged byte range. Containment is positional: a container
// atom's payload is the concatenation of its already-framed children, so there is no
// in-memory tree type. Builders return freshly allocated framed bytes, readers return
// freshly allocated payloads, and the locator walks siblings inside a single buffer.
package mp4io

import (
	"time"

	"github.com/ugparu/videoatoms/utils"
	"github.com/ugparu/videoatoms/utils/bits/pio"
)

const (
	// HeaderSize is the length of a standard atom header: 32-bit size and tag.
	HeaderSize = 8
	// WideHeaderSize is the length of a wide header: escape marker, tag and 64-bit size.
	WideHeaderSize = 16
	// MaxStandardSize is the largest size that fits the 32-bit size field.
	MaxStandardSize = 0xFFFFFFFF

	wideMarker = 1
)

type Tag uint32

const (
	FTYP = Tag(0x66747970)
	MDAT = Tag(0x6d646174)
	FREE = Tag(0x66726565)
	MOOV = Tag(0x6d6f6f76)
	MVHD = Tag(0x6d766864)
	TRAK = Tag(0x7472616b)
	TKHD = Tag(0x746b6864)
	MDIA = Tag(0x6d646961)
	MDHD = Tag(0x6d646864)
	HDLR = Tag(0x68646c72)
	MINF = Tag(0x6d696e66)
	VMHD = Tag(0x766d6864)
	DINF = Tag(0x64696e66)
	DREF = Tag(0x64726566)
	URL  = Tag(0x75726c20)
	STBL = Tag(0x7374626c)
	STSD = Tag(0x73747364)
	STTS = Tag(0x73747473)
	STSS = Tag(0x73747373)
	STSC = Tag(0x73747363)
	STSZ = Tag(0x7374737a)
	STCO = Tag(0x7374636f)
	CO64 = Tag(0x636f3634)
	UDTA = Tag(0x75647461)
	PVAT = Tag(0x70766174)
)

func (t Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(t))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

// StringToTag packs the first four bytes of tag, padding short names with zeros.
func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], []byte(tag))
	return Tag(pio.U32BE(b[:]))
}

// ParseTag is StringToTag for untrusted names; tag must be exactly four bytes.
func ParseTag(tag string) (Tag, error) {
	if len(tag) != 4 {
		return 0, &utils.MalformedError{Tag: tag, Reason: "tag must be four bytes"}
	}
	return StringToTag(tag), nil
}

var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func GetTime32(b []byte) time.Time {
	return epoch1904.Add(time.Second * time.Duration(pio.U32BE(b)))
}

func PutTime32(b []byte, t time.Time) {
	pio.PutU32BE(b, uint32(seconds1904(t)))
}

func GetTime64(b []byte) time.Time {
	return epoch1904.Add(time.Second * time.Duration(pio.U64BE(b)))
}

func PutTime64(b []byte, t time.Time) {
	pio.PutU64BE(b, seconds1904(t))
}

func seconds1904(t time.Time) uint64 {
	if t.Before(epoch1904) {
		return 0
	}
	return uint64(t.Sub(epoch1904) / time.Second)
}
