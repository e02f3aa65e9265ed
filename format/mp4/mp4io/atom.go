package mp4io

import (
	"encoding/binary"
	"fmt"

	"github.com/ugparu/videoatoms/utils/bits/pio"
)

// Atom is one framed atom held in memory. Data excludes the header and is owned by
// whoever created the Atom. Wide records the header form the atom was read with.
type Atom struct {
	Size uint64
	Tag  Tag
	Data []byte
	Wide bool
}

// NewAtom wraps data with the header form BuildFromData would choose.
func NewAtom(tag Tag, data []byte) *Atom {
	hl := headerLenFor(uint64(len(data)))
	return &Atom{
		Size: uint64(len(data)) + uint64(hl),
		Tag:  tag,
		Data: data,
		Wide: hl == WideHeaderSize,
	}
}

func (a *Atom) HeaderLen() int {
	if a.Wide {
		return WideHeaderSize
	}
	return HeaderSize
}

// Len is the framed length of the atom as it would be emitted by Marshal.
func (a *Atom) Len() uint64 {
	return uint64(a.HeaderLen()) + uint64(len(a.Data))
}

// Marshal re-emits the atom keeping its header form, so an atom read with a wide
// header is written back byte for byte.
func (a *Atom) Marshal() []byte {
	b := make([]byte, a.Len())
	putHeader(b, a.Tag, a.Len(), a.Wide)
	copy(b[a.HeaderLen():], a.Data)
	return b
}

func (a *Atom) String() string {
	return fmt.Sprintf("%s size=%d wide=%t", a.Tag, a.Size, a.Wide)
}

func headerLenFor(payloadLen uint64) int {
	if payloadLen > MaxStandardSize-HeaderSize {
		return WideHeaderSize
	}
	return HeaderSize
}

func putHeader(b []byte, tag Tag, size uint64, wide bool) {
	pio.PutU32BE(b[4:], uint32(tag))
	if !wide {
		pio.PutU32BE(b, uint32(size))
		return
	}
	pio.PutU32BE(b, wideMarker)
	putWideSize(b[8:], size)
}

// The 64-bit size is stored in network order; it is converted through the host
// representation the same way on both paths.
func putWideSize(b []byte, size uint64) {
	binary.NativeEndian.PutUint64(b, pio.HtoNU64(size))
}

func getWideSize(b []byte) uint64 {
	return pio.NtoHU64(binary.NativeEndian.Uint64(b))
}
