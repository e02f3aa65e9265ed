package mp4io

import (
	"bytes"
	"errors"
	"io"
	"math"

	"github.com/ugparu/videoatoms/utils"
	"github.com/ugparu/videoatoms/utils/bits/pio"
)

// AtomHeader describes an atom found in a stream without its payload.
type AtomHeader struct {
	Offset    int64
	Size      uint64
	HeaderLen int
	Tag       Tag
	Wide      bool
}

// PayloadSize is the number of bytes following the header.
func (h AtomHeader) PayloadSize() uint64 {
	return h.Size - uint64(h.HeaderLen)
}

// End is the stream offset just after the atom.
func (h AtomHeader) End() int64 {
	return h.Offset + int64(h.Size)
}

func (h AtomHeader) validate(remaining uint64) error {
	if h.Size < uint64(h.HeaderLen) {
		return &utils.MalformedError{Tag: h.Tag.String(), Offset: h.Offset, Reason: "size below header length"}
	}
	if h.Size > remaining {
		return &utils.TruncatedError{Tag: h.Tag.String(), Offset: h.Offset, Declared: h.Size, Available: remaining}
	}
	if h.PayloadSize() > math.MaxInt {
		return &utils.MalformedError{Tag: h.Tag.String(), Offset: h.Offset, Reason: "payload does not fit in memory"}
	}
	return nil
}

// streamBounds returns the cursor position and the bytes left after it, restoring the cursor.
func streamBounds(r io.ReadSeeker) (pos int64, remaining uint64, err error) {
	if pos, err = r.Seek(0, io.SeekCurrent); err != nil {
		return
	}
	var end int64
	if end, err = r.Seek(0, io.SeekEnd); err != nil {
		return
	}
	if _, err = r.Seek(pos, io.SeekStart); err != nil {
		return
	}
	if end > pos {
		remaining = uint64(end - pos)
	}
	return
}

// readRawHeader reads the header at the cursor without validating the size.
// It returns io.EOF when the cursor is exactly at the end of the stream.
func readRawHeader(r io.Reader, pos int64, remaining uint64) (h AtomHeader, err error) {
	h.Offset = pos
	if remaining == 0 {
		return h, io.EOF
	}
	var hdr [WideHeaderSize]byte
	if _, err = io.ReadFull(r, hdr[:HeaderSize]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = &utils.TruncatedError{Offset: pos, Declared: HeaderSize, Available: remaining}
		}
		return
	}
	h.HeaderLen = HeaderSize
	h.Size = uint64(pio.U32BE(hdr[:]))
	h.Tag = Tag(pio.U32BE(hdr[4:]))

	switch h.Size {
	case wideMarker:
		if _, err = io.ReadFull(r, hdr[HeaderSize:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = &utils.TruncatedError{Tag: h.Tag.String(), Offset: pos, Declared: WideHeaderSize, Available: remaining}
			}
			return
		}
		h.Wide = true
		h.HeaderLen = WideHeaderSize
		h.Size = getWideSize(hdr[HeaderSize:])
	case 0:
		h.Size = remaining
	}
	return
}

// ReadHeader reads and validates the atom header at the cursor of r. On success the
// cursor is left just after the header.
func ReadHeader(r io.ReadSeeker) (h AtomHeader, err error) {
	pos, remaining, err := streamBounds(r)
	if err != nil {
		return
	}
	if h, err = readRawHeader(r, pos, remaining); err != nil {
		return
	}
	err = h.validate(remaining)
	return
}

// ReadAtom reads the atom at the cursor of r and returns a copy of its payload if its tag
// is tag. It does not search: a different tag yields a NotFoundError with the cursor just
// after the header, and the caller re-seeks. On success the cursor is after the atom.
func ReadAtom(r io.ReadSeeker, tag Tag) ([]byte, error) {
	pos, remaining, err := streamBounds(r)
	if err != nil {
		return nil, err
	}
	h, err := readRawHeader(r, pos, remaining)
	if errors.Is(err, io.EOF) {
		return nil, &utils.NotFoundError{Tag: tag.String()}
	}
	if err != nil {
		return nil, err
	}
	if h.Tag != tag {
		return nil, &utils.NotFoundError{Tag: tag.String()}
	}
	if err = h.validate(remaining); err != nil {
		return nil, err
	}
	payload := make([]byte, h.PayloadSize())
	if _, err = io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SeekReaderToAtom walks sibling atoms from the cursor of r until one tagged tag is found
// and leaves the cursor on its header.
func SeekReaderToAtom(r io.ReadSeeker, tag Tag) (AtomHeader, error) {
	for {
		h, err := ReadHeader(r)
		if errors.Is(err, io.EOF) {
			return h, &utils.NotFoundError{Tag: tag.String()}
		}
		if err != nil {
			return h, err
		}
		next := h.End()
		if h.Tag == tag {
			next = h.Offset
		}
		if _, err = r.Seek(next, io.SeekStart); err != nil {
			return h, err
		}
		if h.Tag == tag {
			return h, nil
		}
	}
}

// ScanAtoms lists the top-level atoms of r from the start of the stream. Payloads are
// skipped, never read. Atoms found before a malformed header are returned with the error.
func ScanAtoms(r io.ReadSeeker) (atoms []AtomHeader, err error) {
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return
	}
	for {
		var h AtomHeader
		h, err = ReadHeader(r)
		if errors.Is(err, io.EOF) {
			return atoms, nil
		}
		if err != nil {
			return
		}
		atoms = append(atoms, h)
		if _, err = r.Seek(h.End(), io.SeekStart); err != nil {
			return
		}
	}
}

// ReadAtomFromBuffer decodes the atom at the start of b. The returned atom owns a copy
// of the payload.
func ReadAtomFromBuffer(b []byte) (*Atom, error) {
	c := checkAtom(b, 0)
	if !c.valid {
		return nil, c.err
	}
	return &Atom{
		Size: c.size,
		Tag:  c.tag,
		Data: bytes.Clone(c.payload(b)),
		Wide: c.wide,
	}, nil
}

// PayloadFromBuffer returns a copy of the payload of the atom at the start of b if it is
// tagged tag.
func PayloadFromBuffer(b []byte, tag Tag) ([]byte, error) {
	atom, err := ReadAtomFromBuffer(b)
	if err != nil {
		return nil, err
	}
	if atom.Tag != tag {
		return nil, &utils.NotFoundError{Tag: tag.String()}
	}
	if atom.Data == nil {
		atom.Data = []byte{}
	}
	return atom.Data, nil
}
