package mp4io

import (
	"time"

	"github.com/ugparu/videoatoms/utils/bits/pio"
)

const mvhdSize = 100

var identityMatrix = [9]uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// MovieHeader is the version 0 mvhd atom.
type MovieHeader struct {
	CreateTime  time.Time
	ModifyTime  time.Time
	TimeScale   uint32
	Duration    uint32
	NextTrackID uint32
}

func (mvhd MovieHeader) Marshal() []byte {
	b := make([]byte, mvhdSize)
	n := 4
	PutTime32(b[n:], mvhd.CreateTime)
	n += 4
	PutTime32(b[n:], mvhd.ModifyTime)
	n += 4
	pio.PutU32BE(b[n:], mvhd.TimeScale)
	n += 4
	pio.PutU32BE(b[n:], mvhd.Duration)
	n += 4
	pio.PutU32BE(b[n:], 0x00010000) // rate 1.0
	n += 4
	pio.PutU16BE(b[n:], 0x0100) // volume 1.0
	n += 2
	n += 10 // reserved
	for _, v := range identityMatrix {
		pio.PutU32BE(b[n:], v)
		n += 4
	}
	n += 24 // pre-defined
	pio.PutU32BE(b[n:], mvhd.NextTrackID)
	return BuildFromData(MVHD, b)
}

// TrackHeader is the version 0 tkhd atom of an enabled video track.
type TrackHeader struct {
	CreateTime time.Time
	ModifyTime time.Time
	TrackID    uint32
	Duration   uint32
	Width      uint16
	Height     uint16
}

const (
	tkhdSize  = 84
	tkhdFlags = 0x000003
)

func (tkhd TrackHeader) Marshal() []byte {
	b := make([]byte, tkhdSize)
	pio.PutU24BE(b[1:], tkhdFlags)
	n := 4
	PutTime32(b[n:], tkhd.CreateTime)
	n += 4
	PutTime32(b[n:], tkhd.ModifyTime)
	n += 4
	pio.PutU32BE(b[n:], tkhd.TrackID)
	n += 4
	n += 4 // reserved
	pio.PutU32BE(b[n:], tkhd.Duration)
	n += 4
	n += 16 // reserved, layer, alternate group, volume, reserved
	for _, v := range identityMatrix {
		pio.PutU32BE(b[n:], v)
		n += 4
	}
	pio.PutU32BE(b[n:], uint32(tkhd.Width)<<16)
	n += 4
	pio.PutU32BE(b[n:], uint32(tkhd.Height)<<16)
	return BuildFromData(TKHD, b)
}
