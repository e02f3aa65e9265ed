package mp4io

import (
	"math"
	"time"

	"github.com/ugparu/videoatoms/utils/bits/pio"
)

const (
	mdhdSizeV0 = 24
	mdhdSizeV1 = 36

	// LanguageUndetermined is the packed ISO-639-2 code "und".
	LanguageUndetermined = 0x55c4
)

// MediaHeader is the mdhd atom: the time scale and duration of one track's media.
type MediaHeader struct {
	Version    uint8
	Flags      uint32
	CreateTime time.Time
	ModifyTime time.Time
	TimeScale  uint32
	Duration   uint64
	Language   uint16
	Quality    uint16
}

// Marshal frames the header, switching to version 1 when the duration needs 64 bits.
func (mdhd MediaHeader) Marshal() []byte {
	version := mdhd.Version
	if mdhd.Duration > math.MaxUint32 {
		version = 1
	}
	size := mdhdSizeV0
	if version == 1 {
		size = mdhdSizeV1
	}
	b := make([]byte, size)
	n := 0
	pio.PutU8(b[n:], version)
	n += 1
	pio.PutU24BE(b[n:], mdhd.Flags)
	n += 3
	if version == 1 {
		PutTime64(b[n:], mdhd.CreateTime)
		n += 8
		PutTime64(b[n:], mdhd.ModifyTime)
		n += 8
		pio.PutU32BE(b[n:], mdhd.TimeScale)
		n += 4
		pio.PutU64BE(b[n:], mdhd.Duration)
		n += 8
	} else {
		PutTime32(b[n:], mdhd.CreateTime)
		n += 4
		PutTime32(b[n:], mdhd.ModifyTime)
		n += 4
		pio.PutU32BE(b[n:], mdhd.TimeScale)
		n += 4
		pio.PutU32BE(b[n:], uint32(mdhd.Duration))
		n += 4
	}
	pio.PutU16BE(b[n:], mdhd.Language)
	n += 2
	pio.PutU16BE(b[n:], mdhd.Quality)
	return BuildFromData(MDHD, b)
}

// Unmarshal decodes an mdhd payload (the bytes after the atom header).
func (mdhd *MediaHeader) Unmarshal(b []byte) (n int, err error) {
	if len(b) < n+4 {
		err = parseErr("Version", n, err)
		return
	}
	mdhd.Version = pio.U8(b[n:])
	n += 1
	mdhd.Flags = pio.U24BE(b[n:])
	n += 3
	if mdhd.Version == 1 {
		if len(b) < n+20 {
			err = parseErr("Times", n, err)
			return
		}
		mdhd.CreateTime = GetTime64(b[n:])
		n += 8
		mdhd.ModifyTime = GetTime64(b[n:])
		n += 8
		mdhd.TimeScale = pio.U32BE(b[n:])
		n += 4
		if len(b) < n+8 {
			err = parseErr("Duration", n, err)
			return
		}
		mdhd.Duration = pio.U64BE(b[n:])
		n += 8
	} else {
		if len(b) < n+12 {
			err = parseErr("TimeScale", n, err)
			return
		}
		mdhd.CreateTime = GetTime32(b[n:])
		n += 4
		mdhd.ModifyTime = GetTime32(b[n:])
		n += 4
		mdhd.TimeScale = pio.U32BE(b[n:])
		n += 4
		if len(b) < n+4 {
			err = parseErr("Duration", n, err)
			return
		}
		mdhd.Duration = uint64(pio.U32BE(b[n:]))
		n += 4
	}
	if len(b) < n+4 {
		err = parseErr("Language", n, err)
		return
	}
	mdhd.Language = pio.U16BE(b[n:])
	n += 2
	mdhd.Quality = pio.U16BE(b[n:])
	n += 2
	return
}

// Seconds is the media duration in seconds, zero when the time scale is unset.
func (mdhd MediaHeader) Seconds() float64 {
	if mdhd.TimeScale == 0 {
		return 0
	}
	return float64(mdhd.Duration) / float64(mdhd.TimeScale)
}
