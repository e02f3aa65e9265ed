package mp4io

import (
	"math"
	"math/bits"

	"github.com/ugparu/videoatoms/utils/bits/pio"
)

// FPSFromMediaHeader derives the frame rate of a track from its mdhd payload and its
// sample count: round(timescale * frames / duration). Zero means the rate is unknown:
// the payload is too short, a factor is zero or the result does not fit 32 bits.
func FPSFromMediaHeader(payload []byte, frames uint64) uint32 {
	var mdhd MediaHeader
	if _, err := mdhd.Unmarshal(payload); err != nil {
		return 0
	}
	return frameRate(uint64(mdhd.TimeScale), frames, mdhd.Duration)
}

func frameRate(timescale, frames, duration uint64) uint32 {
	if timescale == 0 || frames == 0 || duration == 0 {
		return 0
	}
	hi, lo := bits.Mul64(timescale, frames)
	var carry uint64
	lo, carry = bits.Add64(lo, duration/2, 0)
	hi += carry
	if hi >= duration {
		return 0
	}
	q, _ := bits.Div64(hi, lo, duration)
	if q > math.MaxUint32 {
		return 0
	}
	return uint32(q)
}

// SampleCount returns the number of samples described by an stbl payload, taken from
// the stts entries or, failing that, from stsz.
func SampleCount(stbl []byte) uint64 {
	if stts, ok := findPath(stbl, STTS); ok {
		if n := sttsSampleCount(stts); n > 0 {
			return n
		}
	}
	if stsz, ok := findPath(stbl, STSZ); ok && len(stsz) >= 12 {
		return uint64(pio.U32BE(stsz[8:]))
	}
	return 0
}

func sttsSampleCount(stts []byte) (n uint64) {
	if len(stts) < 8 {
		return 0
	}
	count := uint64(pio.U32BE(stts[4:]))
	entries := stts[8:]
	if avail := uint64(len(entries) / LenTimeToSampleEntry); count > avail {
		count = avail
	}
	for i := uint64(0); i < count; i++ {
		n += uint64(pio.U32BE(entries[i*LenTimeToSampleEntry:]))
	}
	return
}

// FPSFromMovie walks the tracks of a moov payload and returns the frame rate of the first
// video track that yields one. Tracks whose handler says they are not video are skipped.
func FPSFromMovie(moov []byte) (fps uint32) {
	eachAtom(moov, TRAK, func(trak []byte) bool {
		mdia, ok := findPath(trak, MDIA)
		if !ok {
			return true
		}
		if handler, ok := handlerType(mdia); ok && handler != HandlerVideo {
			return true
		}
		mdhd, ok := findPath(mdia, MDHD)
		if !ok {
			return true
		}
		stbl, _ := findPath(mdia, MINF, STBL)
		fps = FPSFromMediaHeader(mdhd, SampleCount(stbl))
		return fps == 0
	})
	return
}
