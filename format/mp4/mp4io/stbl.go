package mp4io

import "github.com/ugparu/videoatoms/utils/bits/pio"

const (
	LenTimeToSampleEntry  = 8
	LenSampleToChunkEntry = 12
)

type TimeToSampleEntry struct {
	Count    uint32
	Duration uint32
}

type SampleToChunkEntry struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescId    uint32
}

// fullBoxTable lays out version/flags, an entry count and count*width bytes of entries.
func fullBoxTable(count, width int) []byte {
	b := make([]byte, 8+count*width)
	pio.PutU32BE(b[4:], uint32(count))
	return b
}

// BuildTimeToSample builds stts.
func BuildTimeToSample(entries []TimeToSampleEntry) []byte {
	b := fullBoxTable(len(entries), LenTimeToSampleEntry)
	for i, e := range entries {
		n := 8 + i*LenTimeToSampleEntry
		pio.PutU32BE(b[n:], e.Count)
		pio.PutU32BE(b[n+4:], e.Duration)
	}
	return BuildFromData(STTS, b)
}

// BuildSampleToChunk builds stsc.
func BuildSampleToChunk(entries []SampleToChunkEntry) []byte {
	b := fullBoxTable(len(entries), LenSampleToChunkEntry)
	for i, e := range entries {
		n := 8 + i*LenSampleToChunkEntry
		pio.PutU32BE(b[n:], e.FirstChunk)
		pio.PutU32BE(b[n+4:], e.SamplesPerChunk)
		pio.PutU32BE(b[n+8:], e.SampleDescId)
	}
	return BuildFromData(STSC, b)
}

// BuildSyncSample builds stss from 1-based key frame numbers.
func BuildSyncSample(keys []uint32) []byte {
	return BuildFromData(STSS, u32Table(keys))
}

// BuildChunkOffset builds stco from absolute file offsets.
func BuildChunkOffset(offsets []uint32) []byte {
	return BuildFromData(STCO, u32Table(offsets))
}

// BuildChunkOffset64 builds co64, used once any chunk lies past 4 GiB.
func BuildChunkOffset64(offsets []uint64) []byte {
	b := fullBoxTable(len(offsets), 8)
	for i, v := range offsets {
		pio.PutU64BE(b[8+8*i:], v)
	}
	return BuildFromData(CO64, b)
}

// BuildSampleSize builds stsz with one size per sample.
func BuildSampleSize(sizes []uint32) []byte {
	b := make([]byte, 12+4*len(sizes))
	pio.PutU32BE(b[8:], uint32(len(sizes)))
	for i, v := range sizes {
		pio.PutU32BE(b[12+4*i:], v)
	}
	return BuildFromData(STSZ, b)
}

// BuildSampleDesc builds stsd around already-framed sample entries.
func BuildSampleDesc(entries ...[]byte) []byte {
	b := make([]byte, 8)
	pio.PutU32BE(b[4:], uint32(len(entries)))
	for _, e := range entries {
		b = append(b, e...)
	}
	return BuildFromData(STSD, b)
}

func u32Table(values []uint32) []byte {
	b := fullBoxTable(len(values), 4)
	for i, v := range values {
		pio.PutU32BE(b[8+4*i:], v)
	}
	return b
}
