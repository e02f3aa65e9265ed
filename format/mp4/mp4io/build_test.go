package mp4io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/videoatoms/utils"
	"github.com/ugparu/videoatoms/utils/bits/pio"
)

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	for _, tag := range []Tag{MOOV, TRAK, MDIA, MINF, DINF, STBL, UDTA} {
		b := BuildEmpty(tag)
		require.Len(t, b, HeaderSize)
		require.Equal(t, uint32(HeaderSize), pio.U32BE(b))
		require.Equal(t, tag, Tag(pio.U32BE(b[4:])))
	}
}

func TestBuildFromDataStandardHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		payload []byte
	}{
		{name: "empty", tag: "free", payload: nil},
		{name: "one_byte", tag: "stss", payload: []byte{1}},
		{name: "text", tag: "\xa9day", payload: []byte("2014-03-10")},
		{name: "large", tag: "mdat", payload: bytes.Repeat([]byte{0xab}, 1<<16)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := BuildFromData(StringToTag(tt.tag), tt.payload)
			require.Len(t, b, len(tt.payload)+HeaderSize)
			require.Equal(t, uint32(len(tt.payload)+HeaderSize), pio.U32BE(b))
			require.Equal(t, tt.tag, string(b[4:8]))
			require.True(t, bytes.Equal(tt.payload, b[HeaderSize:]))

			payload, err := PayloadFromBuffer(b, StringToTag(tt.tag))
			require.NoError(t, err)
			require.Len(t, payload, len(tt.payload))
			if len(tt.payload) > 0 {
				require.Equal(t, tt.payload, payload)
			}
		})
	}
}

func TestWideThreshold(t *testing.T) {
	t.Parallel()

	require.Equal(t, HeaderSize, headerLenFor(0))
	require.Equal(t, HeaderSize, headerLenFor(MaxStandardSize-HeaderSize))
	require.Equal(t, WideHeaderSize, headerLenFor(MaxStandardSize-HeaderSize+1))
	require.Equal(t, WideHeaderSize, headerLenFor(1<<40))
}

func TestWideHeaderLayout(t *testing.T) {
	t.Parallel()

	payloadLen := uint64(MaxStandardSize)
	b := make([]byte, WideHeaderSize)
	putHeader(b, MDAT, payloadLen+WideHeaderSize, headerLenFor(payloadLen) == WideHeaderSize)

	require.Equal(t, uint32(1), pio.U32BE(b))
	require.Equal(t, "mdat", string(b[4:8]))
	require.Equal(t, payloadLen+WideHeaderSize, pio.U64BE(b[8:]))
	require.Equal(t, payloadLen+WideHeaderSize, getWideSize(b[8:]))
}

func TestWideAtomRoundTrip(t *testing.T) {
	t.Parallel()

	atom := &Atom{Tag: MDAT, Data: []byte("samples"), Wide: true}
	atom.Size = atom.Len()
	b := atom.Marshal()
	require.Len(t, b, WideHeaderSize+7)
	require.Equal(t, uint32(1), pio.U32BE(b))
	require.Equal(t, uint64(len(b)), pio.U64BE(b[8:]))

	read, err := ReadAtomFromBuffer(b)
	require.NoError(t, err)
	require.True(t, read.Wide)
	require.Equal(t, MDAT, read.Tag)
	require.Equal(t, uint64(len(b)), read.Size)
	require.Equal(t, []byte("samples"), read.Data)
	require.Equal(t, b, read.Marshal())
}

func TestNewAtom(t *testing.T) {
	t.Parallel()

	atom := NewAtom(PVAT, []byte("{}"))
	require.False(t, atom.Wide)
	require.Equal(t, uint64(10), atom.Size)
	require.Equal(t, HeaderSize, atom.HeaderLen())
	require.Equal(t, BuildFromData(PVAT, []byte("{}")), atom.Marshal())
	require.Equal(t, "pvat size=10 wide=false", atom.String())
}

func TestBuildContainer(t *testing.T) {
	t.Parallel()

	mdhd := MediaHeader{TimeScale: 30, Duration: 300}.Marshal()
	hdlr := HandlerRefer{HandlerType: HandlerVideo, Name: "VideoHandler"}.Marshal()

	mdia, err := BuildContainer(MDIA, mdhd, hdlr)
	require.NoError(t, err)
	require.Equal(t, uint32(HeaderSize+len(mdhd)+len(hdlr)), pio.U32BE(mdia))
	require.Equal(t, "mdia", string(mdia[4:8]))
	require.Equal(t, append(append([]byte{}, mdhd...), hdlr...), mdia[HeaderSize:])

	joined, err := BuildContainer(MDIA, append(append([]byte{}, mdhd...), hdlr...))
	require.NoError(t, err)
	require.Equal(t, mdia, joined)

	empty, err := BuildContainer(UDTA)
	require.NoError(t, err)
	require.Equal(t, BuildEmpty(UDTA), empty)
}

func TestBuildContainerRejectsMdat(t *testing.T) {
	t.Parallel()

	mdat := BuildFromData(MDAT, []byte{1, 2, 3})
	_, err := BuildContainer(MOOV, BuildEmpty(TRAK), mdat)
	var target *utils.MalformedError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "mdat", target.Tag)
}

func TestBuildContainerRejectsBrokenChild(t *testing.T) {
	t.Parallel()

	child := BuildFromData(TRAK, []byte{1, 2, 3, 4})
	_, err := BuildContainer(MOOV, child[:len(child)-1])
	var truncated *utils.TruncatedError
	require.ErrorAs(t, err, &truncated)

	bad := []byte{0, 0, 0, 4, 't', 'r', 'a', 'k'}
	_, err = BuildContainer(MOOV, bad)
	var malformed *utils.MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	tag := StringToTag("\xa9day")
	b, err := BuildMetadata(tag, "2014-03-10T101215+0100")
	require.NoError(t, err)
	require.Equal(t, "\xa9day", string(b[4:8]))
	require.Equal(t, uint16(22), pio.U16BE(b[8:]))
	require.Equal(t, uint16(LanguageUndetermined), pio.U16BE(b[10:]))

	payload, err := PayloadFromBuffer(b, tag)
	require.NoError(t, err)
	value, err := ParseMetadata(payload)
	require.NoError(t, err)
	require.Equal(t, "2014-03-10T101215+0100", value)
}

func TestMetadataErrors(t *testing.T) {
	t.Parallel()

	_, err := BuildMetadata(StringToTag("\xa9cmt"), strings.Repeat("a", maxMetaValue+1))
	require.Error(t, err)

	_, err = ParseMetadata([]byte{0, 1})
	require.Error(t, err)

	_, err = ParseMetadata([]byte{0, 9, 0x55, 0xc4, 'a'})
	var parse *ParseError
	require.ErrorAs(t, err, &parse)
	require.Equal(t, "MetaValue", parse.Debug)
}

func TestBuildFree(t *testing.T) {
	t.Parallel()

	require.Equal(t, BuildEmpty(FREE), BuildFree(HeaderSize))
	require.Equal(t, BuildEmpty(FREE), BuildFree(0))
	b := BuildFree(32)
	require.Len(t, b, 32)
	require.Equal(t, uint32(32), pio.U32BE(b))
}

func TestFileType(t *testing.T) {
	t.Parallel()

	b := NewFileType().Marshal()
	require.Equal(t, "ftyp", string(b[4:8]))
	require.Equal(t, "isom", string(b[8:12]))

	payload, err := PayloadFromBuffer(b, FTYP)
	require.NoError(t, err)
	var ftyp FileType
	require.NoError(t, ftyp.Unmarshal(payload))
	require.Equal(t, StringToTag("isom"), ftyp.MajorBrand)
	require.Len(t, ftyp.CompatibleBrands, 4)
	require.Equal(t, "avc1", ftyp.CompatibleBrands[2].String())

	require.Error(t, ftyp.Unmarshal([]byte{1, 2}))
}

func TestTagString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "moov", MOOV.String())
	require.Equal(t, MOOV, StringToTag("moov"))
	require.Equal(t, "ab  ", StringToTag("ab").String())
	require.Equal(t, "url ", URL.String())
}

func TestBuildHeader(t *testing.T) {
	t.Parallel()

	h := BuildHeader(MDAT, 100)
	require.Len(t, h, HeaderSize)
	require.Equal(t, uint32(108), pio.U32BE(h))

	h = BuildHeader(MDAT, MaxStandardSize)
	require.Len(t, h, WideHeaderSize)
	require.Equal(t, uint32(1), pio.U32BE(h))
	require.Equal(t, "mdat", string(h[4:8]))
	require.Equal(t, uint64(MaxStandardSize)+WideHeaderSize, pio.U64BE(h[8:]))
}

func TestBuildChunkOffset64(t *testing.T) {
	t.Parallel()

	b := BuildChunkOffset64([]uint64{1 << 33})
	require.Equal(t, "co64", string(b[4:8]))
	require.Equal(t, uint32(1), pio.U32BE(b[12:]))
	require.Equal(t, uint64(1<<33), pio.U64BE(b[16:]))
}
