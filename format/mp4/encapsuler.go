package mp4

import (
	"bufio"
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/ugparu/videoatoms"
	"github.com/ugparu/videoatoms/format/mp4/mp4io"
	"github.com/ugparu/videoatoms/utils/bits/pio"
	"github.com/ugparu/videoatoms/utils/logger"
)

// Encapsuler writes a single video track recording: ftyp, a free atom reserved for a
// wide mdat header, mdat, then moov with user data, and optionally the pvat trailer.
// Frames are streamed into mdat; the sample tables are written on Close.
type Encapsuler struct {
	writer         io.WriteSeeker // The underlying writer for the recording.
	bufferedWriter *bufio.Writer  // Buffered writer for frame data.
	writePosition  int64          // Current write position in the file.
	freeOffset     int64          // Offset of the reserved free atom.
	mdatOffset     int64          // Offset of the standard mdat header.

	timeScale     uint32
	frameDuration uint32
	width, height uint16
	created       time.Time

	sizes    []uint32
	offsets  []uint64
	keys     []uint32
	metadata [][]byte
	closed   bool
}

// NewEncapsuler writes the file prologue to writer. timeScale is in units per second and
// frameDuration is the constant duration of one frame in those units.
func NewEncapsuler(writer io.WriteSeeker, timeScale, frameDuration uint32) (*Encapsuler, error) {
	if timeScale == 0 || frameDuration == 0 {
		return nil, errors.New("mp4: time scale and frame duration must be positive")
	}
	enc := &Encapsuler{
		writer:         writer,
		bufferedWriter: bufio.NewWriterSize(writer, pio.RecommendBufioSize),
		timeScale:      timeScale,
		frameDuration:  frameDuration,
		created:        time.Now().UTC(),
	}

	start, err := writer.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errors.Wrap(err, "mp4: locate start")
	}
	enc.writePosition = start

	if err = enc.write(mp4io.NewFileType().Marshal()); err != nil {
		return nil, err
	}
	enc.freeOffset = enc.writePosition
	if err = enc.write(mp4io.BuildFree(mp4io.HeaderSize)); err != nil {
		return nil, err
	}
	enc.mdatOffset = enc.writePosition
	if err = enc.write(mp4io.BuildEmpty(mp4io.MDAT)); err != nil {
		return nil, err
	}
	logger.Debugf(enc, "Started recording at %d, timescale %d, frame duration %d", start, timeScale, frameDuration)
	return enc, nil
}

func (enc *Encapsuler) write(b []byte) error {
	if _, err := enc.bufferedWriter.Write(b); err != nil {
		return errors.Wrap(err, "mp4: write")
	}
	enc.writePosition += int64(len(b))
	return nil
}

// SetDimensions records the picture size stored in the track header.
func (enc *Encapsuler) SetDimensions(width, height uint16) {
	enc.width, enc.height = width, height
}

// SetMetadata queues one user-data text entry such as "\xa9day" or "\xa9too".
func (enc *Encapsuler) SetMetadata(tag, value string) error {
	b, err := mp4io.BuildMetadata(mp4io.StringToTag(tag), value)
	if err != nil {
		return err
	}
	enc.metadata = append(enc.metadata, b)
	return nil
}

// WriteFrame appends one encoded frame to mdat.
func (enc *Encapsuler) WriteFrame(data []byte, key bool) error {
	if enc.closed {
		return errors.New("mp4: encapsuler closed")
	}
	if uint64(len(data)) > math.MaxUint32 {
		return errors.Errorf("mp4: frame of %d bytes too large", len(data))
	}
	if uint64(len(enc.sizes)) >= math.MaxUint32 {
		return errors.New("mp4: too many frames")
	}
	offset := uint64(enc.writePosition)
	if err := enc.write(data); err != nil {
		return err
	}
	enc.offsets = append(enc.offsets, offset)
	enc.sizes = append(enc.sizes, uint32(len(data)))
	if key {
		enc.keys = append(enc.keys, uint32(len(enc.sizes)))
	}
	return nil
}

// mdatHeader returns where the final mdat header goes and its bytes. A payload too large
// for 32 bits takes over the reserved free atom so that the header grows to 16 bytes
// while the samples stay where they were written.
func (enc *Encapsuler) mdatHeader(payloadLen uint64) (int64, []byte) {
	hdr := mp4io.BuildHeader(mp4io.MDAT, payloadLen)
	if len(hdr) == mp4io.WideHeaderSize {
		return enc.freeOffset, hdr
	}
	return enc.mdatOffset, hdr
}

func (enc *Encapsuler) patchMdat() error {
	if err := enc.bufferedWriter.Flush(); err != nil {
		return errors.Wrap(err, "mp4: flush")
	}
	payloadLen := uint64(enc.writePosition - enc.mdatOffset - mp4io.HeaderSize)
	offset, hdr := enc.mdatHeader(payloadLen)
	if _, err := enc.writer.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "mp4: seek to mdat")
	}
	if _, err := enc.writer.Write(hdr); err != nil {
		return errors.Wrap(err, "mp4: patch mdat")
	}
	if _, err := enc.writer.Seek(enc.writePosition, io.SeekStart); err != nil {
		return errors.Wrap(err, "mp4: seek to end")
	}
	return nil
}

func (enc *Encapsuler) sampleTable() ([]byte, error) {
	frames := uint32(len(enc.sizes))
	children := [][]byte{
		mp4io.BuildSampleDesc(),
		mp4io.BuildTimeToSample([]mp4io.TimeToSampleEntry{{Count: frames, Duration: enc.frameDuration}}),
	}
	if len(enc.keys) > 0 {
		children = append(children, mp4io.BuildSyncSample(enc.keys))
	}
	children = append(children,
		mp4io.BuildSampleToChunk([]mp4io.SampleToChunkEntry{{FirstChunk: 1, SamplesPerChunk: 1, SampleDescId: 1}}),
		mp4io.BuildSampleSize(enc.sizes),
	)

	wideOffsets := len(enc.offsets) > 0 && enc.offsets[len(enc.offsets)-1] > math.MaxUint32
	if wideOffsets {
		children = append(children, mp4io.BuildChunkOffset64(enc.offsets))
	} else {
		offsets := make([]uint32, len(enc.offsets))
		for i, v := range enc.offsets {
			offsets[i] = uint32(v)
		}
		children = append(children, mp4io.BuildChunkOffset(offsets))
	}
	return mp4io.BuildContainer(mp4io.STBL, children...)
}

func (enc *Encapsuler) movie() ([]byte, error) {
	duration := uint64(len(enc.sizes)) * uint64(enc.frameDuration)
	duration32 := uint32(min(duration, math.MaxUint32))

	stbl, err := enc.sampleTable()
	if err != nil {
		return nil, err
	}
	dinf, err := mp4io.BuildDataInfo()
	if err != nil {
		return nil, err
	}
	minf, err := mp4io.BuildContainer(mp4io.MINF, mp4io.BuildVideoMediaInfo(), mp4io.BuildDataHandler(), dinf, stbl)
	if err != nil {
		return nil, err
	}
	mdia, err := mp4io.BuildContainer(mp4io.MDIA,
		mp4io.MediaHeader{
			CreateTime: enc.created,
			ModifyTime: enc.created,
			TimeScale:  enc.timeScale,
			Duration:   duration,
			Language:   mp4io.LanguageUndetermined,
		}.Marshal(),
		mp4io.HandlerRefer{
			PreDefined:  mp4io.HandlerMedia,
			HandlerType: mp4io.HandlerVideo,
			Name:        "VideoHandler",
		}.Marshal(),
		minf,
	)
	if err != nil {
		return nil, err
	}
	trak, err := mp4io.BuildContainer(mp4io.TRAK,
		mp4io.TrackHeader{
			CreateTime: enc.created,
			ModifyTime: enc.created,
			TrackID:    1,
			Duration:   duration32,
			Width:      enc.width,
			Height:     enc.height,
		}.Marshal(),
		mdia,
	)
	if err != nil {
		return nil, err
	}
	udta, err := mp4io.BuildContainer(mp4io.UDTA, enc.metadata...)
	if err != nil {
		return nil, err
	}
	return mp4io.BuildContainer(mp4io.MOOV,
		mp4io.MovieHeader{
			CreateTime:  enc.created,
			ModifyTime:  enc.created,
			TimeScale:   enc.timeScale,
			Duration:    duration32,
			NextTrackID: 2,
		}.Marshal(),
		trak,
		udta,
	)
}

// Close finalizes mdat, writes moov and, when trailer is not nil, the pvat atom after it.
func (enc *Encapsuler) Close(trailer *videoatoms.Trailer) error {
	if enc.closed {
		return errors.New("mp4: encapsuler closed")
	}
	enc.closed = true

	if err := enc.patchMdat(); err != nil {
		return err
	}
	moov, err := enc.movie()
	if err != nil {
		return errors.Wrap(err, "mp4: build moov")
	}
	if err = enc.write(moov); err != nil {
		return err
	}
	if trailer != nil {
		if err = WritePVAT(enc.bufferedWriter, trailer.Product, trailer.Date); err != nil {
			return err
		}
	}
	if err = enc.bufferedWriter.Flush(); err != nil {
		return errors.Wrap(err, "mp4: flush")
	}
	logger.Infof(enc, "Recording finished: %d frames, %d key frames", len(enc.sizes), len(enc.keys))
	return nil
}

func (enc *Encapsuler) String() string {
	return "ENCAPSULER"
}
