// Package mp4 works on whole recordings: extracting atoms from files, deriving the
// frame rate, stamping the vendor trailer and writing new recordings.
package mp4

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ugparu/videoatoms/format/mp4/mp4io"
	"github.com/ugparu/videoatoms/utils/logger"
)

const logName = "MP4"

// ReadAtom scans the top-level atoms of r from the start of the stream and returns a copy
// of the payload of the first one tagged tag. The cursor is left after that atom.
func ReadAtom(r io.ReadSeeker, tag mp4io.Tag) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "mp4: rewind")
	}
	if _, err := mp4io.SeekReaderToAtom(r, tag); err != nil {
		return nil, err
	}
	return mp4io.ReadAtom(r, tag)
}

// ExtractAtom opens path and returns the payload of its top-level atom tagged tag.
func ExtractAtom(path string, tag mp4io.Tag) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mp4: open %s", path)
	}
	defer f.Close()

	payload, err := ReadAtom(f, tag)
	if err != nil {
		return nil, errors.Wrapf(err, "mp4: read '%s' from %s", tag, path)
	}
	return payload, nil
}

// GetAtom is ExtractAtom for callers that only distinguish found from not found.
// Any failure is logged and reported as nil.
func GetAtom(path, tag string) []byte {
	t, err := mp4io.ParseTag(tag)
	if err != nil {
		logger.Warningf(logName, "Bad atom name %q: %s", tag, err.Error())
		return nil
	}
	payload, err := ExtractAtom(path, t)
	if err != nil {
		logger.Debugf(logName, "No atom '%s': %s", tag, err.Error())
		return nil
	}
	return payload
}

// FPSFromFile returns the frame rate of the recording read through r, or 0 when the
// moov/trak/mdia/mdhd structure is missing or unusable. The cursor is not restored.
func FPSFromFile(r io.ReadSeeker) uint32 {
	moov, err := ReadAtom(r, mp4io.MOOV)
	if err != nil {
		logger.Debugf(logName, "Frame rate unknown: %s", err.Error())
		return 0
	}
	fps := mp4io.FPSFromMovie(moov)
	if fps == 0 {
		logger.Debug(logName, "Frame rate unknown: no usable video track")
	}
	return fps
}

// FPSFromPath opens path and delegates to FPSFromFile.
func FPSFromPath(path string) uint32 {
	f, err := os.Open(path)
	if err != nil {
		logger.Warningf(logName, "Failed to open %s: %s", path, err.Error())
		return 0
	}
	defer f.Close()
	return FPSFromFile(f)
}
