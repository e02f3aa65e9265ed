package mp4

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ugparu/videoatoms"
	"github.com/ugparu/videoatoms/format/mp4/mp4io"
	"github.com/ugparu/videoatoms/utils/logger"
)

// WritePVAT writes a trailer atom to w in a single call.
func WritePVAT(w io.Writer, product videoatoms.Product, date string) error {
	b, err := mp4io.BuildPVAT(product, date)
	if err != nil {
		return errors.Wrap(err, "mp4: build pvat")
	}
	if _, err = w.Write(b); err != nil {
		return errors.Wrap(err, "mp4: write pvat")
	}
	return nil
}

// AppendPVAT appends a trailer atom to the existing file at path. Bytes already in the
// file are never rewritten; a missing file is an error, not created.
func AppendPVAT(path string, product videoatoms.Product, date string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "mp4: open %s for append", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "mp4: close %s", path)
		}
	}()

	if err = WritePVAT(f, product, date); err != nil {
		return err
	}
	logger.Debugf(logName, "Appended pvat %s to %s", product, path)
	return nil
}

// ReadPVAT returns the trailer of the recording at path.
func ReadPVAT(path string) (*videoatoms.Trailer, error) {
	payload, err := ExtractAtom(path, mp4io.PVAT)
	if err != nil {
		return nil, err
	}
	trailer, err := mp4io.ParsePVAT(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "mp4: parse pvat of %s", path)
	}
	return trailer, nil
}
