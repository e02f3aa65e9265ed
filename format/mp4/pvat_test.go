package mp4

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/videoatoms"
	"github.com/ugparu/videoatoms/format/mp4/mp4io"
)

func TestAppendPVATKeepsPriorBytes(t *testing.T) {
	t.Parallel()

	before := bytes.Join([][]byte{
		mp4io.NewFileType().Marshal(),
		mp4io.BuildFromData(mp4io.MDAT, bytes.Repeat([]byte{0x42}, 4096)),
		mp4io.BuildEmpty(mp4io.MOOV),
	}, nil)
	path := writeFile(t, before)

	require.NoError(t, AppendPVAT(path, 0x0901, "2014-03-10T101215+0100"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after[:len(before)])

	atom, err := mp4io.ReadAtomFromBuffer(after[len(before):])
	require.NoError(t, err)
	require.Equal(t, mp4io.PVAT, atom.Tag)
	require.Equal(t, uint64(len(after)-len(before)), atom.Size)

	trailer, err := ReadPVAT(path)
	require.NoError(t, err)
	require.Equal(t, &videoatoms.Trailer{Product: 0x0901, Date: "2014-03-10T101215+0100"}, trailer)
}

func TestAppendPVATMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.mp4")
	require.Error(t, AppendPVAT(path, 0x0901, "2014-03-10"))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestWritePVAT(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, WritePVAT(buf, 0x0902, "2014-01-01"))

	payload, err := mp4io.PayloadFromBuffer(buf.Bytes(), mp4io.PVAT)
	require.NoError(t, err)
	trailer, err := mp4io.ParsePVAT(payload)
	require.NoError(t, err)
	require.Equal(t, videoatoms.Product(0x0902), trailer.Product)
}

func TestReadPVATCorrupt(t *testing.T) {
	t.Parallel()

	path := writeFile(t, mp4io.BuildEmpty(mp4io.MOOV), mp4io.BuildFromData(mp4io.PVAT, []byte("{broken")))
	_, err := ReadPVAT(path)
	require.Error(t, err)
}
