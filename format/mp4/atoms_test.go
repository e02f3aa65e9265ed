package mp4

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/videoatoms/format/mp4/mp4io"
	"github.com/ugparu/videoatoms/utils"
)

func writeFile(t *testing.T, parts ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.mp4")
	require.NoError(t, os.WriteFile(path, bytes.Join(parts, nil), 0o600))
	return path
}

func TestReadAtomFromAnyCursor(t *testing.T) {
	t.Parallel()

	file := bytes.Join([][]byte{
		mp4io.NewFileType().Marshal(),
		mp4io.BuildFromData(mp4io.MDAT, mp4io.BuildFromData(mp4io.UDTA, []byte("inside"))),
		mp4io.BuildFromData(mp4io.UDTA, []byte("outside")),
	}, nil)
	r := bytes.NewReader(file)
	_, err := r.Seek(20, io.SeekStart)
	require.NoError(t, err)

	payload, err := ReadAtom(r, mp4io.UDTA)
	require.NoError(t, err)
	require.Equal(t, []byte("outside"), payload)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(len(file)), pos)
}

func TestExtractAtom(t *testing.T) {
	t.Parallel()

	path := writeFile(t,
		mp4io.NewFileType().Marshal(),
		mp4io.BuildFromData(mp4io.MDAT, []byte{1, 2, 3}),
		mp4io.BuildFromData(mp4io.MOOV, []byte("movie")),
	)

	payload, err := ExtractAtom(path, mp4io.MOOV)
	require.NoError(t, err)
	require.Equal(t, []byte("movie"), payload)

	require.Equal(t, []byte{1, 2, 3}, GetAtom(path, "mdat"))
	require.Nil(t, GetAtom(path, "pvat"))
	require.Nil(t, GetAtom(path, "moovXYZ"))
	require.Nil(t, GetAtom(path, "moo"))
	require.Nil(t, GetAtom(filepath.Join(t.TempDir(), "missing.mp4"), "moov"))

	_, err = ExtractAtom(path, mp4io.PVAT)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestExtractAtomTruncatedFile(t *testing.T) {
	t.Parallel()

	moov := mp4io.BuildFromData(mp4io.MOOV, []byte("movie header"))
	path := writeFile(t, mp4io.NewFileType().Marshal(), moov[:len(moov)-4])

	_, err := ExtractAtom(path, mp4io.MOOV)
	var truncated *utils.TruncatedError
	require.ErrorAs(t, err, &truncated)
	require.Nil(t, GetAtom(path, "moov"))
}

func TestFPSFromFileSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "garbage", input: []byte("definitely not a movie")},
		{name: "no_moov", input: mp4io.NewFileType().Marshal()},
		{name: "empty_moov", input: mp4io.BuildEmpty(mp4io.MOOV)},
		{name: "moov_inside_mdat", input: mp4io.BuildFromData(mp4io.MDAT, mp4io.BuildEmpty(mp4io.MOOV))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Zero(t, FPSFromFile(bytes.NewReader(tt.input)))
		})
	}

	require.Zero(t, FPSFromPath(filepath.Join(t.TempDir(), "missing.mp4")))
}
