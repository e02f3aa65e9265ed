package mp4io

import "github.com/ugparu/videoatoms/utils/bits/pio"

// BuildVideoMediaInfo builds vmhd with the copy graphics mode.
func BuildVideoMediaInfo() []byte {
	b := make([]byte, 12)
	pio.PutU24BE(b[1:], 1)
	return BuildFromData(VMHD, b)
}

// BuildDataInfo builds dinf holding a dref with one self-contained url entry.
func BuildDataInfo() ([]byte, error) {
	url := make([]byte, 4)
	pio.PutU24BE(url[1:], 1)
	dref := make([]byte, 8)
	pio.PutU32BE(dref[4:], 1)
	dref = append(dref, BuildFromData(URL, url)...)
	return BuildContainer(DINF, BuildFromData(DREF, dref))
}
