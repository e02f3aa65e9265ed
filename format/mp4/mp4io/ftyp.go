package mp4io

import "github.com/ugparu/videoatoms/utils/bits/pio"

const defaultMinorVersion = 0x200

type FileType struct {
	MajorBrand       Tag
	MinorVersion     uint32
	CompatibleBrands []Tag
}

func NewFileType() *FileType {
	return &FileType{
		MajorBrand:   StringToTag("isom"),
		MinorVersion: defaultMinorVersion,
		CompatibleBrands: []Tag{
			StringToTag("isom"),
			StringToTag("iso2"),
			StringToTag("avc1"),
			StringToTag("mp41"),
		},
	}
}

func (f *FileType) Marshal() []byte {
	payload := make([]byte, 8+4*len(f.CompatibleBrands))
	pio.PutU32BE(payload, uint32(f.MajorBrand))
	pio.PutU32BE(payload[4:], f.MinorVersion)
	for i, brand := range f.CompatibleBrands {
		pio.PutU32BE(payload[8+4*i:], uint32(brand))
	}
	return BuildFromData(FTYP, payload)
}

func (f *FileType) Unmarshal(payload []byte) error {
	if len(payload) < 8 {
		return parseErr("MajorBrand", 0, nil)
	}
	f.MajorBrand = Tag(pio.U32BE(payload))
	f.MinorVersion = pio.U32BE(payload[4:])
	f.CompatibleBrands = f.CompatibleBrands[:0]
	for n := 8; n+4 <= len(payload); n += 4 {
		f.CompatibleBrands = append(f.CompatibleBrands, Tag(pio.U32BE(payload[n:])))
	}
	return nil
}
