package mp4io

import "github.com/ugparu/videoatoms/utils/bits/pio"

var (
	HandlerVideo = StringToTag("vide")
	HandlerSound = StringToTag("soun")
	HandlerData  = StringToTag("dhlr")
	HandlerMedia = StringToTag("mhlr")
	HandlerAlias = StringToTag("alis")
)

// HandlerRefer is the hdlr atom naming the kind of media a track carries.
type HandlerRefer struct {
	Version     uint8
	Flags       uint32
	PreDefined  Tag
	HandlerType Tag
	Name        string
}

func (hdlr HandlerRefer) Marshal() []byte {
	b := make([]byte, 24+len(hdlr.Name)+1)
	n := 0
	pio.PutU8(b[n:], hdlr.Version)
	n += 1
	pio.PutU24BE(b[n:], hdlr.Flags)
	n += 3
	pio.PutU32BE(b[n:], uint32(hdlr.PreDefined))
	n += 4
	pio.PutU32BE(b[n:], uint32(hdlr.HandlerType))
	n += 4
	n += 12 // reserved
	copy(b[n:], hdlr.Name)
	return BuildFromData(HDLR, b)
}

// BuildDataHandler builds the minf hdlr resolving data references through aliases.
func BuildDataHandler() []byte {
	return HandlerRefer{
		PreDefined:  HandlerData,
		HandlerType: HandlerAlias,
		Name:        "DataHandler",
	}.Marshal()
}

// handlerType reads the handler type of the hdlr child of an mdia payload.
func handlerType(mdia []byte) (Tag, bool) {
	hdlr, ok := findPath(mdia, HDLR)
	if !ok || len(hdlr) < 12 {
		return 0, false
	}
	return Tag(pio.U32BE(hdlr[8:])), true
}
