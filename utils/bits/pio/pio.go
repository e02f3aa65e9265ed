// Package pio provides big-endian field access for binary container formats.
package pio

import "encoding/binary"

// RecommendBufioSize is the buffer size used when wrapping writers in bufio.
const RecommendBufioSize = 1024 * 64

var hostBigEndian = binary.NativeEndian.Uint16([]byte{0x00, 0x01}) == 0x0001

func U8(b []byte) uint8 {
	return b[0]
}

func U16BE(b []byte) uint16 {
	return uint16(b[1]) | uint16(b[0])<<8
}

func I16BE(b []byte) int16 {
	return int16(U16BE(b))
}

func U24BE(b []byte) uint32 {
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16
}

func U32BE(b []byte) uint32 {
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func I32BE(b []byte) int32 {
	return int32(U32BE(b))
}

func U64BE(b []byte) uint64 {
	return uint64(U32BE(b[4:])) | uint64(U32BE(b))<<32
}

func I64BE(b []byte) int64 {
	return int64(U64BE(b))
}

func PutU8(b []byte, v uint8) {
	b[0] = v
}

func PutU16BE(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func PutI16BE(b []byte, v int16) {
	PutU16BE(b, uint16(v))
}

func PutU24BE(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func PutU32BE(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func PutI32BE(b []byte, v int32) {
	PutU32BE(b, uint32(v))
}

func PutU64BE(b []byte, v uint64) {
	PutU32BE(b, uint32(v>>32))
	PutU32BE(b[4:], uint32(v))
}

// SwapU64 reverses the byte order of v.
func SwapU64(v uint64) uint64 {
	v = (v&0x00000000ffffffff)<<32 | (v&0xffffffff00000000)>>32
	v = (v&0x0000ffff0000ffff)<<16 | (v&0xffff0000ffff0000)>>16
	v = (v&0x00ff00ff00ff00ff)<<8 | (v&0xff00ff00ff00ff00)>>8
	return v
}

// NtoHU64 converts a 64-bit value loaded in network order to host order.
func NtoHU64(v uint64) uint64 {
	if hostBigEndian {
		return v
	}
	return SwapU64(v)
}

// HtoNU64 converts a 64-bit host value to network order.
func HtoNU64(v uint64) uint64 {
	return NtoHU64(v)
}
