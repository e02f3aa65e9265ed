// Package videoatoms builds, parses and queries the size-prefixed atom structure of
// QuickTime/MP4 recordings, including the "pvat" trailer appended after the media data.
package videoatoms

import (
	"fmt"
	"strconv"
)

// Product identifies the device model that produced a recording.
type Product uint32

// String returns the product id as hex, zero padded to at least four digits.
func (p Product) String() string {
	return fmt.Sprintf("%04x", uint32(p))
}

// ParseProduct parses a product id written as hex digits.
func ParseProduct(s string) (Product, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return Product(v), nil
}

// Trailer is the vendor metadata carried by a "pvat" atom.
type Trailer struct {
	Product Product // Device model that recorded the file.
	Date    string  // Recording date, usually ISO 8601.
}

// String returns a short description of the trailer.
func (t Trailer) String() string {
	return "PVAT " + t.Product.String() + " " + t.Date
}
