package mp4io

import (
	"bytes"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/ugparu/videoatoms"
	"github.com/ugparu/videoatoms/utils"
)

type pvatPayload struct {
	ProductID string `json:"product_id"`
	MediaDate string `json:"media_date"`
}

// BuildPVAT builds the vendor trailer atom. It is always written at the top level
// after mdat and moov. date must be valid UTF-8.
func BuildPVAT(product videoatoms.Product, date string) ([]byte, error) {
	if !utf8.ValidString(date) {
		return nil, &utils.MalformedError{Tag: PVAT.String(), Reason: "media date is not valid UTF-8"}
	}
	payload, err := json.Marshal(pvatPayload{
		ProductID: product.String(),
		MediaDate: date,
	})
	if err != nil {
		return nil, err
	}
	return BuildFromData(PVAT, payload), nil
}

// ParsePVAT decodes a trailer payload. Trailing NUL bytes written by older
// tools are ignored.
func ParsePVAT(payload []byte) (*videoatoms.Trailer, error) {
	payload = bytes.TrimRight(payload, "\x00")
	var p pvatPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	if p.ProductID == "" {
		return nil, &utils.MalformedError{Tag: PVAT.String(), Reason: "missing product_id"}
	}
	product, err := videoatoms.ParseProduct(p.ProductID)
	if err != nil {
		return nil, err
	}
	return &videoatoms.Trailer{Product: product, Date: p.MediaDate}, nil
}
