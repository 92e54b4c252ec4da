package response

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// RawJSON renders v as indented JSON with sorted keys.
func RawJSON(v any) string {
	return oj.JSON(v, &ojg.Options{Indent: 2, Sort: true})
}

// Parse decodes a JSON document such as a saved sample response.
func Parse(data []byte) (any, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return v, nil
}

// Size describes the encoded size of v, e.g. "1.2 kB".
func Size(v any) string {
	return humanize.Bytes(uint64(len(oj.JSON(v))))
}
