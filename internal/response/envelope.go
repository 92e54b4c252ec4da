package response

import (
	"github.com/ohler55/ojg/jp"
)

var (
	bodyPath = jp.MustParseString("$.response.response.body")
	dataPath = jp.MustParseString("$.data")
)

// Unwrap extracts the payload from a Ruuter envelope
// (response.response.body, then its data member when present). Data that
// is not wrapped is returned unchanged.
func Unwrap(data any) any {
	body := bodyPath.First(data)
	obj, ok := body.(map[string]any)
	if !ok {
		return data
	}
	if _, has := obj["data"]; has {
		return dataPath.First(obj)
	}
	return obj
}
