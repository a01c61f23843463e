package visitquery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combining is the Combining Diacritical Marks block, U+0300..U+036F.
var combining = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036F, Stride: 1}}}

// Fold decomposes s, drops combining marks and lower-cases the rest, so
// "Çiğdem" and "cigdem" compare equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// transform chains are stateful, one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combining)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
