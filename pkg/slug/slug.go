package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// letters that do not decompose into base + combining mark under NFD
var foldReplacer = strings.NewReplacer("ı", "i", "ø", "o", "ß", "ss", "æ", "ae", "đ", "d", "ł", "l")

// Generate builds a URL-safe slug from a display name:
//
//	"USB-C Hub (7-in-1)" -> "usb-c-hub-7-in-1"
//	"Çocuk Ürünleri"     -> "cocuk-urunleri"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = foldReplacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
