package raster

import "strings"

var entities = strings.NewReplacer("&copy;", "©", "&amp;", "&", "&nbsp;", " ")

// plainAttribution strips markup from a tile attribution.
func plainAttribution(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(entities.Replace(b.String()))
}
