package block

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

var entityPattern = regexp.MustCompile(`^&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)

// Escape converts & < > " and ' to HTML entities. Entities already present
// in the input are kept as they are, so escaping twice is harmless.
func Escape(value any) template.HTML {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
	case template.HTML:
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if entity := entityPattern.FindString(s[i:]); entity != "" {
				b.WriteString(entity)
				i += len(entity) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteByte(c)
		}
	}
	return template.HTML(b.String())
}
