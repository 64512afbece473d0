package path

import "strings"

// needsQuoting reports whether name must be double-quoted to round-trip
// through Serialize: spec §4.1 quotes any name containing a byte outside
// [A-Za-z0-9_@] (note: '-' is accepted by the unquoted-field lexer but is
// still always quoted on the way out, matching the worked example
// `"availability-zone"` in §8).
func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
			continue
		case b == '_' || b == '@':
			continue
		default:
			return true
		}
	}
	return false
}

func quoteField(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// Serialize renders an owned Path back to its canonical dotted-and-indexed
// string form. The empty path serializes to "" and denotes the root.
func Serialize(p Path) string {
	var b strings.Builder
	first := true
	for _, seg := range p.segments {
		switch seg.Kind {
		case Field:
			if !first {
				b.WriteByte('.')
			}
			if seg.NeedsQuoting || needsQuoting(seg.Name) {
				b.WriteString(quoteField(seg.Name))
			} else {
				b.WriteString(seg.Name)
			}
		case Index:
			b.WriteByte('[')
			writeInt(&b, seg.Idx)
			b.WriteByte(']')
		case Coalesce:
			if !first {
				b.WriteByte('.')
			}
			b.WriteByte('(')
			for i, name := range seg.Names {
				if i > 0 {
					b.WriteByte('|')
				}
				if needsQuoting(name) {
					b.WriteString(quoteField(name))
				} else {
					b.WriteString(name)
				}
			}
			b.WriteByte(')')
		default: // Invalid
			if !first {
				b.WriteByte('.')
			}
			b.WriteString("<invalid>")
		}
		first = false
	}
	return b.String()
}

func writeInt(b *strings.Builder, n int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	if n == 0 {
		b.WriteByte('0')
		return
	}
	var digits [20]byte
	pos := len(digits)
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	b.Write(digits[pos:])
}
