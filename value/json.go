package value

import (
	"encoding/base64"
	"encoding/json"
)

// ToJSON renders v for the REPL's `:dump` command and for test fixtures.
// It is a debugging convenience, not part of the Value CRUD contract: the
// teacher reaches for encoding/json directly wherever it needs to render a
// dynamic value (codegen/builtin_fs.go, codegen/builtin_string.go), never a
// third-party JSON library, so we follow suit here.
func ToJSON(v Value) (string, error) {
	b, err := json.Marshal(toInterface(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toInterface(v Value) interface{} {
	switch v.tag {
	case TagBytes:
		// Bytes may not be valid UTF-8; base64 keeps the dump lossless.
		if isValidUTF8(v.bytes) {
			return string(v.bytes)
		}
		return base64.StdEncoding.EncodeToString(v.bytes)
	case TagRegex:
		return v.regex.Source
	case TagInteger:
		return v.i
	case TagFloat:
		return v.f
	case TagBoolean:
		return v.b
	case TagTimestamp:
		return v.ts
	case TagObject:
		m := make(map[string]interface{}, v.obj.Len())
		for _, k := range v.obj.Keys() {
			child, _ := v.obj.Get(k)
			m[k] = toInterface(child)
		}
		return m
	case TagArray:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = toInterface(e)
		}
		return out
	default:
		return nil
	}
}

func isValidUTF8(b []byte) bool {
	for i := 0; i < len(b); {
		r := b[i]
		if r < 0x80 {
			i++
			continue
		}
		size := 0
		switch {
		case r&0xE0 == 0xC0:
			size = 2
		case r&0xF0 == 0xE0:
			size = 3
		case r&0xF8 == 0xF0:
			size = 4
		default:
			return false
		}
		if i+size > len(b) {
			return false
		}
		for j := 1; j < size; j++ {
			if b[i+j]&0xC0 != 0x80 {
				return false
			}
		}
		i += size
	}
	return true
}
