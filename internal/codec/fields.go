package codec

import "bytes"

// packFields encodes values in field order, each terminated by a NUL byte.
func packFields(names []string, values map[string]string) []byte {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(values[name])
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// unpackFields decodes NUL-terminated fields. Missing trailing fields are
// returned as empty strings; surplus fields are ignored.
func unpackFields(names []string, raw []byte) map[string]string {
	values := make(map[string]string, len(names))
	parts := bytes.Split(raw, []byte{0})
	for i, name := range names {
		if i < len(parts) {
			values[name] = string(parts[i])
		} else {
			values[name] = ""
		}
	}
	return values
}

func fieldsEqual(names []string, a, b map[string]string) bool {
	for _, name := range names {
		if a[name] != b[name] {
			return false
		}
	}
	return true
}
