package types

import (
	"fmt"
	"strings"
)

// arrayCodec covers N-dimensional arrays of any element type whose codec
// is registered (§4.2). The native value is a nested []any, innermost
// elements are the element codec's native value or nil for NULL (§8
// scenario 6: "{{1,2},{3,NULL}}" as INT4[][]).
//
// Binary layout (§4.2):
// {ndim:int32, has_nulls:int32, element_oid:int32,
//  then for each dim {len:int32, lower_bound:int32},
//  then elements in row-major order as length-prefixed blobs}.
type arrayCodec struct {
	oid        Oid
	elementOid Oid
	element    Codec
}

func (c arrayCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c arrayCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	dims, flat, err := flattenArray(v)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		s, err := renderArrayText(v, c.element)
		if err != nil {
			return nil, err
		}
		return append(out, s...), nil
	}

	hasNulls := int32(0)
	for _, el := range flat {
		if el == nil {
			hasNulls = 1
			break
		}
	}
	out = appendInt32Bytes(out, int32(len(dims)))
	out = appendInt32Bytes(out, hasNulls)
	out = appendInt32Bytes(out, int32(c.elementOid))
	for _, d := range dims {
		out = appendInt32Bytes(out, int32(d))
		out = appendInt32Bytes(out, 1) // lower bound, always 1 for values we produce
	}
	for _, el := range flat {
		if el == nil {
			out = appendInt32Bytes(out, -1)
			continue
		}
		elem, err := c.element.Encode(el, FormatBinary, nil)
		if err != nil {
			return nil, err
		}
		out = appendInt32Bytes(out, int32(len(elem)))
		out = append(out, elem...)
	}
	return out, nil
}

func (c arrayCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		v, _, err := parseArrayText(string(data), c.element, 0)
		return v, err
	}
	pos := 0
	ndim, pos, err := readInt32At(data, pos)
	if err != nil {
		return nil, err
	}
	if ndim == 0 {
		return []any{}, nil
	}
	_, pos, err = readInt32At(data, pos) // has_nulls, not needed to reconstruct
	if err != nil {
		return nil, err
	}
	_, pos, err = readInt32At(data, pos) // element_oid
	if err != nil {
		return nil, err
	}
	dims := make([]int, ndim)
	for i := int32(0); i < ndim; i++ {
		l, next, err := readInt32At(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		_, next, err = readInt32At(data, pos) // lower bound
		if err != nil {
			return nil, err
		}
		pos = next
		dims[i] = int(l)
	}
	total := 1
	for _, d := range dims {
		total *= d
	}
	flat := make([]any, total)
	for i := 0; i < total; i++ {
		n, next, err := readInt32At(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if n < 0 {
			flat[i] = nil
			continue
		}
		if len(data) < pos+int(n) {
			return nil, fmt.Errorf("types: array binary value truncated (element)")
		}
		v, err := c.element.Decode(data[pos:pos+int(n)], FormatBinary)
		if err != nil {
			return nil, err
		}
		flat[i] = v
		pos += int(n)
	}
	return nestArray(dims, flat), nil
}

// flattenArray walks a nested []any, validating that every dimension is
// rectangular, and returns the dimension sizes plus the row-major element
// list (nil entries are NULLs).
func flattenArray(v any) (dims []int, flat []any, err error) {
	s, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("types: array codec expects []any, got %T", v)
	}
	dims = append(dims, len(s))
	if len(s) > 0 {
		if _, isSlice := s[0].([]any); isSlice {
			var innerFlat []any
			var innerDims []int
			for i, el := range s {
				d, f, err := flattenArray(el)
				if err != nil {
					return nil, nil, err
				}
				if i == 0 {
					innerDims = d
				} else if !equalDims(d, innerDims) {
					return nil, nil, fmt.Errorf("types: array is not rectangular")
				}
				innerFlat = append(innerFlat, f...)
			}
			dims = append(dims, innerDims...)
			flat = innerFlat
			return dims, flat, nil
		}
	}
	flat = s
	return dims, flat, nil
}

func equalDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// nestArray reconstructs a nested []any of the given dims from a flat,
// row-major element slice.
func nestArray(dims []int, flat []any) []any {
	if len(dims) == 1 {
		out := make([]any, dims[0])
		copy(out, flat)
		return out
	}
	inner := 1
	for _, d := range dims[1:] {
		inner *= d
	}
	out := make([]any, dims[0])
	for i := 0; i < dims[0]; i++ {
		out[i] = nestArray(dims[1:], flat[i*inner:(i+1)*inner])
	}
	return out
}

func renderArrayText(v any, element Codec) (string, error) {
	s, ok := v.([]any)
	if !ok {
		return "", fmt.Errorf("types: array codec expects []any, got %T", v)
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, el := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		switch t := el.(type) {
		case nil:
			b.WriteString("NULL")
		case []any:
			nested, err := renderArrayText(t, element)
			if err != nil {
				return "", err
			}
			b.WriteString(nested)
		default:
			enc, err := element.Encode(t, FormatText, nil)
			if err != nil {
				return "", err
			}
			b.WriteByte('"')
			b.Write(enc)
			b.WriteByte('"')
		}
	}
	b.WriteByte('}')
	return b.String(), nil
}

// parseArrayText parses PostgreSQL's "{...}" array literal, starting at
// s[pos], returning the parsed value and the position just past the
// closing brace.
func parseArrayText(s string, element Codec, pos int) (any, int, error) {
	if pos >= len(s) || s[pos] != '{' {
		return nil, pos, fmt.Errorf("types: invalid array text value %q", s)
	}
	pos++
	var out []any
	for {
		if pos >= len(s) {
			return nil, pos, fmt.Errorf("types: unterminated array text value %q", s)
		}
		if s[pos] == '}' {
			pos++
			if out == nil {
				out = []any{}
			}
			return out, pos, nil
		}
		if s[pos] == ',' {
			pos++
			continue
		}
		if s[pos] == '{' {
			v, next, err := parseArrayText(s, element, pos)
			if err != nil {
				return nil, pos, err
			}
			out = append(out, v)
			pos = next
			continue
		}
		// scalar token, possibly quoted, up to the next ',' or '}'
		start := pos
		quoted := s[pos] == '"'
		if quoted {
			pos++
			for pos < len(s) && s[pos] != '"' {
				pos++
			}
			pos++
		} else {
			for pos < len(s) && s[pos] != ',' && s[pos] != '}' {
				pos++
			}
		}
		token := s[start:pos]
		if token == "NULL" {
			out = append(out, nil)
			continue
		}
		token = strings.Trim(token, `"`)
		v, err := element.Decode([]byte(token), FormatText)
		if err != nil {
			return nil, pos, err
		}
		out = append(out, v)
	}
}

func newArrayCodec(arrayOid, elementOid Oid, element Codec) Codec {
	return arrayCodec{oid: arrayOid, elementOid: elementOid, element: element}
}
