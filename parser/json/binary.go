package jsonparser

import (
	"fmt"
	"sort"

	"github.com/tomruk/socket.io-mock/parser"
)

var (
	errInvalidPlaceholder         = fmt.Errorf("parser/json: invalid placeholder")
	errInvalidPlaceholderNumValue = fmt.Errorf("parser/json: invalid placeholder num value")
)

// Binary marks a byte slice as a binary attachment. Plain []byte values
// are treated the same way when encoding; decoded attachments are always
// of type Binary.
type Binary []byte

const (
	placeholderKey = "_placeholder"
	placeholderNum = "num"
)

func newPlaceholder(num int) map[string]any {
	return map[string]any{placeholderKey: true, placeholderNum: num}
}

func hasBinary(v any) bool {
	switch v := v.(type) {
	case Binary, []byte:
		return true
	case []any:
		for _, el := range v {
			if hasBinary(el) {
				return true
			}
		}
	case map[string]any:
		for _, el := range v {
			if hasBinary(el) {
				return true
			}
		}
	}
	return false
}

// deconstructValue returns a copy of v with every binary value replaced by
// a placeholder. Buffers are appended in placeholder order. Maps are walked
// in sorted key order, matching the order the serializer writes them.
func deconstructValue(v any, buffers *[][]byte) any {
	switch v := v.(type) {
	case Binary:
		return deconstructBinary([]byte(v), buffers)
	case []byte:
		return deconstructBinary(v, buffers)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = deconstructValue(el, buffers)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for _, k := range sortedKeys(v) {
			out[k] = deconstructValue(v[k], buffers)
		}
		return out
	}
	return v
}

func deconstructBinary(b []byte, buffers *[][]byte) any {
	p := newPlaceholder(len(*buffers))
	*buffers = append(*buffers, b)
	return p
}

func countPlaceholders(v any) (n int) {
	switch v := v.(type) {
	case []any:
		for _, el := range v {
			n += countPlaceholders(el)
		}
	case map[string]any:
		if isPlaceholder(v) {
			return 1
		}
		for _, el := range v {
			n += countPlaceholders(el)
		}
	}
	return
}

func isPlaceholder(m map[string]any) bool {
	b, ok := m[placeholderKey].(bool)
	return ok && b && len(m) == 2
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type reconstructor struct {
	header    parser.PacketHeader
	data      any
	buffers   [][]byte
	remaining int
}

func (r *reconstructor) addBuffer(buf []byte) (ok bool) {
	r.buffers = append(r.buffers, buf)
	r.remaining--
	return r.remaining == 0
}

func (r *reconstructor) reconstruct() (*parser.Packet, error) {
	data, err := r.reconstructValue(r.data)
	if err != nil {
		return nil, err
	}
	header := r.header
	header.Attachments = 0
	return &parser.Packet{Header: header, Data: data}, nil
}

func (r *reconstructor) reconstructValue(v any) (any, error) {
	switch v := v.(type) {
	case []any:
		for i, el := range v {
			x, err := r.reconstructValue(el)
			if err != nil {
				return nil, err
			}
			v[i] = x
		}
	case map[string]any:
		if _, ok := v[placeholderKey]; ok {
			if !isPlaceholder(v) {
				return nil, errInvalidPlaceholder
			}
			num, ok := v[placeholderNum].(float64)
			if !ok {
				return nil, errInvalidPlaceholder
			}
			n := int(num)
			if float64(n) != num || n < 0 || n >= len(r.buffers) {
				return nil, errInvalidPlaceholderNumValue
			}
			return Binary(r.buffers[n]), nil
		}
		for k, el := range v {
			x, err := r.reconstructValue(el)
			if err != nil {
				return nil, err
			}
			v[k] = x
		}
	}
	return v, nil
}
