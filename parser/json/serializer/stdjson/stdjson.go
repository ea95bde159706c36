package stdjson

import (
	"bytes"
	"encoding/json"

	"github.com/tomruk/socket.io-mock/parser/json/serializer"
)

type stdjsonSerializer struct{}

func (s stdjsonSerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	e := json.NewEncoder(&buf)
	e.SetEscapeHTML(false)
	err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	// Remove newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func (s stdjsonSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func New() serializer.JSONSerializer {
	return stdjsonSerializer{}
}
