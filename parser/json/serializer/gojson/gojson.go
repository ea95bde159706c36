package gojson

import (
	"github.com/goccy/go-json"
	"github.com/tomruk/socket.io-mock/parser/json/serializer"
)

type gojsonSerializer struct {
	encodeOptions []json.EncodeOptionFunc
	decodeOptions []json.DecodeOptionFunc
}

func (s *gojsonSerializer) Marshal(v any) ([]byte, error) {
	return json.MarshalWithOption(v, s.encodeOptions...)
}

func (s *gojsonSerializer) Unmarshal(data []byte, v any) error {
	return json.UnmarshalWithOption(data, v, s.decodeOptions...)
}

func DefaultEncodeOptions() []json.EncodeOptionFunc {
	return []json.EncodeOptionFunc{json.DisableHTMLEscape()}
}

// New returns a go-json serializer. Nil encodeOptions means DefaultEncodeOptions.
func New(encodeOptions []json.EncodeOptionFunc, decodeOptions []json.DecodeOptionFunc) serializer.JSONSerializer {
	if encodeOptions == nil {
		encodeOptions = DefaultEncodeOptions()
	}
	return &gojsonSerializer{
		encodeOptions: encodeOptions,
		decodeOptions: decodeOptions,
	}
}
