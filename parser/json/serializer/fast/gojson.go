//go:build !amd64 || (amd64 && !(linux || windows || darwin))

package fast

import (
	"github.com/tomruk/socket.io-mock/parser/json/serializer"
	"github.com/tomruk/socket.io-mock/parser/json/serializer/gojson"
)

func New() serializer.JSONSerializer {
	return gojson.New(nil, nil)
}

func Type() SerializerType {
	return SerializerTypeGoJSON
}
