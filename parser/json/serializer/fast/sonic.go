//go:build amd64 && (linux || windows || darwin)

package fast

import (
	"github.com/tomruk/socket.io-mock/parser/json/serializer"
	"github.com/tomruk/socket.io-mock/parser/json/serializer/sonic"
)

func New() serializer.JSONSerializer {
	return sonic.New(sonic.DefaultConfig())
}

func Type() SerializerType {
	return SerializerTypeSonic
}
