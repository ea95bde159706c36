//go:build amd64 && (linux || windows || darwin)

package sonic

import (
	"github.com/bytedance/sonic"
	"github.com/tomruk/socket.io-mock/parser/json/serializer"
)

type Config = sonic.Config

type sonicSerializer struct {
	api sonic.API
}

func (s *sonicSerializer) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

func (s *sonicSerializer) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

func DefaultConfig() Config {
	return Config{
		// Decoded arguments are handed to listeners that may keep them.
		CopyString: true,
		// Same output as JSON.stringify for []byte-free values.
		EscapeHTML: false,
		// Placeholder numbering and test logs rely on a stable key order.
		SortMapKeys: true,
	}
}

func New(config Config) serializer.JSONSerializer {
	return &sonicSerializer{api: config.Froze()}
}
