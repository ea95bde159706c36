package sio

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeArg maps a decoded event argument (a JSON value such as
// map[string]any or []any) onto v, which must be a pointer.
// Struct fields are matched by their `json` tag.
func DecodeArg(arg any, v any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           v,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("sio: DecodeArg: %w", err)
	}
	return d.Decode(arg)
}
