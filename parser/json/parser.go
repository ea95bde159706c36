package jsonparser

import (
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/parser/json/serializer"
	"github.com/tomruk/socket.io-mock/parser/json/serializer/gojson"
)

// maxAttachments is the maximum number of the binary attachments to parse/send.
// If maxAttachments is 0, there will be no limit set for binary attachments.
//
// If json is nil, go-json is used.
func NewCreator(maxAttachments int, json serializer.JSONSerializer) parser.Creator {
	if json == nil {
		json = gojson.New(nil, nil)
	}
	return func() parser.Parser {
		return &Parser{
			maxAttachments: maxAttachments,
			json:           json,
		}
	}
}

// Parser is both the encoder and the decoder of a single endpoint.
// It is not safe for concurrent use.
type Parser struct {
	r              *reconstructor
	maxAttachments int
	json           serializer.JSONSerializer
}

func (p *Parser) Reset() {
	p.r = nil
}
