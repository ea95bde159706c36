package jsonparser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tomruk/socket.io-mock/parser"
)

var (
	errInvalidPacketSize   = fmt.Errorf("parser/json: invalid packet size")
	errMalformedPacket     = fmt.Errorf("parser/json: malformed packet")
	errInvalidPayload      = fmt.Errorf("parser/json: invalid payload")
	errUnexpectedBinary    = fmt.Errorf("parser/json: got binary data when not reconstructing a packet")
	errUnexpectedPlaintext = fmt.Errorf("parser/json: got plaintext data when reconstructing a packet")
	errNegativeAttachments = fmt.Errorf("parser/json: invalid number of attachments")
)

// Add feeds a chunk into the decoder. Text chunks start a new packet;
// binary chunks are attachments of the packet currently being
// reconstructed. On error the decoder is reset.
func (p *Parser) Add(data []byte, isBinary bool) (result parser.Result, err error) {
	defer func() {
		if err != nil {
			p.r = nil
		}
	}()

	if isBinary {
		if p.r == nil {
			return parser.Incomplete(), errUnexpectedBinary
		}
		if !p.r.addBuffer(data) {
			return parser.Incomplete(), nil
		}
		r := p.r
		p.r = nil
		packet, err := r.reconstruct()
		if err != nil {
			return parser.Incomplete(), err
		}
		return parser.Complete(packet), nil
	}

	if p.r != nil {
		return parser.Incomplete(), errUnexpectedPlaintext
	}

	header, buf, err := p.parseHeader(data)
	if err != nil {
		return parser.Incomplete(), err
	}

	v, err := p.parsePayload(header, buf)
	if err != nil {
		return parser.Incomplete(), err
	}

	if header.IsBinary() && header.Attachments > 0 {
		if p.maxAttachments > 0 && header.Attachments > p.maxAttachments {
			return parser.Incomplete(), errMaxAttachmentsExceeded
		}
		p.r = &reconstructor{
			header:    *header,
			data:      v,
			remaining: header.Attachments,
		}
		return parser.Incomplete(), nil
	}

	return parser.Complete(&parser.Packet{Header: *header, Data: v}), nil
}

func (p *Parser) parseHeader(data []byte) (header *parser.PacketHeader, buf []byte, err error) {
	if len(data) < 1 {
		err = errInvalidPacketSize
		return
	}

	header = new(parser.PacketHeader)

	err = header.Type.FromChar(data[0])
	if err != nil {
		return
	}
	data = data[1:]

	// If packet type is binary, look up attachments
	if header.IsBinary() {
		i := bytes.IndexByte(data, '-')
		if i == -1 {
			err = errMalformedPacket
			return
		}

		attachments, err := strconv.Atoi(string(data[:i]))
		if err != nil || attachments < 0 {
			return nil, nil, errNegativeAttachments
		}

		header.Attachments = attachments
		data = data[i+1:]
	}

	// Look up namespace
	if len(data) >= 1 && data[0] == '/' {
		i := bytes.IndexByte(data, ',')
		if i == -1 {
			header.Namespace = string(data)
			data = nil
		} else {
			header.Namespace = string(data[:i])
			data = data[i+1:]
		}
	} else {
		header.Namespace = parser.DefaultNamespace
	}

	// Look up ID
	if len(data) >= 1 && data[0] >= '0' && data[0] <= '9' {
		i := 0
		for ; i < len(data); i++ {
			if data[i] < '0' || data[i] > '9' {
				break
			}
		}

		num, err := strconv.ParseUint(string(data[:i]), 10, 64)
		if err != nil {
			return nil, nil, err
		}
		header.ID = &num
		data = data[i:]
	}

	buf = data
	return
}

func (p *Parser) parsePayload(header *parser.PacketHeader, buf []byte) (v any, err error) {
	if len(buf) != 0 {
		err = p.json.Unmarshal(buf, &v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
		}
	}

	if !isPayloadValid(header.Type, v) {
		return nil, errInvalidPayload
	}
	return
}

func isPayloadValid(t parser.PacketType, v any) bool {
	switch t {
	case parser.PacketTypeConnect:
		_, ok := v.(map[string]any)
		return v == nil || ok
	case parser.PacketTypeDisconnect:
		return v == nil
	case parser.PacketTypeConnectError:
		switch v.(type) {
		case string, map[string]any:
			return true
		}
		return false
	case parser.PacketTypeEvent, parser.PacketTypeBinaryEvent:
		data, ok := v.([]any)
		if !ok || len(data) == 0 {
			return false
		}
		switch data[0].(type) {
		case string, float64:
			return true
		}
		return false
	case parser.PacketTypeAck, parser.PacketTypeBinaryAck:
		_, ok := v.([]any)
		return ok
	}
	return false
}
