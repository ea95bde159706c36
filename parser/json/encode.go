package jsonparser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tomruk/socket.io-mock/parser"
)

var (
	errNumBuffers             = fmt.Errorf("parser/json: numBuffers was expected to be equal to len(buffers)")
	errMaxAttachmentsExceeded = fmt.Errorf("parser/json: maximum number of attachments exceeded")
	errNilPacket              = fmt.Errorf("parser/json: nil packet")
)

func (p *Parser) Encode(packet *parser.Packet) ([][]byte, error) {
	if packet == nil {
		return nil, errNilPacket
	}

	// Work on a copy. The caller's header must stay untouched.
	header := packet.Header
	v := packet.Data

	if header.Type == parser.PacketTypeEvent || header.Type == parser.PacketTypeAck {
		if hasBinary(v) {
			if header.Type == parser.PacketTypeEvent {
				header.Type = parser.PacketTypeBinaryEvent
			} else {
				header.Type = parser.PacketTypeBinaryAck
			}

			return p.encodeBinary(&header, v)
		}
	}

	buf, err := p.encodeString(&header, v)
	if err != nil {
		return nil, err
	}
	return [][]byte{buf}, nil
}

func (p *Parser) encodeString(header *parser.PacketHeader, v any) ([]byte, error) {
	var (
		buf  = bytes.Buffer{}
		grow int
	)

	grow += 1  // Packet type
	grow += 2  // Attachments
	grow += 20 // Namespace (Approximate length)
	grow += 20 // Ack ID (Max length)
	buf.Grow(grow)

	buf.WriteByte(header.Type.ToChar())

	if header.IsBinary() {
		buf.WriteString(strconv.Itoa(header.Attachments) + "-")
	}

	if header.Namespace != "" && header.Namespace != parser.DefaultNamespace {
		buf.WriteString(header.Namespace + ",")
	}

	if header.ID != nil {
		buf.WriteString(strconv.FormatUint(*header.ID, 10))
	}

	if v == nil {
		// Omit JSON.
		return buf.Bytes(), nil
	}

	b, err := p.json.Marshal(v)
	if err != nil {
		return nil, err
	}
	buf.Write(b)
	return buf.Bytes(), nil
}

func (p *Parser) encodeBinary(header *parser.PacketHeader, v any) (buffers [][]byte, err error) {
	var attachments [][]byte
	v = deconstructValue(v, &attachments)

	numBuffers := countPlaceholders(v)
	if numBuffers != len(attachments) {
		return nil, errNumBuffers
	}

	if p.maxAttachments > 0 && numBuffers > p.maxAttachments {
		return nil, errMaxAttachmentsExceeded
	}

	header.Attachments = numBuffers

	s, err := p.encodeString(header, v)
	if err != nil {
		return nil, err
	}

	buffers = make([][]byte, 0, 1+len(attachments))
	buffers = append(buffers, s)
	buffers = append(buffers, attachments...)
	return
}
