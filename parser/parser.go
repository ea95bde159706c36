package parser

const ProtocolVersion = 5

type (
	Creator func() Parser

	Parser interface {
		Encoder
		Decoder
	}

	Encoder interface {
		// Encode returns the text packet followed by its binary attachments.
		Encode(p *Packet) (buffers [][]byte, err error)
	}

	// Decoder reassembles packets from chunks. Each call to Add returns
	// either a complete packet or an incomplete result while binary
	// attachments are still outstanding.
	Decoder interface {
		Add(chunk []byte, isBinary bool) (Result, error)
		Reset()
	}
)

type Result struct {
	Packet *Packet
}

func Incomplete() Result { return Result{} }

func Complete(p *Packet) Result { return Result{Packet: p} }

func (r Result) Complete() bool { return r.Packet != nil }
