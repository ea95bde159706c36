package eio

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"sync"
)

const Base64IDSize = 15

var (
	errBase64IDInvalidSize = fmt.Errorf("base64 ID generation failed: invalid size")

	base64IDMu  sync.Mutex
	base64IDSeq uint32 = 0 // Sequence number to prevent sid overlaps.
)

func GenerateBase64ID(size int) (string, error) {
	if size <= 4 {
		return "", errBase64IDInvalidSize
	}

	base64IDMu.Lock()
	seq := base64IDSeq
	base64IDSeq++
	base64IDMu.Unlock()

	b := make([]byte, size)
	seqOffset := size - 4

	binary.BigEndian.PutUint32(b[seqOffset:], seq)

	_, err := rand.Read(b[:seqOffset])
	if err != nil {
		return "", err
	}

	encoded := base64.URLEncoding.EncodeToString(b)
	return encoded, nil
}

// GenerateSID returns a session ID in the format Engine.IO servers use.
func GenerateSID() (string, error) {
	return GenerateBase64ID(Base64IDSize)
}
