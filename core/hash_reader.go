package core

import (
	"hash"
	"io"
)

// HashReader feeds everything read through it into each of its hashes, so
// several digests are computed in a single pass over the source.
type HashReader struct {
	io.Reader
	hashes []hash.Hash
}

func NewHashReader(source io.Reader, targets ...hash.Hash) *HashReader {
	return &HashReader{Reader: source, hashes: targets}
}

func (this *HashReader) Read(buffer []byte) (int, error) {
	count, err := this.Reader.Read(buffer)
	for _, target := range this.hashes {
		_, _ = target.Write(buffer[0:count])
	}
	return count, err
}
