package bitmap

import (
	"errors"
	"io"
)

// readChunkSize is the size of each read from the source stream.
const readChunkSize = 1024

// rawBuffer accumulates an encoded image of unknown length. Capacity grows to
// twice the required size whenever a chunk would not fit, so appends are
// amortized linear. count never exceeds len(data).
type rawBuffer struct {
	data  []byte
	count int
}

func (b *rawBuffer) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if b.count+len(p) > len(b.data) {
		grown := make([]byte, (b.count+len(p))*2)
		copy(grown, b.data[:b.count])
		b.data = grown
	}
	copy(b.data[b.count:], p)
	b.count += len(p)
}

// Len returns the number of bytes written.
func (b *rawBuffer) Len() int {
	return b.count
}

// Cap returns the allocated capacity.
func (b *rawBuffer) Cap() int {
	return len(b.data)
}

// Bytes returns the written bytes. The slice aliases the buffer.
func (b *rawBuffer) Bytes() []byte {
	return b.data[:b.count]
}

// drain reads r until EOF into a new rawBuffer.
func drain(r io.Reader) (*rawBuffer, error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}

	buf := &rawBuffer{}
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
