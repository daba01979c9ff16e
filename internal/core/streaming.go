package core

// streaming.go cleans up raw text input before a text decoder reads it:
//
//   - BOMSkippingReader: Removes the UTF-8 BOM (0xEF 0xBB 0xBF) from Windows exports
//   - UTF8Sanitizer: Replaces invalid UTF-8 bytes with '?'
//
// Use WrapForDecoding to apply both in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader  *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.reader.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.reader.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.reader.Read(p)
}

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'.
// Multi-byte sequences split across reads are carried to the next read, and
// sanitized bytes that do not fit the caller's buffer are kept for the next
// call.
type UTF8Sanitizer struct {
	reader  io.Reader
	buf     []byte
	pending []byte // incomplete sequence from the previous fill
	out     []byte // sanitized bytes not yet returned
	err     error
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill(len(p))
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads up to size bytes from the source and sanitizes them into out.
func (s *UTF8Sanitizer) fill(size int) {
	size = max(size, utf8.UTFMax) + len(s.pending)
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	buf := s.buf[:size]

	offset := copy(buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.reader.Read(buf[offset:])
	s.err = err
	data := buf[:offset+n]

	write := 0
	for read := 0; read < len(data); {
		r, width := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && width <= 1 {
			// Possibly the start of a sequence cut off by the buffer boundary
			if err == nil && !utf8.FullRune(data[read:]) {
				s.pending = append(s.pending, data[read:]...)
				break
			}
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+width])
		write += width
		read += width
	}
	s.out = data[:write]
}

// WrapForDecoding strips the BOM first, then sanitizes UTF-8.
func WrapForDecoding(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}
