// Copyright (c) 2018 Josh Varga
// Original C version: Copyright (C) 2003, 2012, 2013 Mark Adler
//
// This software is provided 'as-is', without any express or implied
// warranty. In no event will the authors be held liable for any damages
// arising from the use of this software.
//
// Permission is granted to anyone to use this software for any purpose,
// including commercial applications, and to alter it and redistribute it
// freely, subject to the following restrictions:
//
// 1. The origin of this software must not be misrepresented; you must not
//    claim that you wrote the original software. If you use this software
//    in a product, an acknowledgment in the product documentation would be
//    appreciated but is not required.
// 2. Altered source versions must be plainly marked as such, and must not be
//    misrepresented as being the original software.
// 3. This notice may not be removed or altered from any source distribution.

package inflate

import (
	"bytes"
	"io"
)

// reader is an io.ReadCloser that serves the fully-decoded output of a
// single DEFLATE stream: the whole stream is inflated eagerly, then
// served out through Read.
type reader struct {
	data   []byte
	pos    int
	result Result
}

// NewReader decompresses all of r (a raw DEFLATE stream, no container
// framing) and returns an io.ReadCloser over the result. It is the
// caller's responsibility to call Close on the ReadCloser when done.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	var buf bytes.Buffer
	res, err := NewDecoder().Decode(newReaderInput(r), newWriterOutput(&buf))
	if err != nil {
		return nil, err
	}
	return &reader{data: buf.Bytes(), result: res}, nil
}

func (r *reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *reader) Close() error { return nil }

// Result reports the bytes-consumed and CRC-32 totals for the stream
// this reader served.
func (r *reader) Result() Result { return r.result }

// DecodeBuffer decompresses a complete in-memory DEFLATE stream held in
// a single buffer and writes the output to w.
func DecodeBuffer(compressed []byte, w io.Writer) (Result, error) {
	return NewDecoder().Decode(NewOneShotInput(compressed), newWriterOutput(w))
}
