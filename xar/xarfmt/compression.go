package xarfmt

import (
	"bytes"
	"compress/flate"
	"io"
)

// Compress deflates data as a raw deflate stream (RFC 1951, no gzip or zlib
// framing) at the given flate level.
//
// xar's TOC advertises this encoding as "application/x-gzip" despite it
// being raw deflate — that misnomer belongs to the TOC Model, not here;
// this function never writes gzip or zlib framing bytes.
func Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, Wrap(err, KindCompressionFailed, "creating deflate writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, Wrap(err, KindCompressionFailed, "writing to deflate stream")
	}
	if err := w.Close(); err != nil {
		return nil, Wrap(err, KindCompressionFailed, "closing deflate stream")
	}
	return buf.Bytes(), nil
}

// Decompress inflates a raw deflate stream produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, Wrap(err, KindCompressionFailed, "reading from deflate stream")
	}
	return out, nil
}
