package xar

import (
	"io"

	"github.com/riannucci/xar/xar/xarfmt"
)

// Writer is the sequential, non-seeking output capability Generate appends
// the archive's bytes to.
type Writer = io.Writer

// FileDataProvider resolves a FileNode's srcPath to a fresh io.Reader
// positioned at offset 0. Generate reads exactly FileData.Size bytes from
// it for each FileEntry.
type FileDataProvider func(srcPath string) (io.Reader, error)

// readExact reads exactly length bytes at offset from r. A length of 0
// returns an empty slice without calling r.ReadAt at all, per the
// empty-read policy: a zero-length read must never fail just because the
// underlying I/O would error on a degenerate request.
func readExact(r io.ReaderAt, offset int64, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindIOError, "reading %d bytes at offset %d", length, offset)
	}
	return buf, nil
}

// readAllFrom reads exactly n bytes from r (a fresh io.Reader positioned at
// offset 0, as FileDataProvider returns), failing with KindInvalidInput if
// fewer bytes are available — the read length must match FileData.Size
// exactly.
func readAllFrom(r io.Reader, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidInput,
			"reading %d declared bytes, got %d", n, read)
	}
	return buf, nil
}
