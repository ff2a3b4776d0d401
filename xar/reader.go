package xar

import (
	"context"
	"io"

	"go.chromium.org/luci/common/logging"

	"github.com/riannucci/xar/xar/xarfmt"
)

// ArchiveReader is the read capability Open needs: random-access windows
// into an existing archive's bytes.
type ArchiveReader interface {
	io.ReaderAt
}

// OpenedTOC is the result of Open: the parsed header and the TOC's raw XML
// text, verified against the stored checksum. Extraction of file payloads
// is out of scope — see spec.md §4.9.
type OpenedTOC struct {
	Header xarfmt.Header
	TOCXML string
}

// Open implements the Archive Reader (partial): it parses the header,
// reads and verifies the TOC checksum, decompresses the TOC, and returns
// it as UTF-8 text. It never reads or verifies file payloads.
func Open(ctx context.Context, r ArchiveReader) (*OpenedTOC, error) {
	headerBuf, err := readExact(r, 0, xarfmt.HeaderSize)
	if err != nil {
		return nil, err
	}

	header, err := xarfmt.DecodeHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	if header.ChecksumAlgorithm != xarfmt.ChecksumSHA1 {
		return nil, xarfmt.New(xarfmt.KindUnsupportedChecksumAlgo,
			"checksum algorithm id %d is not supported (only SHA-1/%d)",
			header.ChecksumAlgorithm, xarfmt.ChecksumSHA1)
	}

	tocCompressed, err := readExact(r, int64(header.HeaderSize), int(header.CompressedTOCLength))
	if err != nil {
		return nil, err
	}

	storedChecksum, err := readExact(r, int64(header.HeaderSize)+int64(header.CompressedTOCLength), xarfmt.DigestSize)
	if err != nil {
		return nil, err
	}

	actual := xarfmt.Digest(tocCompressed)
	if !digestEqual(actual, storedChecksum) {
		return nil, xarfmt.New(xarfmt.KindChecksumMismatch,
			"computed TOC checksum does not match the stored one")
	}

	tocXML, err := xarfmt.Decompress(tocCompressed)
	if err != nil {
		return nil, err
	}

	if uint64(len(tocXML)) != header.UncompressedTOCLength {
		return nil, xarfmt.New(xarfmt.KindTocLengthMismatch,
			"decompressed TOC is %d bytes, header declares %d", len(tocXML), header.UncompressedTOCLength)
	}

	logging.Debugf(ctx, "xar: opened archive, TOC is %d bytes compressed / %d uncompressed",
		header.CompressedTOCLength, header.UncompressedTOCLength)

	return &OpenedTOC{Header: header, TOCXML: string(tocXML)}, nil
}

func digestEqual(a [xarfmt.DigestSize]byte, b []byte) bool {
	if len(b) != len(a) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
