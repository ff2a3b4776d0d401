package xar

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/riannucci/xar/xar/tree"
	"github.com/riannucci/xar/xar/xarfmt"
)

func genArchive(t *testing.T) []byte {
	t.Helper()
	roots := []*tree.FileNode{tree.File("a.txt", "a.txt", 5)}
	provider := providerFor(map[string]string{"a.txt": "hello"})
	var buf bytes.Buffer
	if err := Generate(context.Background(), &buf, roots, nil, provider); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	t.Parallel()

	Convey("Open", t, func() {
		Convey("succeeds on a well-formed archive", func() {
			data := genArchive(t)
			opened, err := Open(context.Background(), bytes.NewReader(data))
			So(err, ShouldBeNil)
			So(opened.TOCXML, ShouldContainSubstring, "<xar>")
		})

		Convey("fails with ChecksumMismatch when the TOC checksum is corrupted", func() {
			data := genArchive(t)
			header, err := xarfmt.DecodeHeader(data[:xarfmt.HeaderSize])
			So(err, ShouldBeNil)

			checksumOffset := int(header.HeaderSize) + int(header.CompressedTOCLength)
			corrupted := append([]byte{}, data...)
			corrupted[checksumOffset] ^= 0xFF

			_, err = Open(context.Background(), bytes.NewReader(corrupted))
			So(err, ShouldNotBeNil)
			xerr, ok := err.(*xarfmt.Error)
			So(ok, ShouldBeTrue)
			So(xerr.Kind, ShouldEqual, xarfmt.KindChecksumMismatch)
		})

		Convey("fails with InvalidMagic on a bad header", func() {
			data := genArchive(t)
			corrupted := append([]byte{}, data...)
			corrupted[0] = 0

			_, err := Open(context.Background(), bytes.NewReader(corrupted))
			So(err, ShouldNotBeNil)
			xerr, ok := err.(*xarfmt.Error)
			So(ok, ShouldBeTrue)
			So(xerr.Kind, ShouldEqual, xarfmt.KindInvalidMagic)
		})

		Convey("fails with UnsupportedChecksumAlgo when the algorithm id isn't SHA-1", func() {
			data := genArchive(t)
			corrupted := append([]byte{}, data...)
			// ChecksumAlgorithm is the last 4 bytes of the header.
			corrupted[xarfmt.HeaderSize-1] = 2

			_, err := Open(context.Background(), bytes.NewReader(corrupted))
			So(err, ShouldNotBeNil)
			xerr, ok := err.(*xarfmt.Error)
			So(ok, ShouldBeTrue)
			So(xerr.Kind, ShouldEqual, xarfmt.KindUnsupportedChecksumAlgo)
		})

		Convey("fails when the archive is truncated before the header ends", func() {
			data := genArchive(t)[:10]
			_, err := Open(context.Background(), bytes.NewReader(data))
			So(err, ShouldNotBeNil)
		})
	})
}
