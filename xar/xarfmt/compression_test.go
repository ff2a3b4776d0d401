package xarfmt

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompression(t *testing.T) {
	t.Parallel()

	Convey("Compress/Decompress", t, func() {
		Convey("round-trips arbitrary data", func() {
			data := bytes.Repeat([]byte("hello world!"), 100)
			compressed, err := Compress(data, 9)
			So(err, ShouldBeNil)
			So(compressed, ShouldNotResemble, data)

			decompressed, err := Decompress(compressed)
			So(err, ShouldBeNil)
			So(decompressed, ShouldResemble, data)
		})

		Convey("never emits gzip or zlib framing", func() {
			compressed, err := Compress([]byte("hello"), 9)
			So(err, ShouldBeNil)
			// gzip magic is 1f 8b; zlib's first byte's low nibble is always 8
			// for the deflate method. Raw deflate blocks begin with a 3-bit
			// header whose low bits vary, but never start with the gzip magic.
			So(compressed[0], ShouldNotEqual, 0x1f)
			So(compressed[0]&0x0f, ShouldNotEqual, byte(0x08))
		})

		Convey("supports the empty input", func() {
			compressed, err := Compress(nil, 9)
			So(err, ShouldBeNil)
			So(len(compressed), ShouldEqual, 2)

			decompressed, err := Decompress(compressed)
			So(err, ShouldBeNil)
			So(len(decompressed), ShouldEqual, 0)
		})
	})
}
