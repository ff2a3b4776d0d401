package xarfmt

import (
	"encoding/binary"
)

// Magic is the fixed 4-byte signature ("xar!") every xar archive starts
// with.
const Magic uint32 = 0x78617221

// HeaderSize is the byte length of an encoded Header.
const HeaderSize = 28

// Version is the xar format version the generator writes. DecodeHeader does
// not check the version field.
const Version uint16 = 1

// ChecksumSHA1 is the checksum-algorithm id for SHA-1, the only one the
// generator writes. DecodeHeader does not check this field; xar.Open rejects
// any other id with KindUnsupportedChecksumAlgo.
const ChecksumSHA1 uint32 = 1

// Header is the fixed 28-byte preamble of a xar archive.
type Header struct {
	Magic                 uint32
	HeaderSize            uint16
	Version               uint16
	CompressedTOCLength   uint64
	UncompressedTOCLength uint64
	ChecksumAlgorithm     uint32
}

// EncodeHeader serializes h as the 28-byte big-endian preamble.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	be := binary.BigEndian
	be.PutUint32(buf[0:4], h.Magic)
	be.PutUint16(buf[4:6], h.HeaderSize)
	be.PutUint16(buf[6:8], h.Version)
	be.PutUint64(buf[8:16], h.CompressedTOCLength)
	be.PutUint64(buf[16:24], h.UncompressedTOCLength)
	be.PutUint32(buf[24:28], h.ChecksumAlgorithm)
	return buf
}

// DecodeHeader parses the 28-byte big-endian preamble from buf. buf must be
// at least HeaderSize bytes; only the first HeaderSize bytes are consumed.
//
// It fails with KindInvalidMagic if the first 4 bytes aren't "xar!", and
// with KindHeaderTooSmall if the decoded header-size field is less than
// HeaderSize.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, New(KindHeaderTooSmall,
			"header buffer too small: want at least 28 bytes, got fewer")
	}

	be := binary.BigEndian
	h := Header{
		Magic:                 be.Uint32(buf[0:4]),
		HeaderSize:            be.Uint16(buf[4:6]),
		Version:               be.Uint16(buf[6:8]),
		CompressedTOCLength:   be.Uint64(buf[8:16]),
		UncompressedTOCLength: be.Uint64(buf[16:24]),
		ChecksumAlgorithm:     be.Uint32(buf[24:28]),
	}

	if h.Magic != Magic {
		return Header{}, New(KindInvalidMagic,
			"bad magic: expected \"xar!\"")
	}
	if h.HeaderSize < HeaderSize {
		return Header{}, New(KindHeaderTooSmall,
			"declared header size smaller than the minimum 28 bytes")
	}

	return h, nil
}
