package xarfmt

import (
	"crypto/sha1"
	"encoding/hex"
)

// DigestSize is the byte length of a SHA-1 digest, and therefore the fixed
// size of the xar heap's TOC-checksum slot.
const DigestSize = sha1.Size

// Digest returns the raw 20-byte SHA-1 digest of data.
func Digest(data []byte) [DigestSize]byte {
	return sha1.Sum(data)
}

// DigestHex returns the lowercase-hex SHA-1 digest of data, the form the TOC
// records in its <archived-checksum>/<extracted-checksum> elements.
func DigestHex(data []byte) string {
	d := sha1.Sum(data)
	return hex.EncodeToString(d[:])
}
