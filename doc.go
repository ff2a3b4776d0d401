// Package xarchive implements a generator (and a partial reader) for the xar
// container format: the format Safari extensions (.safariextz) and various
// macOS installer artifacts ship in.
//
// It has a fixed binary header, followed by a deflate-compressed XML table of
// contents, followed by a heap of fixed-offset blobs:
//
//	* header (28 bytes, big-endian): magic "xar!", header size, format
//	  version, compressed/uncompressed TOC length, checksum algorithm id.
//	* compressed table of contents (raw deflate, no gzip/zlib framing).
//	* heap: a SHA-1 checksum of the compressed TOC (20 bytes), optionally
//	  followed by an RSA signature over the same bytes, followed by every
//	  file's compressed payload in ascending id order.
//
// Building the heap requires knowing every file's compressed length and
// checksum before the TOC naming those offsets can be serialized, while the
// TOC itself precedes the heap in the output stream — see xar.Generate for
// how the two passes over the input forest reconcile that.
//
// Unlike a streaming archive format, every compressed payload is held in
// memory between planning the heap layout and emitting it, because the TOC
// must be written whole before any heap bytes are. See xar.Generate's doc
// comment for the generator's pass breakdown.
package xarchive
