// Package xarfmt implements the low-level, format-only pieces of a xar
// archive: the fixed-width binary header, raw deflate compression, SHA-1
// digesting, and PEM certificate-body extraction. Nothing in this package
// knows about the file tree, the TOC's XML shape, or signing; it only knows
// how to turn bytes into other bytes, and how to report a recognizable Kind
// of failure when it can't.
package xarfmt
