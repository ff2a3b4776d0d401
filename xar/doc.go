// Package xar implements the Archive Generator and the partial Archive
// Reader: given a forest of tree.FileNodes and optional signing
// credentials, Generate emits a byte-exact xar archive; Open parses an
// existing archive's header and returns its verified TOC as XML text.
package xar
