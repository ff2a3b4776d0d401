// Package tree models the input forest handed to the archive generator:
// FileEntry and DirectoryEntry nodes, each optionally pre-assigned an id, and
// FileEntry's per-payload FileData record (size, and — once generation has
// run — length, offset, and checksums).
//
// This is distinct from package toc, which models the *output* XML table of
// contents; tree.FileNode exists before generation and does not know its own
// offset or compressed length until xar.Generate fills them in.
package tree
