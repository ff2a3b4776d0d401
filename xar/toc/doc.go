// Package toc models xar's table of contents: the XML document that
// describes every file's location, size, and checksums within the heap.
//
// It provides Build, which turns a tree.FileNode forest whose nodes already
// carry assigned ids and (for files) assigned offsets/lengths/checksums into
// the exact XML shape xar readers (notably Safari) expect, and Parse, which
// does the reverse for read-only inspection of an existing TOC.
package toc
