package tree

import (
	"go.chromium.org/luci/common/data/stringset"

	"github.com/riannucci/xar/xar/xarfmt"
)

// EncodingGzip is the fixed (and, despite its name, raw-deflate) encoding
// every FileEntry's payload is advertised with in the TOC.
const EncodingGzip = "application/x-gzip"

// Kind distinguishes the two FileNode variants.
type Kind int

// The two kinds of FileNode.
const (
	KindFile Kind = iota + 1
	KindDirectory
)

// FileData holds a FileEntry's payload metadata. Size must be set by the
// caller before generation; Length, Offset, ArchivedChecksum,
// ExtractedChecksum, and Data are filled in by xar.Generate.
type FileData struct {
	// Size is the uncompressed byte length of the payload, known up front.
	Size uint64

	// Length is the compressed byte length, set during generation.
	Length uint64

	// Offset is the byte offset within the heap, set during generation.
	Offset uint64

	// ArchivedChecksum is the SHA-1 hex digest of the compressed bytes.
	ArchivedChecksum string

	// ExtractedChecksum is the SHA-1 hex digest of the uncompressed bytes.
	ExtractedChecksum string

	// Data holds the compressed payload transiently between heap-layout
	// planning and heap emission. It may be released after a successful
	// Generate.
	Data []byte
}

// Encoding is always EncodingGzip; it's a method (not a field) because
// it's a constant of the format, not something callers configure.
func (d *FileData) Encoding() string { return EncodingGzip }

// FileNode is one node of the input forest: either a FileEntry (Kind ==
// KindFile, Data set, Children nil) or a DirectoryEntry (Kind ==
// KindDirectory, Children set, Data nil).
type FileNode struct {
	// ID is a positive, archive-unique integer. Zero means "unassigned";
	// xar.Generate fills unassigned ids in during its first pass.
	ID uint64

	// Name is the node's basename, as it will appear in the TOC.
	Name string

	// SrcPath is the path the FileDataProvider callback resolves this
	// node's bytes from. It is set once, at tree-construction time, and is
	// never derived or joined by this package or by the generator — every
	// node (including descendants of a directory) carries its own SrcPath.
	SrcPath string

	Kind Kind

	// Children holds a directory's entries, in the order they should be
	// walked and serialized. Nil for a FileEntry.
	Children []*FileNode

	// Data holds a file's payload metadata. Nil for a DirectoryEntry.
	Data *FileData
}

// File constructs a FileEntry FileNode with the given size.
func File(name, srcPath string, size uint64) *FileNode {
	return &FileNode{
		Name:    name,
		SrcPath: srcPath,
		Kind:    KindFile,
		Data:    &FileData{Size: size},
	}
}

// Directory constructs a DirectoryEntry FileNode with the given children.
func Directory(name, srcPath string, children ...*FileNode) *FileNode {
	return &FileNode{
		Name:     name,
		SrcPath:  srcPath,
		Kind:     KindDirectory,
		Children: children,
	}
}

// VisitFunc is called once per node during Walk, with the node's own
// SrcPath (never joined or derived) and the node itself.
type VisitFunc func(srcPath string, node *FileNode) error

// Walk performs a depth-first, pre-order traversal of roots, invoking cb for
// every node (files and directories alike), in the order children were
// given. It uses an explicit stack rather than recursion so arbitrarily deep
// trees don't risk a stack overflow.
//
// Returning an error from cb stops the walk immediately and Walk returns
// that error.
func Walk(roots []*FileNode, cb VisitFunc) error {
	type frame struct {
		nodes []*FileNode
		idx   int
	}

	stack := []frame{{nodes: roots}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.idx >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}

		node := top.nodes[top.idx]
		top.idx++

		if err := cb(node.SrcPath, node); err != nil {
			return err
		}

		if node.Kind == KindDirectory && len(node.Children) > 0 {
			stack = append(stack, frame{nodes: node.Children})
		}
	}

	return nil
}

// Validate checks that every FileNode reachable from roots has a non-empty
// Name and SrcPath, that Kind/Data/Children are mutually consistent, and
// that no directory contains two entries with the same Name.
func Validate(roots []*FileNode) error {
	return validateSiblings(roots)
}

func validateSiblings(nodes []*FileNode) error {
	names := stringset.New(len(nodes))
	for _, n := range nodes {
		if n.Name == "" {
			return xarfmt.New(xarfmt.KindInvalidInput, "file node has no name")
		}
		if n.SrcPath == "" {
			return xarfmt.New(xarfmt.KindInvalidInput, "file node %q has no srcPath", n.Name)
		}
		if !names.Add(n.Name) {
			return xarfmt.New(xarfmt.KindInvalidInput,
				"duplicate entry %q in the same directory", n.Name)
		}

		switch n.Kind {
		case KindFile:
			if n.Data == nil {
				return xarfmt.New(xarfmt.KindInvalidInput, "file entry "+n.Name+" has no FileData")
			}
			if n.Children != nil {
				return xarfmt.New(xarfmt.KindInvalidInput, "file entry "+n.Name+" has children")
			}
		case KindDirectory:
			if n.Data != nil {
				return xarfmt.New(xarfmt.KindInvalidInput, "directory entry "+n.Name+" has FileData")
			}
			if err := validateSiblings(n.Children); err != nil {
				return err
			}
		default:
			return xarfmt.New(xarfmt.KindInvalidInput, "file node "+n.Name+" has an unknown kind")
		}
	}
	return nil
}
