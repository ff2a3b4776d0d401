package toc

import (
	"encoding/xml"

	"github.com/riannucci/xar/xar/xarfmt"
)

// ParsedFile is a read-only view of one <file> element, file or directory.
type ParsedFile struct {
	ID       uint64
	Name     string
	Type     string // "file" or "directory"
	Children []*ParsedFile

	// The remaining fields are only meaningful when Type == "file".
	Offset            uint64
	Size              uint64
	Length            uint64
	ArchivedChecksum  string
	ExtractedChecksum string
	EncodingStyle     string
}

// ParsedTOC is a read-only view of a decoded TOC document.
type ParsedTOC struct {
	CreationTime   string
	ChecksumOffset int
	ChecksumSize   int

	Signed          bool
	SignatureOffset uint64
	SignatureSize   uint64
	Certificates    []string

	Files []*ParsedFile
}

// Parse decodes TOC XML text (as returned by an archive reader) into a
// read-only tree. It does not validate offsets against any heap — that's
// the caller's job if they have archive bytes to check them against.
func Parse(xmlText string) (*ParsedTOC, error) {
	var doc document
	if err := xml.Unmarshal([]byte(xmlText), &doc); err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidInput, "parsing TOC XML")
	}

	pt := &ParsedTOC{
		CreationTime:   doc.TOC.CreationTime,
		ChecksumOffset: doc.TOC.Checksum.Offset,
		ChecksumSize:   doc.TOC.Checksum.Size,
	}

	if doc.TOC.Signature != nil {
		pt.Signed = true
		pt.SignatureOffset = doc.TOC.Signature.Offset
		pt.SignatureSize = doc.TOC.Signature.Size
		pt.Certificates = doc.TOC.Signature.KeyInfo.X509Data.Certificates
	}

	for _, f := range doc.TOC.Files {
		pt.Files = append(pt.Files, convertFileXML(f))
	}

	return pt, nil
}

func convertFileXML(f *fileXML) *ParsedFile {
	pf := &ParsedFile{ID: f.ID, Name: f.Name, Type: f.Type}

	for _, child := range f.Files {
		pf.Children = append(pf.Children, convertFileXML(child))
	}

	if f.Data != nil {
		pf.Offset = f.Data.Offset
		pf.Size = f.Data.Size
		pf.Length = f.Data.Length
		pf.ArchivedChecksum = f.Data.ArchivedChecksum.Value
		pf.ExtractedChecksum = f.Data.ExtractedChecksum.Value
		pf.EncodingStyle = f.Data.Encoding.Style
	}

	return pf
}

// WalkFunc is called once per file/directory entry during Walk, with the
// full path (root-relative, by Name) to that entry.
type WalkFunc func(path []string, f *ParsedFile) error

// Walk performs a depth-first, pre-order traversal of a parsed TOC's file
// forest. Returning an error from cb stops the walk and Walk returns it.
func Walk(files []*ParsedFile, cb WalkFunc) error {
	return walk(files, nil, cb)
}

func walk(files []*ParsedFile, prefix []string, cb WalkFunc) error {
	for _, f := range files {
		path := append(append([]string{}, prefix...), f.Name)
		if err := cb(path, f); err != nil {
			return err
		}
		if len(f.Children) > 0 {
			if err := walk(f.Children, path, cb); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns the first entry (depth-first, pre-order) for which pred
// returns true, along with its root-relative path.
func Find(files []*ParsedFile, pred func(path []string, f *ParsedFile) bool) (f *ParsedFile, path []string, ok bool) {
	_ = Walk(files, func(p []string, cand *ParsedFile) error {
		if !ok && pred(p, cand) {
			f, path, ok = cand, p, true
		}
		return nil
	})
	return
}
