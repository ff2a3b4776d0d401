package toc

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/riannucci/xar/xar/tree"
	"github.com/riannucci/xar/xar/xarfmt"
)

// epoch2001 is the reference instant Apple's tooling measures
// signature-creation-time from.
var epoch2001 = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// SignatureInfo carries everything Build needs to emit the TOC's optional
// <signature> element.
type SignatureInfo struct {
	// Offset and Size are the signature's location within the heap. Offset
	// is always xarfmt.DigestSize, since the signature immediately follows
	// the TOC checksum.
	Offset uint64
	Size   uint64

	// Certificates holds the base64 PEM bodies to embed, leaf-first, in the
	// order given (leaf cert, then each additional cert in chain order).
	Certificates []string

	// CreationTime is used to compute <signature-creation-time>.
	CreationTime time.Time
}

// SignatureCreationTimeString formats t as decimal seconds (one decimal
// place) since 2001-01-01T00:00:00Z, the convention Apple's xar tooling
// uses for <signature-creation-time>.
func SignatureCreationTimeString(t time.Time) string {
	seconds := t.UTC().Sub(epoch2001).Seconds()
	return strconv.FormatFloat(seconds, 'f', 1, 64)
}

// Build serializes roots (whose nodes must already have assigned ids and,
// for files, assigned offset/size/length/checksums) into the exact XML
// xar TOC shape, including the leading
// `<?xml version="1.0" encoding="UTF-8"?>` declaration.
//
// creationTime becomes <creation-time>. If sig is non-nil, a <signature>
// element is emitted alongside <signature-creation-time>.
func Build(roots []*tree.FileNode, creationTime time.Time, sig *SignatureInfo) ([]byte, error) {
	files := make([]*fileXML, 0, len(roots))
	for _, root := range roots {
		f, err := buildFileXML(root)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	doc := document{
		TOC: tocXML{
			CreationTime: creationTime.UTC().Format("2006-01-02T15:04:05Z"),
			Checksum: checksumDecl{
				Style:  "sha1",
				Size:   xarfmt.DigestSize,
				Offset: 0,
			},
			Files: files,
		},
	}

	if sig != nil {
		doc.TOC.SignatureCreationTime = SignatureCreationTimeString(sig.CreationTime)
		doc.TOC.Signature = &signatureXML{
			Style:  "RSA",
			Offset: sig.Offset,
			Size:   sig.Size,
			KeyInfo: keyInfoXML{
				Xmlns: "http://www.w3.org/2000/09/xmldsig",
				X509Data: x509DataXML{
					Certificates: sig.Certificates,
				},
			},
		}
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidInput, "marshaling TOC XML")
	}

	out := make([]byte, 0, len(XMLDeclaration)+len(body))
	out = append(out, []byte(XMLDeclaration)...)
	out = append(out, body...)
	return out, nil
}

func buildFileXML(n *tree.FileNode) (*fileXML, error) {
	x := &fileXML{ID: n.ID, Name: n.Name}

	switch n.Kind {
	case tree.KindFile:
		x.Type = "file"
		x.Data = &dataXML{
			Offset: n.Data.Offset,
			Size:   n.Data.Size,
			Length: n.Data.Length,
			ArchivedChecksum: checksumValue{
				Style: "sha1",
				Value: n.Data.ArchivedChecksum,
			},
			ExtractedChecksum: checksumValue{
				Style: "sha1",
				Value: n.Data.ExtractedChecksum,
			},
			Encoding: encodingXML{Style: tree.EncodingGzip},
		}

	case tree.KindDirectory:
		x.Type = "directory"
		for _, child := range n.Children {
			cx, err := buildFileXML(child)
			if err != nil {
				return nil, err
			}
			x.Files = append(x.Files, cx)
		}

	default:
		return nil, xarfmt.New(xarfmt.KindInvalidInput, "file node %q has an unknown kind", n.Name)
	}

	return x, nil
}
