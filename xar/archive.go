package xar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.chromium.org/luci/common/iotools"
	"go.chromium.org/luci/common/logging"

	"github.com/riannucci/xar/xar/sign"
	"github.com/riannucci/xar/xar/toc"
	"github.com/riannucci/xar/xar/tree"
	"github.com/riannucci/xar/xar/xarfmt"
)

// SignatureResources holds the credentials needed to sign an archive: a
// leaf certificate, its private key, and an ordered chain of additional
// certificates (intermediates first, then higher CAs), all as PEM text.
type SignatureResources struct {
	CertPEM            string
	PrivateKeyPEM      string
	AdditionalCertPEMs []string
}

// Archive is the outer container orchestrating a sequence of FileNodes and
// an optional SignatureResources.
type Archive struct {
	Roots     []*tree.FileNode
	Signature *SignatureResources
}

// generateOptionData holds Generate's configurable knobs.
type generateOptionData struct {
	compressLevel int
	now           func() time.Time
}

// GenerateOption configures a Generate call.
type GenerateOption func(*generateOptionData)

// WithCompressionLevel sets the deflate level used for the TOC and every
// file payload. Defaults to flate's default level.
func WithCompressionLevel(level int) GenerateOption {
	return func(o *generateOptionData) { o.compressLevel = level }
}

// WithClock overrides the clock Generate uses for <creation-time> and
// <signature-creation-time>, so tests can assert byte-exact output.
func WithClock(now func() time.Time) GenerateOption {
	return func(o *generateOptionData) { o.now = now }
}

// Generate is the Archive Generator: given root FileNodes, optional signing
// credentials, and a FileDataProvider, it emits a byte-exact xar archive to
// w, via a four-pass orchestration (id assignment, heap layout, TOC
// construction, emission).
func Generate(ctx context.Context, w Writer, roots []*tree.FileNode, sigRes *SignatureResources, provider FileDataProvider, opts ...GenerateOption) error {
	optData := generateOptionData{
		compressLevel: -1, // flate.DefaultCompression
		now:           time.Now,
	}
	for _, o := range opts {
		o(&optData)
	}

	if err := tree.Validate(roots); err != nil {
		return err
	}

	// Pass 1: ID assignment.
	if err := assignIDs(roots); err != nil {
		return err
	}

	files, err := collectFilesByID(roots)
	if err != nil {
		return err
	}

	var signer *sign.Signer
	if sigRes != nil {
		signer, err = sign.New(sign.Resources{
			CertPEM:            sigRes.CertPEM,
			PrivateKeyPEM:      sigRes.PrivateKeyPEM,
			AdditionalCertPEMs: sigRes.AdditionalCertPEMs,
		})
		if err != nil {
			return err
		}
	}

	// Pass 2: heap layout planning.
	heapCursor := uint64(xarfmt.DigestSize)

	var sigSize int
	if signer != nil {
		sigSize, err = signer.ProbeSize()
		if err != nil {
			return err
		}
		heapCursor += uint64(sigSize)
		logging.Debugf(ctx, "xar: probed signature size %d bytes", sigSize)
	}

	for _, f := range files {
		if f.Data.Offset != 0 {
			// Caller pre-assigned this file's layout; trust it and keep the
			// cursor consistent with whatever region it claims.
			heapCursor = f.Data.Offset + f.Data.Length
			continue
		}

		r, err := provider(f.SrcPath)
		if err != nil {
			return xarfmt.Wrap(err, xarfmt.KindIOError, "opening source for %q", f.SrcPath)
		}

		source, err := readAllFrom(r, f.Data.Size)
		if err != nil {
			return xarfmt.Wrap(err, xarfmt.KindInvalidInput, "reading source for %q", f.SrcPath)
		}

		compressed, err := xarfmt.Compress(source, optData.compressLevel)
		if err != nil {
			return err
		}

		f.Data.Length = uint64(len(compressed))
		f.Data.Offset = heapCursor
		f.Data.ArchivedChecksum = xarfmt.DigestHex(compressed)
		f.Data.ExtractedChecksum = xarfmt.DigestHex(source)
		f.Data.Data = compressed

		heapCursor += f.Data.Length
	}

	// Pass 3: TOC construction.
	creationTime := optData.now().UTC()

	var sigInfo *toc.SignatureInfo
	if signer != nil {
		sigInfo = &toc.SignatureInfo{
			Offset:       uint64(xarfmt.DigestSize),
			Size:         uint64(sigSize),
			Certificates: signer.Certificates(),
			CreationTime: creationTime,
		}
	}

	tocXML, err := toc.Build(roots, creationTime, sigInfo)
	if err != nil {
		return err
	}

	// Pass 4: emission.
	tocCompressed, err := xarfmt.Compress(tocXML, optData.compressLevel)
	if err != nil {
		return err
	}

	header := xarfmt.Header{
		Magic:                 xarfmt.Magic,
		HeaderSize:            xarfmt.HeaderSize,
		Version:               xarfmt.Version,
		CompressedTOCLength:   uint64(len(tocCompressed)),
		UncompressedTOCLength: uint64(len(tocXML)),
		ChecksumAlgorithm:     xarfmt.ChecksumSHA1,
	}

	if _, err := w.Write(xarfmt.EncodeHeader(header)); err != nil {
		return xarfmt.Wrap(err, xarfmt.KindIOError, "writing header")
	}
	if _, err := w.Write(tocCompressed); err != nil {
		return xarfmt.Wrap(err, xarfmt.KindIOError, "writing compressed TOC")
	}

	cw := &iotools.CountingWriter{Writer: w}

	tocDigest := xarfmt.Digest(tocCompressed)
	if _, err := cw.Write(tocDigest[:]); err != nil {
		return xarfmt.Wrap(err, xarfmt.KindIOError, "writing TOC checksum")
	}

	if signer != nil {
		sigBytes, err := signer.Sign(tocCompressed)
		if err != nil {
			return err
		}
		assertf(len(sigBytes) == sigSize,
			"signature length changed between probe (%d) and sign (%d)", sigSize, len(sigBytes))
		if _, err := cw.Write(sigBytes); err != nil {
			return xarfmt.Wrap(err, xarfmt.KindIOError, "writing signature")
		}
	}

	for _, f := range files {
		assertf(uint64(cw.Count) == f.Data.Offset,
			"heap cursor %d does not match file %q's declared offset %d", cw.Count, f.Name, f.Data.Offset)
		assertf(uint64(len(f.Data.Data)) == f.Data.Length,
			"file %q's buffered payload length %d does not match declared length %d",
			f.Name, len(f.Data.Data), f.Data.Length)

		if _, err := cw.Write(f.Data.Data); err != nil {
			return xarfmt.Wrap(err, xarfmt.KindIOError, "writing payload for %q", f.Name)
		}
		f.Data.Data = nil
	}

	logging.Infof(ctx, "xar: generated archive with %d file(s), heap size %d bytes", len(files), cw.Count)
	return nil
}

// Generate runs Generate with a's own Roots and Signature.
func (a *Archive) Generate(ctx context.Context, w Writer, provider FileDataProvider, opts ...GenerateOption) error {
	return Generate(ctx, w, a.Roots, a.Signature, provider, opts...)
}

// assignIDs is pass 1: depth-first traversal to find
// the maximum pre-assigned id, then a second depth-first traversal
// assigning the next available id (in traversal order) to every node that
// lacks one.
func assignIDs(roots []*tree.FileNode) error {
	var maxID uint64
	if err := tree.Walk(roots, func(_ string, n *tree.FileNode) error {
		if n.ID > maxID {
			maxID = n.ID
		}
		return nil
	}); err != nil {
		return err
	}

	next := maxID + 1
	return tree.Walk(roots, func(_ string, n *tree.FileNode) error {
		if n.ID == 0 {
			n.ID = next
			next++
		}
		return nil
	})
}

// collectFilesByID gathers every FileEntry reachable from roots, sorted
// ascending by id — the order the heap layout and emission passes
// require.
func collectFilesByID(roots []*tree.FileNode) ([]*tree.FileNode, error) {
	var files []*tree.FileNode
	err := tree.Walk(roots, func(_ string, n *tree.FileNode) error {
		if n.Kind == tree.KindFile {
			files = append(files, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// assertf panics if cond is false. The pass-4 layout assertions indicate a
// broken implementation, not a bad input, so they abort rather than return
// a recoverable error.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("xar: internal invariant violated: "+format, args...))
	}
}
