package toc

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/riannucci/xar/xar/tree"
)

func TestParse(t *testing.T) {
	t.Parallel()

	creationTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Parse", t, func() {
		Convey("round-trips what Build produced", func() {
			roots := []*tree.FileNode{
				{
					ID:   1,
					Name: "a.txt",
					Kind: tree.KindFile,
					Data: &tree.FileData{
						Size:              5,
						Length:            4,
						Offset:            0,
						ArchivedChecksum:  "aaaa",
						ExtractedChecksum: "bbbb",
					},
				},
				{
					ID:   2,
					Name: "d",
					Kind: tree.KindDirectory,
					Children: []*tree.FileNode{
						{
							ID:   3,
							Name: "b.txt",
							Kind: tree.KindFile,
							Data: &tree.FileData{
								Size:              1,
								Length:            1,
								Offset:            4,
								ArchivedChecksum:  "cccc",
								ExtractedChecksum: "dddd",
							},
						},
					},
				},
			}

			sig := &SignatureInfo{
				Offset:       5,
				Size:         128,
				Certificates: []string{"leafcertbody"},
				CreationTime: epoch2001.Add(10 * time.Second),
			}

			out, err := Build(roots, creationTime, sig)
			So(err, ShouldBeNil)

			parsed, err := Parse(string(out))
			So(err, ShouldBeNil)

			So(parsed.CreationTime, ShouldEqual, "2024-03-01T12:00:00Z")
			So(parsed.ChecksumSize, ShouldEqual, 20)
			So(parsed.Signed, ShouldBeTrue)
			So(parsed.SignatureOffset, ShouldEqual, uint64(5))
			So(parsed.SignatureSize, ShouldEqual, uint64(128))
			So(parsed.Certificates, ShouldResemble, []string{"leafcertbody"})

			So(parsed.Files, ShouldHaveLength, 2)
			So(parsed.Files[0].Name, ShouldEqual, "a.txt")
			So(parsed.Files[0].Type, ShouldEqual, "file")
			So(parsed.Files[0].ArchivedChecksum, ShouldEqual, "aaaa")
			So(parsed.Files[1].Name, ShouldEqual, "d")
			So(parsed.Files[1].Type, ShouldEqual, "directory")
			So(parsed.Files[1].Children, ShouldHaveLength, 1)
			So(parsed.Files[1].Children[0].Name, ShouldEqual, "b.txt")
			So(parsed.Files[1].Children[0].ExtractedChecksum, ShouldEqual, "dddd")
		})

		Convey("rejects malformed XML", func() {
			_, err := Parse("<xar><toc>")
			So(err, ShouldNotBeNil)
		})

		Convey("leaves Signed false and zero-value signature fields when unsigned", func() {
			out, err := Build(nil, creationTime, nil)
			So(err, ShouldBeNil)

			parsed, err := Parse(string(out))
			So(err, ShouldBeNil)
			So(parsed.Signed, ShouldBeFalse)
			So(parsed.SignatureOffset, ShouldEqual, uint64(0))
			So(parsed.Certificates, ShouldBeEmpty)
		})
	})
}

func TestWalkAndFind(t *testing.T) {
	t.Parallel()

	Convey("Walk and Find over a parsed TOC", t, func() {
		files := []*ParsedFile{
			{Name: "a.txt", Type: "file"},
			{
				Name: "d",
				Type: "directory",
				Children: []*ParsedFile{
					{Name: "inner.txt", Type: "file"},
				},
			},
		}

		Convey("Walk visits depth-first, pre-order, with root-relative paths", func() {
			var paths [][]string
			err := Walk(files, func(path []string, f *ParsedFile) error {
				paths = append(paths, path)
				return nil
			})
			So(err, ShouldBeNil)
			So(paths, ShouldResemble, [][]string{
				{"a.txt"},
				{"d"},
				{"d", "inner.txt"},
			})
		})

		Convey("Find locates the first match by predicate", func() {
			f, path, ok := Find(files, func(path []string, cand *ParsedFile) bool {
				return cand.Name == "inner.txt"
			})
			So(ok, ShouldBeTrue)
			So(f, ShouldNotBeNil)
			So(path, ShouldResemble, []string{"d", "inner.txt"})
		})

		Convey("Find reports ok=false when nothing matches", func() {
			_, _, ok := Find(files, func(path []string, cand *ParsedFile) bool {
				return cand.Name == "nonexistent"
			})
			So(ok, ShouldBeFalse)
		})
	})
}
