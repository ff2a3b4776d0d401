package toc

import "encoding/xml"

// XMLDeclaration is the literal prolog every emitted TOC document starts
// with, ahead of the <xar> root element that encoding/xml doesn't itself
// produce.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// document is the root <xar> element.
type document struct {
	XMLName xml.Name `xml:"xar"`
	TOC     tocXML   `xml:"toc"`
}

// tocXML is the <toc> element. Field order matters: encoding/xml emits
// struct fields in declaration order, and the xar format fixes the child
// element order as creation-time, checksum, (signature-creation-time,
// signature), file forest.
type tocXML struct {
	CreationTime          string        `xml:"creation-time"`
	Checksum              checksumDecl  `xml:"checksum"`
	SignatureCreationTime string        `xml:"signature-creation-time,omitempty"`
	Signature             *signatureXML `xml:"signature"`
	Files                 []*fileXML    `xml:"file"`
}

type checksumDecl struct {
	Style  string `xml:"style,attr"`
	Size   int    `xml:"size"`
	Offset int    `xml:"offset"`
}

type signatureXML struct {
	Style   string     `xml:"style,attr"`
	Offset  uint64     `xml:"offset"`
	Size    uint64     `xml:"size"`
	KeyInfo keyInfoXML `xml:"KeyInfo"`
}

type keyInfoXML struct {
	Xmlns    string      `xml:"xmlns,attr"`
	X509Data x509DataXML `xml:"X509Data"`
}

type x509DataXML struct {
	Certificates []string `xml:"X509Certificate"`
}

// fileXML is a <file> element: either a file (Type == "file", Data set) or
// a directory (Type == "directory", nested Files set).
type fileXML struct {
	ID    uint64     `xml:"id,attr"`
	Name  string     `xml:"name"`
	Type  string     `xml:"type"`
	Files []*fileXML `xml:"file,omitempty"`
	Data  *dataXML   `xml:"data"`
}

type dataXML struct {
	Offset            uint64        `xml:"offset"`
	Size              uint64        `xml:"size"`
	Length            uint64        `xml:"length"`
	ArchivedChecksum  checksumValue `xml:"archived-checksum"`
	ExtractedChecksum checksumValue `xml:"extracted-checksum"`
	Encoding          encodingXML   `xml:"encoding"`
}

type checksumValue struct {
	Style string `xml:"style,attr"`
	Value string `xml:",chardata"`
}

type encodingXML struct {
	Style string `xml:"style,attr"`
}
