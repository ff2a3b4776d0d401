// Package sign implements the xar Signer: PEM credential parsing, RSA-SHA1
// signing of the compressed TOC, and the signature-size probe the Archive
// Generator needs before it can lay out the heap.
package sign
