package sign

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"

	"github.com/riannucci/xar/xar/xarfmt"
)

// Resources holds the signing credentials: a leaf certificate, the
// matching private key, and an ordered chain of additional certificates
// (intermediates first, then higher CAs), all as PEM text.
type Resources struct {
	CertPEM            string
	PrivateKeyPEM      string
	AdditionalCertPEMs []string
}

// Signer holds a parsed private key and the base64 certificate bodies
// (leaf-first) ready to embed in a TOC's <signature> element.
type Signer struct {
	key   *rsa.PrivateKey
	certs []string
}

// New parses res into a Signer. It fails with KindInvalidPrivateKey if the
// private key or any certificate PEM can't be parsed.
func New(res Resources) (*Signer, error) {
	key, err := parsePrivateKey(res.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	leaf, err := extractCertBody(res.CertPEM)
	if err != nil {
		return nil, err
	}

	certs := make([]string, 0, 1+len(res.AdditionalCertPEMs))
	certs = append(certs, leaf)
	for _, pemText := range res.AdditionalCertPEMs {
		body, err := extractCertBody(pemText)
		if err != nil {
			return nil, err
		}
		certs = append(certs, body)
	}

	return &Signer{key: key, certs: certs}, nil
}

// parsePrivateKey accepts either a PKCS#1 "RSA PRIVATE KEY" block or a
// PKCS#8 "PRIVATE KEY" block, since both appear in the wild.
func parsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	if body, err := xarfmt.ExtractPEM(pemText, "RSA PRIVATE KEY"); err == nil {
		der, decErr := base64.StdEncoding.DecodeString(body)
		if decErr != nil {
			return nil, xarfmt.Wrap(decErr, xarfmt.KindInvalidPrivateKey, "decoding RSA PRIVATE KEY body")
		}
		key, parseErr := x509.ParsePKCS1PrivateKey(der)
		if parseErr != nil {
			return nil, xarfmt.Wrap(parseErr, xarfmt.KindInvalidPrivateKey, "parsing PKCS#1 private key")
		}
		return key, nil
	}

	body, err := xarfmt.ExtractPEM(pemText, "PRIVATE KEY")
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidPrivateKey, "locating private key PEM block")
	}
	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidPrivateKey, "decoding PRIVATE KEY body")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindInvalidPrivateKey, "parsing PKCS#8 private key")
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, xarfmt.New(xarfmt.KindInvalidPrivateKey, "PKCS#8 key is not RSA")
	}
	return key, nil
}

func extractCertBody(pemText string) (string, error) {
	body, err := xarfmt.ExtractPEM(pemText, "CERTIFICATE")
	if err != nil {
		return "", xarfmt.Wrap(err, xarfmt.KindInvalidPrivateKey, "locating certificate PEM block")
	}
	return body, nil
}

// Certificates returns the base64 certificate bodies, leaf-first, in the
// order a TOC's <signature><KeyInfo><X509Data> should list them.
func (s *Signer) Certificates() []string {
	out := make([]string, len(s.certs))
	copy(out, s.certs)
	return out
}

// ProbeSize reports the byte length an RSA-SHA1 signature from this key
// will have, by actually signing a fixed non-empty string and measuring
// the result. RSA-SHA1 signature length is a function of key size alone,
// so any input works — this is the single source of truth for signature
// size, instead of assuming 256 bytes for every key.
func (s *Signer) ProbeSize() (int, error) {
	sig, err := s.sign([]byte("xar-signature-size-probe"))
	if err != nil {
		return 0, err
	}
	return len(sig), nil
}

// Sign signs data (the compressed TOC bytes) with RSA-SHA1 and returns the
// raw signature.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	return s.sign(data)
}

func (s *Signer) sign(data []byte) ([]byte, error) {
	digest := sha1.Sum(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA1, digest[:])
	if err != nil {
		return nil, xarfmt.Wrap(err, xarfmt.KindSignFailed, "RSA-SHA1 signing")
	}
	return sig, nil
}
