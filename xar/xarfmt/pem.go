package xarfmt

import (
	"bufio"
	"strings"
)

// ExtractPEM returns the base64 body of the first `section` PEM block found
// in text (e.g. section = "CERTIFICATE" for "-----BEGIN CERTIFICATE-----").
//
// Matching is by substring containment of "BEGIN <section>" and
// "END <section>" rather than strict PEM grammar, so minor dash-count
// variations are tolerated. Arbitrary text before, after, or around the
// section (comments, other PEM blocks, stray whitespace) is ignored. Only
// the first matching section is returned.
//
// It fails with KindMissingPEMSection if no begin marker for section is
// found, or if the body between the markers is empty.
func ExtractPEM(text, section string) (string, error) {
	beginMarker := "BEGIN " + section
	endMarker := "END " + section

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var body strings.Builder
	inSection := false
	found := false

	for scanner.Scan() {
		line := scanner.Text()

		if !inSection {
			if strings.Contains(line, beginMarker) {
				inSection = true
				found = true
			}
			continue
		}

		if strings.Contains(line, endMarker) {
			break
		}

		body.WriteString(strings.TrimSpace(line))
	}

	if !found {
		return "", New(KindMissingPEMSection, "no BEGIN "+section+" marker found")
	}
	if body.Len() == 0 {
		return "", New(KindMissingPEMSection, "empty "+section+" body")
	}

	return body.String(), nil
}
