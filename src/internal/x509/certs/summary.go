// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"time"
)

// dateLayout renders validity bounds as calendar dates.
const dateLayout = "2006-01-02"

var oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

// IsStructurallySelfSigned reports whether the certificate's subject and
// issuer distinguished names are equal.
//
// This is a structural heuristic: it does not check the signature, so a
// certificate can claim to be its own issuer without having signed itself.
// Use a signature verifier when cryptographic proof is required.
func IsStructurallySelfSigned(cert *x509.Certificate) bool {
	return namesEqual(cert.RawSubject, cert.RawIssuer, cert.Subject, cert.Issuer)
}

// IssuedBy reports whether child names parent as its issuer, comparing
// child's issuer DN with parent's subject DN as a whole.
func IssuedBy(child, parent *x509.Certificate) bool {
	return namesEqual(child.RawIssuer, parent.RawSubject, child.Issuer, parent.Subject)
}

// namesEqual compares two distinguished names attribute by attribute.
//
// RDNs must appear in the same order; the attributes inside one RDN form a
// set. Attribute values are compared after decoding, so the same text held
// as a UTF8String and as a PrintableString is equal. Identical encodings
// match without decoding. Hand-built certificates carry no raw names and
// are compared by their string forms.
func namesEqual(rawA, rawB []byte, a, b pkix.Name) bool {
	if len(rawA) == 0 || len(rawB) == 0 {
		return a.String() == b.String()
	}
	if bytes.Equal(rawA, rawB) {
		return true
	}

	seqA, okA := parseRDNSequence(rawA)
	seqB, okB := parseRDNSequence(rawB)
	if !okA || !okB || len(seqA) != len(seqB) {
		return false
	}
	for i := range seqA {
		if !rdnContains(seqA[i], seqB[i]) || !rdnContains(seqB[i], seqA[i]) {
			return false
		}
	}
	return true
}

func parseRDNSequence(raw []byte) (pkix.RDNSequence, bool) {
	var seq pkix.RDNSequence
	rest, err := asn1.Unmarshal(raw, &seq)
	if err != nil || len(rest) > 0 {
		return nil, false
	}
	return seq, true
}

// rdnContains reports whether every attribute of sub is present in set.
func rdnContains(set, sub pkix.RelativeDistinguishedNameSET) bool {
	for _, want := range sub {
		found := slices.ContainsFunc(set, func(have pkix.AttributeTypeAndValue) bool {
			return have.Type.Equal(want.Type) && reflect.DeepEqual(have.Value, want.Value)
		})
		if !found {
			return false
		}
	}
	return true
}

// FirstCommonName returns the first common name attribute of name, or an
// empty string when there is none.
func FirstCommonName(name pkix.Name) string {
	for _, atv := range name.Names {
		if atv.Type.Equal(oidCommonName) {
			if s, ok := atv.Value.(string); ok {
				return s
			}
			return fmt.Sprint(atv.Value)
		}
	}
	// Names is only populated by parsing; fall back for hand-built values.
	return name.CommonName
}

// Summary is the short description of a certificate printed in diagnostics.
type Summary struct {
	SubjectCN  string
	IssuerCN   string
	NotBefore  time.Time
	NotAfter   time.Time
	Serial     *big.Int
	SelfSigned bool
	Root       bool
}

// Summarize extracts the display fields of cert. isLast marks the final
// certificate of a chain, which is labelled as the root.
func Summarize(cert *x509.Certificate, isLast bool) Summary {
	return Summary{
		SubjectCN:  FirstCommonName(cert.Subject),
		IssuerCN:   FirstCommonName(cert.Issuer),
		NotBefore:  cert.NotBefore.UTC(),
		NotAfter:   cert.NotAfter.UTC(),
		Serial:     cert.SerialNumber,
		SelfSigned: IsStructurallySelfSigned(cert),
		Root:       isLast,
	}
}

// Label returns "Root Certificate" or "Certificate", prefixed with
// "Self-signed " when the subject equals the issuer.
func (s Summary) Label() string {
	label := "Certificate"
	if s.Root {
		label = "Root Certificate"
	}
	if s.SelfSigned {
		label = "Self-signed " + label
	}
	return label
}

// SerialString renders the serial number in decimal.
func (s Summary) SerialString() string {
	if s.Serial == nil {
		return ""
	}
	return s.Serial.String()
}

// Heading returns the label line, e.g. "Self-signed Root Certificate:".
func (s Summary) Heading() string { return s.Label() + ":" }

// NamesLine returns the subject and issuer common names.
func (s Summary) NamesLine() string {
	return fmt.Sprintf("  Subject: %s | Issuer: %s", s.SubjectCN, s.IssuerCN)
}

// ValidityLine returns the validity window as calendar dates.
func (s Summary) ValidityLine() string {
	return fmt.Sprintf("  Valid: %s to %s", s.NotBefore.Format(dateLayout), s.NotAfter.Format(dateLayout))
}

// SerialLine returns the decimal serial number.
func (s Summary) SerialLine() string {
	return fmt.Sprintf("  Serial: %s", s.SerialString())
}
