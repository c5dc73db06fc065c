// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509test builds throwaway [X.509] hierarchies in memory for tests.
//
// Certificates use ECDSA P-256 keys and random serial numbers, so each call
// produces distinct material. Nothing here touches the network or the disk.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"testing"
	"time"
)

// NotBefore and NotAfter bound the validity of every generated certificate.
var (
	NotBefore = time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	NotAfter  = time.Date(2035, time.December, 30, 0, 0, 0, 0, time.UTC)
)

// Issued is a generated certificate together with its private key.
type Issued struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewRoot returns a self-signed CA certificate whose subject is cn.
func NewRoot(tb testing.TB, cn string) *Issued {
	tb.Helper()

	key := newKey(tb)
	tmpl := template(tb, pkix.Name{CommonName: cn, Organization: []string{"x509test"}}, true)

	return sign(tb, tmpl, tmpl, key, key)
}

// NewRootWithoutCN returns a self-signed CA whose subject carries no
// common name attribute.
func NewRootWithoutCN(tb testing.TB, org string) *Issued {
	tb.Helper()

	key := newKey(tb)
	tmpl := template(tb, pkix.Name{Organization: []string{org}}, true)

	return sign(tb, tmpl, tmpl, key, key)
}

// Issue signs a new certificate for cn with the receiver's key.
// Set isCA for intermediates.
func (parent *Issued) Issue(tb testing.TB, cn string, isCA bool) *Issued {
	tb.Helper()

	key := newKey(tb)
	tmpl := template(tb, pkix.Name{CommonName: cn, Organization: []string{"x509test"}}, isCA)

	return sign(tb, tmpl, parent.Cert, key, parent.Key)
}

// RawName encodes a distinguished name holding a single common name
// attribute, using the ASN.1 string type tag (for example
// [asn1.TagUTF8String] or [asn1.TagPrintableString]).
func RawName(tb testing.TB, cn string, tag int) []byte {
	tb.Helper()

	der, err := asn1.Marshal(pkix.RDNSequence{{{
		Type:  oidCommonName,
		Value: asn1.RawValue{Class: asn1.ClassUniversal, Tag: tag, Bytes: []byte(cn)},
	}}})
	if err != nil {
		tb.Fatalf("x509test: marshal name: %v", err)
	}
	return der
}

// NewRootWithRawSubject returns a self-signed CA whose subject and issuer
// are rawName byte for byte.
func NewRootWithRawSubject(tb testing.TB, rawName []byte) *Issued {
	tb.Helper()

	key := newKey(tb)
	tmpl := template(tb, pkix.Name{}, true)
	tmpl.RawSubject = rawName

	return sign(tb, tmpl, tmpl, key, key)
}

// IssueWithRawIssuer signs a new certificate for cn with the receiver's key
// but writes rawIssuer as its issuer name instead of the receiver's subject.
func (parent *Issued) IssueWithRawIssuer(tb testing.TB, cn string, rawIssuer []byte, isCA bool) *Issued {
	tb.Helper()

	key := newKey(tb)
	tmpl := template(tb, pkix.Name{CommonName: cn, Organization: []string{"x509test"}}, isCA)

	signer := *parent.Cert
	signer.RawSubject = rawIssuer

	return sign(tb, tmpl, &signer, key, parent.Key)
}

// Chain returns the certificates of issued in order.
func Chain(issued ...*Issued) []*x509.Certificate {
	certs := make([]*x509.Certificate, 0, len(issued))
	for _, i := range issued {
		certs = append(certs, i.Cert)
	}
	return certs
}

// DER returns the raw DER encoding of each certificate in issued.
func DER(issued ...*Issued) [][]byte {
	raw := make([][]byte, 0, len(issued))
	for _, i := range issued {
		raw = append(raw, i.Cert.Raw)
	}
	return raw
}

var (
	oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}
	oidData       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
	oidSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
)

// PKCS7 wraps the certificates of issued in a degenerate PKCS#7 SignedData,
// the layout of a .p7b file: no signers, an empty CRL set, certificates only.
func PKCS7(tb testing.TB, issued ...*Issued) []byte {
	tb.Helper()

	var certs []byte
	for _, i := range issued {
		certs = append(certs, i.Cert.Raw...)
	}

	emptySet := asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagSet, IsCompound: true}
	signedData, err := asn1.Marshal(struct {
		Version          int
		DigestAlgorithms asn1.RawValue
		ContentInfo      struct{ ContentType asn1.ObjectIdentifier }
		Certificates     asn1.RawValue
		CRLs             asn1.RawValue
		SignerInfos      asn1.RawValue
	}{
		Version:          1,
		DigestAlgorithms: emptySet,
		ContentInfo:      struct{ ContentType asn1.ObjectIdentifier }{oidData},
		Certificates:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: certs},
		CRLs:             asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 1, IsCompound: true},
		SignerInfos:      emptySet,
	})
	if err != nil {
		tb.Fatalf("x509test: marshal signed data: %v", err)
	}

	der, err := asn1.Marshal(struct {
		ContentType asn1.ObjectIdentifier
		Content     asn1.RawValue
	}{
		ContentType: oidSignedData,
		Content:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: signedData},
	})
	if err != nil {
		tb.Fatalf("x509test: marshal content info: %v", err)
	}
	return der
}

func newKey(tb testing.TB) *ecdsa.PrivateKey {
	tb.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("x509test: generate key: %v", err)
	}
	return key
}

func template(tb testing.TB, subject pkix.Name, isCA bool) *x509.Certificate {
	tb.Helper()

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		tb.Fatalf("x509test: serial: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               subject,
		NotBefore:             NotBefore,
		NotAfter:              NotAfter,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
		KeyUsage:              x509.KeyUsageDigitalSignature,
	}
	if isCA {
		tmpl.KeyUsage |= x509.KeyUsageCertSign
	} else {
		tmpl.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
		if subject.CommonName != "" {
			tmpl.DNSNames = []string{subject.CommonName}
		}
	}
	return tmpl
}

func sign(tb testing.TB, tmpl, parent *x509.Certificate, key, parentKey *ecdsa.PrivateKey) *Issued {
	tb.Helper()

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	if err != nil {
		tb.Fatalf("x509test: create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("x509test: parse certificate: %v", err)
	}

	return &Issued{Cert: cert, Key: key}
}
