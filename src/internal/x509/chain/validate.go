// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"

	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
)

var (
	// ErrEmptyChain indicates that the chain holds no certificates.
	ErrEmptyChain = errors.New("x509chain: no certificates found in chain")

	// ErrParse indicates that a certificate could not be parsed or inspected.
	ErrParse = errors.New("x509chain: error validating certificate chain")

	// ErrSignature indicates that the configured SignatureVerifier rejected a link.
	ErrSignature = errors.New("x509chain: signature verification failed")
)

// BrokenChainError reports an adjacent pair whose issuer and subject differ
// while the lower certificate is not self-signed.
type BrokenChainError struct {
	// Position is the index of the certificate whose issuer did not match.
	Position int
}

func (e *BrokenChainError) Error() string {
	return fmt.Sprintf("x509chain: certificate chain broken at position %d", e.Position)
}

// Result is the verdict for one chain.
//
// Message explains why the chain was accepted or where it breaks. Err is nil
// for a valid chain and otherwise matches [ErrEmptyChain], [ErrParse],
// [ErrSignature] or *[BrokenChainError] via errors.Is / errors.As.
type Result struct {
	Valid   bool
	Message string
	Err     error
}

func (r Result) String() string { return r.Message }

// SignatureVerifier checks that parent signed child. For a self-signed
// certificate child and parent are the same value.
type SignatureVerifier interface {
	VerifySignature(child, parent *x509.Certificate) error
}

// CryptoVerifier verifies signatures with the parent's public key.
type CryptoVerifier struct{}

// VerifySignature implements SignatureVerifier.
//
// Self-signatures are checked without the CA constraints that
// CheckSignatureFrom enforces, since self-signed LDAP server certificates
// are frequently not marked as CAs.
func (CryptoVerifier) VerifySignature(child, parent *x509.Certificate) error {
	if child == parent || bytes.Equal(child.Raw, parent.Raw) {
		return child.CheckSignature(child.SignatureAlgorithm, child.RawTBSCertificate, child.Signature)
	}
	return child.CheckSignatureFrom(parent)
}

// Validator decides whether a presented chain is structurally coherent.
//
// The zero value performs structural checks only. Setting Verifier adds a
// cryptographic check of every link the structural pass accepted.
type Validator struct {
	Verifier SignatureVerifier
	decoder  *x509certs.Certificate
}

// NewValidator returns a Validator using verifier, which may be nil.
func NewValidator(verifier SignatureVerifier) *Validator {
	return &Validator{Verifier: verifier, decoder: x509certs.New()}
}

// ValidateDER parses each DER certificate and validates the result.
// A parse failure is reported as an invalid Result, never as an error.
func (v *Validator) ValidateDER(raw [][]byte) Result {
	if len(raw) == 0 {
		return emptyChain()
	}

	decoder := v.decoder
	if decoder == nil {
		decoder = x509certs.New()
	}

	certs := make([]*x509.Certificate, 0, len(raw))
	for _, der := range raw {
		cert, err := decoder.DecodeDER(der)
		if err != nil {
			return parseFailure(err)
		}
		certs = append(certs, cert)
	}

	return v.Validate(certs)
}

// Validate checks certs, ordered leaf first, and returns the first rule that
// applies:
//
//  1. An empty chain is invalid.
//  2. A single self-signed certificate is valid.
//  3. Walking adjacent pairs, an issuer that differs from the next subject
//     ends the walk: valid if the current certificate is self-signed,
//     broken otherwise.
//  4. A completed walk is valid. The message says whether the last
//     certificate is a self-signed root.
//
// Two leniencies are intentional: a lone certificate that is not self-signed
// and a well-ordered chain without a self-signed root are both reported as
// "properly ordered".
//
// Validate never panics; any failure while inspecting certs becomes an
// invalid Result carrying [ErrParse].
func (v *Validator) Validate(certs []*x509.Certificate) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = parseFailure(fmt.Errorf("%v", r))
		}
	}()

	if len(certs) == 0 {
		return emptyChain()
	}
	for i, cert := range certs {
		if cert == nil {
			return parseFailure(fmt.Errorf("certificate at position %d is nil", i))
		}
	}

	if len(certs) == 1 && x509certs.IsStructurallySelfSigned(certs[0]) {
		if err := v.verify(certs[0], certs[0]); err != nil {
			return signatureFailure(0, err)
		}
		return valid("Valid self-signed certificate")
	}

	for i := 0; i < len(certs)-1; i++ {
		cert, next := certs[i], certs[i+1]

		if x509certs.IssuedBy(cert, next) {
			if err := v.verify(cert, next); err != nil {
				return signatureFailure(i, err)
			}
			continue
		}

		if x509certs.IsStructurallySelfSigned(cert) {
			if err := v.verify(cert, cert); err != nil {
				return signatureFailure(i, err)
			}
			return valid(fmt.Sprintf("Chain contains self-signed certificate at position %d", i))
		}

		return Result{
			Message: fmt.Sprintf("Certificate chain broken at position %d: issuer does not match next certificate's subject", i),
			Err:     &BrokenChainError{Position: i},
		}
	}

	last := len(certs) - 1
	if x509certs.IsStructurallySelfSigned(certs[last]) {
		if err := v.verify(certs[last], certs[last]); err != nil {
			return signatureFailure(last, err)
		}
		return valid("Certificate chain is valid and ends with self-signed root CA")
	}

	return valid("Certificate chain is valid and properly ordered")
}

func (v *Validator) verify(child, parent *x509.Certificate) error {
	if v.Verifier == nil {
		return nil
	}
	return v.Verifier.VerifySignature(child, parent)
}

func valid(msg string) Result { return Result{Valid: true, Message: msg} }

func emptyChain() Result {
	return Result{Message: "No certificates found in chain", Err: ErrEmptyChain}
}

func parseFailure(err error) Result {
	return Result{
		Message: "Error validating certificate chain: " + err.Error(),
		Err:     fmt.Errorf("%w: %w", ErrParse, err),
	}
}

func signatureFailure(pos int, err error) Result {
	return Result{
		Message: fmt.Sprintf("Signature verification failed at position %d: %v", pos, err),
		Err:     fmt.Errorf("%w at position %d: %w", ErrSignature, pos, err),
	}
}
