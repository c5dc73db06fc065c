// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"fmt"
	"sync"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
)

// Chain holds the [X.509] certificates presented by a server, leaf first,
// in the order they were received.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Certificate
}

// New creates a Chain from certs, ordered leaf first.
func New(certs ...*x509.Certificate) *Chain {
	return &Chain{
		Certs:       certs,
		Certificate: x509certs.New(),
	}
}

// FromDER parses each DER certificate into a new Chain.
//
// Parameters:
//   - raw: DER certificates, leaf first
//
// Returns:
//   - *Chain: Parsed chain
//   - error: Wrapped [x509certs.ErrParseCertificate] naming the failing position
func FromDER(raw [][]byte) (*Chain, error) {
	ch := New()
	for i, der := range raw {
		cert, err := ch.DecodeDER(der)
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", i, err)
		}
		ch.Certs = append(ch.Certs, cert)
	}
	return ch, nil
}

// Len returns the number of certificates in the chain.
func (ch *Chain) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return len(ch.Certs)
}

// Leaf returns the peer certificate, or nil for an empty chain.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Leaf() *x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return nil
	}
	return ch.Certs[0]
}

// Issuers returns every certificate after the leaf, as offered by the server.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Issuers() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 1 {
		return nil
	}
	return ch.Certs[1:]
}

// FilterIntermediates filters out the root and leaf certificates, returning only intermediates.
//
// Returns:
//   - []*x509.Certificate: Slice of intermediate certificates, or nil if none
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 2 {
		return nil // No intermediates if 2 or fewer certs
	}
	return ch.Certs[1 : len(ch.Certs)-1] // Skip the first (leaf) and last (root)
}

// Validate runs v over the chain. A nil v validates structurally.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Validate(v *Validator) Result {
	if v == nil {
		v = NewValidator(nil)
	}

	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return v.Validate(ch.Certs)
}

// Summaries returns the display summary of every certificate, flagging the
// last one as the root.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Summaries() []x509certs.Summary {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	out := make([]x509certs.Summary, len(ch.Certs))
	for i, cert := range ch.Certs {
		out[i] = x509certs.Summarize(cert, i == len(ch.Certs)-1)
	}
	return out
}

// Bundle assembles the trust bundle: the leaf followed by each chain
// certificate, each passed through [x509certs.Certificate.Format]. PEM
// blocks are concatenated as-is, each ending in its own newline; DER
// certificates are concatenated directly.
//
// Parameters:
//   - enc: [x509certs.EncodingPEM] or [x509certs.EncodingDER]
//
// Returns:
//   - []byte: Assembled bundle
//   - error: [x509certs.ErrUnsupportedFormat] for any other encoding
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Bundle(enc x509certs.Encoding) ([]byte, error) {
	enc, err := x509certs.ParseEncoding(string(enc))
	if err != nil {
		return nil, err
	}

	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return gc.Collect(func(buf gc.Buffer) error {
		for _, cert := range ch.Certs {
			out, err := ch.Format(cert.Raw, enc)
			if err != nil {
				return err
			}
			if _, err := buf.Write(out); err != nil {
				return err
			}
		}
		return nil
	})
}
