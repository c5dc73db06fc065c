// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package retriever

import (
	"context"
	"errors"
	"fmt"

	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
)

var (
	// ErrNoCertificates indicates that the handshake completed without the
	// server presenting any certificate.
	ErrNoCertificates = errors.New("retriever: no certificates found in the server response")

	// ErrAllServersFailed indicates that no server passed to
	// [Retriever.RetrieveFirst] produced a chain.
	ErrAllServersFailed = errors.New("retriever: all test servers failed")
)

// noCertificatesMessage is what users see for [ErrNoCertificates].
const noCertificatesMessage = "No certificates found in the server response"

// Message returns the user-facing text of err. [ErrNoCertificates] itself
// is reported in plain words; wrapped errors keep their full context.
func Message(err error) string {
	if err == ErrNoCertificates {
		return noCertificatesMessage
	}
	return err.Error()
}

// Retriever captures and validates the certificate chain of a server.
type Retriever struct {
	// Handshaker performs the TLS handshake. It is required.
	Handshaker x509chain.Handshaker
	// Validator checks the captured chain. Nil means structural checks only.
	Validator *x509chain.Validator
	// Log receives diagnostics. Nil means [logger.Discard].
	Log logger.Logger
	// Debug enables per-step diagnostics.
	Debug bool
}

// New returns a Retriever using h with structural validation and no logging.
func New(h x509chain.Handshaker) *Retriever {
	return &Retriever{
		Handshaker: h,
		Validator:  x509chain.NewValidator(nil),
		Log:        logger.Discard,
	}
}

// Result is the chain captured from one server.
type Result struct {
	// Host and Port identify the server that presented the chain.
	Host string
	Port int
	// Peer is the DER encoding of the leaf certificate.
	Peer []byte
	// Chain holds the DER encoding of every certificate after the leaf,
	// in the order the server sent them.
	Chain [][]byte
	// Validation is the verdict computed for Peer followed by Chain.
	Validation x509chain.Result
}

// Certificates returns the leaf followed by the rest of the chain.
func (r *Result) Certificates() [][]byte {
	out := make([][]byte, 0, len(r.Chain)+1)
	out = append(out, r.Peer)
	return append(out, r.Chain...)
}

// Parsed returns the captured certificates as a [x509chain.Chain].
func (r *Result) Parsed() (*x509chain.Chain, error) {
	return x509chain.FromDER(r.Certificates())
}

// Bundle assembles the trust bundle in the requested encoding: for PEM the
// leaf block followed by one block per chain certificate, for DER the raw
// certificates concatenated.
//
// The bundle is produced even when Validation is not valid.
func (r *Result) Bundle(enc x509certs.Encoding) ([]byte, error) {
	ch, err := r.Parsed()
	if err != nil {
		return nil, err
	}
	return ch.Bundle(enc)
}

// Retrieve performs the handshake with host:port and validates the chain
// the server presented.
//
// Parameters:
//   - ctx: Context bounding the handshake
//   - host: Server hostname, also used as the TLS server name
//   - port: Server port
//
// Returns:
//   - *Result: Captured chain and its verdict
//   - error: Handshake error, [ErrNoCertificates], or a parse error
func (r *Retriever) Retrieve(ctx context.Context, host string, port int) (*Result, error) {
	if r.Debug {
		r.emit(logger.LevelInfo, fmt.Sprintf("\nConnecting to %s:%d", host, port))
	}

	raw, err := r.Handshaker.Handshake(ctx, host, port)
	if err != nil {
		return nil, r.fail(err)
	}
	if len(raw) == 0 {
		return nil, r.fail(ErrNoCertificates)
	}

	if r.Debug {
		r.emit(logger.LevelSuccess, fmt.Sprintf("\nFound %d certificates in chain", len(raw)))
	}

	ch, err := x509chain.FromDER(raw)
	if err != nil {
		return nil, r.fail(fmt.Errorf("%s:%d: %w", host, port, err))
	}

	validator := r.Validator
	if validator == nil {
		validator = x509chain.NewValidator(nil)
	}
	verdict := ch.Validate(validator)

	if r.Debug {
		level := logger.LevelSuccess
		if !verdict.Valid {
			level = logger.LevelError
		}
		r.emit(level, "\nCertificate Chain Validation: "+verdict.Message)
		r.printSummaries(ch)
	}

	issuers := ch.Issuers()
	rest := make([][]byte, len(issuers))
	for i, cert := range issuers {
		rest[i] = cert.Raw
	}

	return &Result{
		Host:       host,
		Port:       port,
		Peer:       ch.Leaf().Raw,
		Chain:      rest,
		Validation: verdict,
	}, nil
}

// RetrieveFirst tries each host in order and returns the first chain
// retrieved. A canceled context stops the search.
//
// Returns:
//   - *Result: Chain of the first server that answered
//   - error: [ErrAllServersFailed] wrapping the last server's error
func (r *Retriever) RetrieveFirst(ctx context.Context, hosts []string, port int) (*Result, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: no servers configured", ErrAllServersFailed)
	}

	var lastErr error
	for _, host := range hosts {
		r.emit(logger.LevelInfo, "Trying test server: "+host)

		res, err := r.Retrieve(ctx, host, port)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if r.Debug {
			r.emit(logger.LevelError, fmt.Sprintf("Failed to connect to %s: %v", host, err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w; last error: %w", ErrAllServersFailed, lastErr)
}

func (r *Retriever) printSummaries(ch *x509chain.Chain) {
	for _, s := range ch.Summaries() {
		r.emit(logger.LevelHeader, "\n"+s.Heading())
		r.emit(logger.LevelInfo, s.NamesLine())
		r.emit(logger.LevelSuccess, s.ValidityLine())
		r.emit(logger.LevelDetail, s.SerialLine())
	}
}

func (r *Retriever) fail(err error) error {
	if r.Debug {
		r.emit(logger.LevelError, "\nUnexpected error: "+Message(err))
	}
	return err
}

func (r *Retriever) emit(level logger.Level, text string) {
	if r.Log == nil {
		return
	}
	r.Log.Emit(level, text)
}
