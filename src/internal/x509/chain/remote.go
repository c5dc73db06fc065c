// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Handshake methods accepted by [NewHandshaker].
const (
	MethodLDAPS    = "ldaps"
	MethodStartTLS = "starttls"
	MethodTLS      = "tls"
)

// DefaultTimeout bounds the TCP connect of a handshake when none is configured.
const DefaultTimeout = 10 * time.Second

var (
	// ErrUnknownMethod indicates an unsupported handshake method name.
	ErrUnknownMethod = errors.New("x509chain: unknown handshake method")

	// ErrNoTLSState indicates that an LDAP connection finished without TLS.
	ErrNoTLSState = errors.New("x509chain: connection has no TLS state")
)

// Handshaker captures the certificates a server presents during a TLS
// handshake, in the order received, as DER.
type Handshaker interface {
	Handshake(ctx context.Context, host string, port int) ([][]byte, error)
}

// NewHandshaker returns the Handshaker registered under method.
// An empty method selects [MethodLDAPS].
func NewHandshaker(method string, timeout time.Duration) (Handshaker, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", MethodLDAPS:
		return &LDAPSHandshaker{Timeout: timeout}, nil
	case MethodStartTLS:
		return &StartTLSHandshaker{Timeout: timeout}, nil
	case MethodTLS:
		return &TLSHandshaker{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// TLSHandshaker performs a bare TLS handshake with crypto/tls.
type TLSHandshaker struct {
	Timeout time.Duration
	// Config is cloned for each handshake. Verification is always disabled
	// and ServerName defaults to the host.
	Config *tls.Config
}

// Handshake implements Handshaker.
func (h *TLSHandshaker) Handshake(ctx context.Context, host string, port int) ([][]byte, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &tls.Dialer{
		NetDialer: netDialer(ctx, h.Timeout),
		Config:    captureConfig(h.Config, host),
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	return rawCertificates(conn.(*tls.Conn).ConnectionState()), nil
}

// LDAPSHandshaker connects to an ldaps:// endpoint with go-ldap.
type LDAPSHandshaker struct {
	Timeout time.Duration
	Config  *tls.Config
}

// Handshake implements Handshaker.
func (h *LDAPSHandshaker) Handshake(ctx context.Context, host string, port int) ([][]byte, error) {
	return ldapHandshake(ctx, "ldaps", host, port, h.Timeout, captureConfig(h.Config, host), false)
}

// StartTLSHandshaker connects to a plain ldap:// endpoint and upgrades the
// connection with the StartTLS extended operation.
type StartTLSHandshaker struct {
	Timeout time.Duration
	Config  *tls.Config
}

// Handshake implements Handshaker.
func (h *StartTLSHandshaker) Handshake(ctx context.Context, host string, port int) ([][]byte, error) {
	return ldapHandshake(ctx, "ldap", host, port, h.Timeout, captureConfig(h.Config, host), true)
}

func ldapHandshake(ctx context.Context, scheme, host string, port int, timeout time.Duration, cfg *tls.Config, startTLS bool) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := ldap.DialURL(
		scheme+"://"+addr,
		ldap.DialWithTLSConfig(cfg),
		ldap.DialWithDialer(netDialer(ctx, timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if startTLS {
		if err := conn.StartTLS(cfg); err != nil {
			return nil, fmt.Errorf("starttls with %s: %w", addr, err)
		}
	}

	state, ok := conn.TLSConnectionState()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTLSState, addr)
	}

	return rawCertificates(state), nil
}

func netDialer(ctx context.Context, timeout time.Duration) *net.Dialer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := &net.Dialer{Timeout: timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	return dialer
}

// captureConfig prepares a TLS config that accepts any chain; the point of
// the handshake is to read the chain, not to trust it.
func captureConfig(base *tls.Config, host string) *tls.Config {
	var cfg *tls.Config
	if base != nil {
		cfg = base.Clone()
	} else {
		cfg = &tls.Config{}
	}
	cfg.InsecureSkipVerify = true
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	return cfg
}

func rawCertificates(state tls.ConnectionState) [][]byte {
	raw := make([][]byte, 0, len(state.PeerCertificates))
	for _, cert := range state.PeerCertificates {
		raw = append(raw, append([]byte(nil), cert.Raw...))
	}
	return raw
}
