// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/retriever"
	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// formatJSON selects the JSON chain report instead of a bundle.
const formatJSON = "json"

// errInvalidInput is returned when a certificate argument is neither a
// readable file, PEM text nor base64.
var errInvalidInput = errors.New("not a valid file path, PEM data or base64 data")

// handleFetchLDAPSChain handles the fetch_ldaps_chain tool.
//
// It connects to the requested server with the configured handshake method,
// captures the presented chain and reports the validation verdict, a
// per-certificate summary and the bundle. An invalid chain is still
// reported as a successful tool call; only connection, argument and
// encoding problems produce tool errors.
func handleFetchLDAPSChain(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error) {
	hostname, err := request.RequireString("hostname")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hostname parameter required: %v", err)), nil
	}

	port := request.GetInt("port", cfg.Port)
	if port < 1 || port > 65535 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid port %d: must be between 1 and 65535", port)), nil
	}

	method := request.GetString("method", cfg.Method)
	format := strings.ToLower(strings.TrimSpace(request.GetString("format", cfg.Format)))
	verify := request.GetBool("verify_signatures", cfg.VerifySignatures)
	debug := request.GetBool("debug", cfg.Debug)

	var enc x509certs.Encoding
	if format != formatJSON {
		if enc, err = x509certs.ParseEncoding(format); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	handshaker, err := x509chain.NewHandshaker(method, cfg.Timeout())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := retriever.New(handshaker)
	if verify {
		r.Validator = x509chain.NewValidator(x509chain.CryptoVerifier{})
	}

	diag := gc.Default.Get()
	defer gc.Default.Put(diag)
	if debug {
		log := logger.NewCLILogger().WithColor(false)
		log.SetOutput(diag)
		r.Log = log
		r.Debug = true
	}

	res, err := r.Retrieve(ctx, hostname, port)
	if err != nil {
		return mcp.NewToolResultError("failed to retrieve certificate chain: " + retriever.Message(err)), nil
	}

	ch, err := res.Parsed()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse certificate chain: %v", err)), nil
	}

	if format == formatJSON {
		report, err := ch.ToReportJSON(res.Validation)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build report: %v", err)), nil
		}
		return mcp.NewToolResultText(string(report)), nil
	}

	bundle, err := ch.Bundle(enc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode bundle: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("LDAPS Certificate Chain Results:\n")
	fmt.Fprintf(&b, "Host: %s:%d\n", res.Host, res.Port)
	fmt.Fprintf(&b, "Method: %s\n", methodName(method))
	fmt.Fprintf(&b, "Certificates received: %d\n", ch.Len())
	writeVerdict(&b, res.Validation)
	b.WriteString("\n")
	writeSummaries(&b, ch)
	b.WriteString("\n")
	writeBundle(&b, enc, bundle)

	if debug && diag.Len() > 0 {
		b.WriteString("\n\nDiagnostics:\n")
		b.WriteString(strings.TrimLeft(diag.String(), "\n"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleValidateCertChain handles the validate_cert_chain tool.
func handleValidateCertChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	certs, err := decodeCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var verifier x509chain.SignatureVerifier
	if request.GetBool("verify_signatures", false) {
		verifier = x509chain.CryptoVerifier{}
	}

	ch := x509chain.New(certs...)
	verdict := ch.Validate(x509chain.NewValidator(verifier))

	var b strings.Builder
	b.WriteString("Certificate Chain Validation Results:\n")
	fmt.Fprintf(&b, "Certificates: %d\n", ch.Len())
	writeVerdict(&b, verdict)
	b.WriteString("\n")
	b.WriteString(ch.RenderASCIITree())

	return mcp.NewToolResultText(b.String()), nil
}

// handleFormatCertificate handles the format_certificate tool.
func handleFormatCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	enc, err := x509certs.ParseEncoding(request.GetString("format", string(x509certs.EncodingPEM)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	certs, err := decodeCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle, err := x509chain.New(certs...).Bundle(enc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode certificates: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Certificates: %d\n", len(certs))
	writeBundle(&b, enc, bundle)

	return mcp.NewToolResultText(b.String()), nil
}

// readCertificateInput resolves a certificate argument. A readable file
// wins, then PEM text, then base64.
func readCertificateInput(input string) ([]byte, error) {
	if data, err := os.ReadFile(input); err == nil {
		return data, nil
	}

	trimmed := strings.TrimSpace(input)
	if x509certs.New().IsPEM([]byte(trimmed)) {
		return []byte(trimmed), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", errInvalidInput)
	}

	return decoded, nil
}

// decodeCertificateInput reads a certificate argument and parses every
// certificate in it.
func decodeCertificateInput(input string) ([]*x509.Certificate, error) {
	data, err := readCertificateInput(input)
	if err != nil {
		return nil, err
	}

	certs, err := x509certs.New().DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("failed to decode certificate: %w", x509certs.ErrParseCertificate)
	}

	return certs, nil
}

func writeVerdict(b *strings.Builder, verdict x509chain.Result) {
	fmt.Fprintf(b, "Validation: %s\n", verdict.Message)
	fmt.Fprintf(b, "Valid: %t\n", verdict.Valid)
}

func writeSummaries(b *strings.Builder, ch *x509chain.Chain) {
	for _, s := range ch.Summaries() {
		b.WriteString(s.Heading() + "\n")
		b.WriteString(s.NamesLine() + "\n")
		b.WriteString(s.ValidityLine() + "\n")
		b.WriteString(s.SerialLine() + "\n")
	}
}

// writeBundle appends the bundle; DER is base64 encoded so it survives a
// text result.
func writeBundle(b *strings.Builder, enc x509certs.Encoding, bundle []byte) {
	if enc == x509certs.EncodingDER {
		b.WriteString("Format: DER (base64 encoded)\n\n")
		b.WriteString(base64.StdEncoding.EncodeToString(bundle))
		return
	}

	b.WriteString("Format: PEM\n\n")
	b.Write(bundle)
}

func methodName(method string) string {
	if m := strings.ToLower(strings.TrimSpace(method)); m != "" {
		return m
	}
	return x509chain.MethodLDAPS
}
