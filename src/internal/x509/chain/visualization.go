// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
)

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// Each line is marked "✓" when the certificate names the next one as its
// issuer (or is the last certificate) and "✗" where the link is missing.
//
// Returns:
//   - string: ASCII tree representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree() string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i, cert := range ch.Certs {
		isLast := i == len(ch.Certs)-1

		connector := "├── "
		if isLast {
			connector = "└── "
		}

		statusIcon := "✓"
		if !isLast && !x509certs.IssuedBy(cert, ch.Certs[i+1]) {
			statusIcon = "✗"
		}

		certInfo := fmt.Sprintf("[%s] %s (%s)", statusIcon, x509certs.FirstCommonName(cert.Subject), ch.getCertificateRole(i))
		result.WriteString(connector + certInfo + "\n")
	}

	return result.String()
}

// RenderTable renders the certificate chain as a formatted markdown table.
//
// It displays role, subject, issuer, validity window and serial number for
// each certificate using tablewriter.
//
// Returns:
//   - string: Markdown table representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable() string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"#", "Role", "Subject", "Issuer", "Valid From", "Valid Until", "Serial"}
	table.Header(headers)

	var rows [][]string
	for i, cert := range ch.Certs {
		s := x509certs.Summarize(cert, i == len(ch.Certs)-1)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.getCertificateRole(i),
			s.SubjectCN,
			s.IssuerCN,
			s.NotBefore.Format(time.DateOnly),
			s.NotAfter.Format(time.DateOnly),
			s.SerialString(),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// Report is the JSON document produced by [Chain.ToReportJSON].
type Report struct {
	GeneratedAt string `json:"generatedAt"`
	Valid       bool   `json:"valid"`
	Message     string `json:"message"`
	ChainLength int    `json:"chainLength"`
	// Intermediates counts the certificates between the leaf and the last one.
	Intermediates int                 `json:"intermediates"`
	Certificates  []ReportCertificate `json:"certificates"`
}

// ReportCertificate describes one certificate of a [Report].
type ReportCertificate struct {
	Index        int       `json:"index"`
	Role         string    `json:"role"`
	Label        string    `json:"label"`
	Subject      string    `json:"subject"`
	Issuer       string    `json:"issuer"`
	SubjectCN    string    `json:"subjectCommonName"`
	IssuerCN     string    `json:"issuerCommonName"`
	SerialNumber string    `json:"serialNumber"`
	NotBefore    time.Time `json:"notBefore"`
	NotAfter     time.Time `json:"notAfter"`
	SelfSigned   bool      `json:"selfSigned"`
	IssuedByNext bool      `json:"issuedByNext"`
	PEM          string    `json:"pem"`
}

// ToReportJSON converts the chain and its validation verdict to indented JSON.
//
// Parameters:
//   - res: Verdict previously computed for this chain
//
// Returns:
//   - []byte: JSON representation of the report
//   - error: Error if JSON marshaling fails
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ToReportJSON(res Result) ([]byte, error) {
	intermediates := len(ch.FilterIntermediates())

	ch.mu.RLock()
	defer ch.mu.RUnlock()

	report := Report{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Valid:         res.Valid,
		Message:       res.Message,
		ChainLength:   len(ch.Certs),
		Intermediates: intermediates,
		Certificates:  make([]ReportCertificate, len(ch.Certs)),
	}

	for i, cert := range ch.Certs {
		isLast := i == len(ch.Certs)-1
		s := x509certs.Summarize(cert, isLast)
		report.Certificates[i] = ReportCertificate{
			Index:        i,
			Role:         ch.getCertificateRole(i),
			Label:        s.Label(),
			Subject:      cert.Subject.String(),
			Issuer:       cert.Issuer.String(),
			SubjectCN:    s.SubjectCN,
			IssuerCN:     s.IssuerCN,
			SerialNumber: s.SerialString(),
			NotBefore:    s.NotBefore,
			NotAfter:     s.NotAfter,
			SelfSigned:   s.SelfSigned,
			IssuedByNext: !isLast && x509certs.IssuedBy(cert, ch.Certs[i+1]),
			PEM:          string(ch.EncodePEM(cert)),
		}
	}

	return json.MarshalIndent(report, "", "  ")
}

// getCertificateRole determines the role of a certificate in the chain.
//
// Parameters:
//   - index: Zero-based position of the certificate in the chain
//
// Returns:
//   - string: Role description
//
// Thread Safety: Callers must hold ch.mu.
func (ch *Chain) getCertificateRole(index int) string {
	total := len(ch.Certs)
	selfSigned := x509certs.IsStructurallySelfSigned(ch.Certs[index])
	switch {
	case total == 1 && selfSigned:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity (Server/Leaf) Certificate"
	case index == total-1 && selfSigned:
		return "Root CA Certificate"
	case index == total-1:
		return "Last Presented CA Certificate"
	case selfSigned:
		return "Self-Signed CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}
