// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the LDAPS certificate chain retriever.
// It implements a Cobra-based CLI that connects to an LDAPS server, validates the order of
// the certificate chain it presents and writes the chain as a PEM or DER bundle for
// Passbolt, or renders it as an ASCII tree, markdown table or JSON report.
// Settings come from the config package and are overridden by explicitly set flags.
// Diagnostics are written through the logger package to standard error so that the
// bundle on standard output stays clean.
package cli
