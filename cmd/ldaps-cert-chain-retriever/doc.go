// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// ldaps-cert-chain-retriever is a command-line tool that retrieves the
// certificate chain presented by an LDAPS server and writes it as a trust
// bundle for Passbolt.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/cmd/ldaps-cert-chain-retriever@latest
//
// # Usage
//
//	ldaps-cert-chain-retriever [FLAGS]
//
// Running without flags prints the help text.
//
// # Flags
//
//	-s, --server             LDAP server hostname (default: host.yourldapdomain.com)
//	-p, --port               LDAPS port (default: 636)
//	-t, --test               Use ldap.google.com with fallback to ldap.forumsys.com
//	    --debug              Print connection and per-certificate diagnostics to stderr
//	-f, --format             Output format: pem or der (default: pem)
//	-o, --output             Output file path (default: stdout)
//	-m, --method             Handshake method: ldaps, starttls or tls (default: ldaps)
//	    --timeout            Handshake timeout in seconds (default: 10)
//	-c, --config             Configuration file (.json, .yaml, .yml)
//	    --verify-signatures  Also verify the signature of every link
//	    --tree               Display the chain as an ASCII tree
//	    --table              Display the chain as a markdown table
//	    --json               Emit a JSON report
//
// Every setting can also be provided through a configuration file or an
// LDAPS_CHAIN_* environment variable (for example LDAPS_CHAIN_SERVER);
// explicitly set flags take precedence.
//
// # Examples
//
// Write the chain of a directory server to a PEM bundle:
//
//	ldaps-cert-chain-retriever --server ldap.example.com -o ldaps_bundle.crt
//
// Try the public test servers with diagnostics:
//
//	ldaps-cert-chain-retriever --test --debug
//
// Inspect a server that only offers StartTLS on port 389:
//
//	ldaps-cert-chain-retriever -s ldap.example.com -p 389 -m starttls --tree
//
// A chain that is not properly ordered is still written; run with --debug to
// see the validation verdict.
package main
