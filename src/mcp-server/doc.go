// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes LDAPS certificate chain retrieval and validation
// as [MCP] tools over stdio.
//
// Three tools are registered by default:
//   - fetch_ldaps_chain: handshakes with a directory server and returns the
//     presented chain, its validation verdict and a bundle
//   - validate_cert_chain: validates a chain given as a file path, PEM text
//     or base64 encoded DER/PKCS#7
//   - format_certificate: re-encodes certificates as PEM or DER
//
// Resources describe the configuration template, server version and the
// Passbolt LDAPS setup notes. The server is assembled with [ServerBuilder].
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
