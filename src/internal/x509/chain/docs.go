// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain implements [X.509] certificate chain validation for chains
// captured from LDAPS servers. It provides capabilities to:
//   - Validate the ordering of a presented chain (see [Validator]).
//   - Capture the chain offered during a TLS, LDAPS or StartTLS handshake.
//   - Assemble PEM or DER trust bundles from a captured chain.
//   - Render a chain as an ASCII tree, a markdown table or a JSON report.
//
// Validation is structural: adjacent certificates must name each other as
// issuer and subject, and a certificate whose subject equals its issuer is
// treated as self-signed. No signature is checked unless a [SignatureVerifier]
// is configured, and revocation, policies and expiry are out of scope.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
