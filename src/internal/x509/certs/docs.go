// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding and decoding of [X.509] certificates
// between PEM, DER and PKCS#7, the re-encoding used to assemble LDAPS trust
// bundles, and the short summary shown for each certificate in diagnostics.
//
// It also owns the structural self-signed predicate, [IsStructurallySelfSigned],
// which compares distinguished names only and proves nothing cryptographically.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509certs
