// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package retriever connects to an LDAPS server, captures the certificate
// chain it presents and validates the ordering of that chain.
//
// A [Retriever] ties together a [x509chain.Handshaker], which performs the
// network handshake, and a [x509chain.Validator]. The captured chain is kept
// as raw DER so it can be assembled into a PEM or DER trust bundle for
// Passbolt without any loss. A validation failure is advisory: the bundle is
// produced either way and the verdict is returned alongside it.
//
// Example usage:
//
//	h, _ := x509chain.NewHandshaker(x509chain.MethodLDAPS, 10*time.Second)
//	r := retriever.New(h)
//	res, err := r.Retrieve(ctx, "ldap.example.com", 636)
//	if err != nil {
//		return err
//	}
//	bundle, err := res.Bundle(x509certs.EncodingPEM)
package retriever
