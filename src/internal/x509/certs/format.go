// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when an encoding other than PEM or DER is requested.
// It signals a caller or configuration mistake and is never swallowed.
var ErrUnsupportedFormat = errors.New("x509certs: unsupported format")

// Encoding names an output encoding for certificates and bundles.
type Encoding string

const (
	// EncodingPEM is base64 text framed by BEGIN/END CERTIFICATE lines.
	EncodingPEM Encoding = "pem"
	// EncodingDER is the canonical binary encoding.
	EncodingDER Encoding = "der"
)

// ParseEncoding maps a user supplied name such as "PEM" or "der" to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch enc := Encoding(strings.ToLower(strings.TrimSpace(name))); enc {
	case EncodingPEM, EncodingDER:
		return enc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Format parses raw as a DER certificate and re-serializes it as enc.
//
// Parse failures are reported before the encoding is looked at, so a bad
// certificate with a bad encoding yields the parse error.
func (c *Certificate) Format(raw []byte, enc Encoding) ([]byte, error) {
	cert, err := c.DecodeDER(raw)
	if err != nil {
		return nil, err
	}

	switch enc {
	case EncodingPEM:
		return c.EncodePEM(cert), nil
	case EncodingDER:
		return c.EncodeDER(cert), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(enc))
	}
}
