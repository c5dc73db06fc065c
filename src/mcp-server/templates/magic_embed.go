// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.md
var embeddedFS embed.FS

// Template file names.
const (
	Instructions       = "instructions.md"
	PassboltLDAPS      = "passbolt-ldaps.md"
	CertificateFormats = "certificate-formats.md"
)

// EmbedFS defines the interface for accessing embedded template files.
// It abstracts the [embed.FS] type so callers and tests can substitute
// their own file set.
type EmbedFS interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Open(name string) (fs.File, error)
}

// MagicEmbed is the embedded filesystem holding the markdown templates:
// the server instructions and the documentation resources.
//
// Example usage:
//
//	content, err := templates.MagicEmbed.ReadFile(templates.PassboltLDAPS)
//	if err != nil {
//		return fmt.Errorf("failed to read Passbolt notes: %w", err)
//	}
var MagicEmbed EmbedFS = embeddedFS
