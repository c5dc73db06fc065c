// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates embeds the markdown files served by the MCP server: the
// instructions template sent to clients on initialization and the
// documentation resources for Passbolt LDAPS setup and certificate formats.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/mcp-server/templates"
//
//	entries, err := templates.MagicEmbed.ReadDir(".")
//	if err != nil {
//		return fmt.Errorf("failed to list templates: %w", err)
//	}
package templates
