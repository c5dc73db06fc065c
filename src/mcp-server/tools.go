// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools returns every built-in tool definition.
//
// Returns:
//   - A slice of ToolDefinition for tools without config dependencies
//   - A slice of ToolDefinitionWithConfig for tools that take their defaults from the server configuration
//
// The function defines the following tools:
//   - fetch_ldaps_chain: Retrieves and validates the chain presented by a directory server
//   - validate_cert_chain: Validates a chain supplied by the client
//   - format_certificate: Re-encodes certificates as PEM or DER
func createTools() ([]ToolDefinition, []ToolDefinitionWithConfig) {
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("validate_cert_chain",
				mcp.WithDescription("Validate the ordering of a X509 certificate chain (leaf first) supplied as a file path, PEM text, or base64-encoded DER/PKCS#7 data"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Certificate file path, PEM bundle, or base64-encoded certificate data"),
				),
				mcp.WithBoolean("verify_signatures",
					mcp.Description("Also verify that each certificate is signed by the next one (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: handleValidateCertChain,
			Role:    "chainValidator",
		},
		{
			Tool: mcp.NewTool("format_certificate",
				mcp.WithDescription("Convert certificates between PEM and DER (base64-encoded) encodings"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Certificate file path, PEM bundle, or base64-encoded certificate data"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'pem' or 'der' (default: pem)"),
					mcp.DefaultString("pem"),
				),
			),
			Handler: handleFormatCertificate,
			Role:    "formatter",
		},
	}

	toolsWithConfig := []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("fetch_ldaps_chain",
				mcp.WithDescription("Connect to an LDAP directory server, capture the certificate chain it presents during the TLS handshake, and validate its ordering"),
				mcp.WithString("hostname",
					mcp.Required(),
					mcp.Description("Directory server hostname (e.g., ldap.example.com)"),
				),
				mcp.WithNumber("port",
					mcp.Description("Server port (default: configured port, usually 636)"),
				),
				mcp.WithString("method",
					mcp.Description("Connection method: 'ldaps', 'starttls', or 'tls' (default: configured method)"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'pem', 'der', or 'json' (default: configured format)"),
				),
				mcp.WithBoolean("verify_signatures",
					mcp.Description("Also verify that each certificate is signed by the next one (default: configured value)"),
				),
				mcp.WithBoolean("debug",
					mcp.Description("Include connection diagnostics and per-certificate details (default: configured value)"),
				),
			),
			Handler: handleFetchLDAPSChain,
			Role:    "chainFetcher",
		},
	}

	return tools, toolsWithConfig
}
