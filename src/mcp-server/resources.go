// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs served by the default server.
const (
	uriConfigTemplate     = "config://template"
	uriVersion            = "info://version"
	uriPassboltLDAPS      = "docs://passbolt-ldaps"
	uriCertificateFormats = "docs://certificate-formats"
)

// createResources returns the static resources registered by
// [ServerBuilder.WithDefaultTools].
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(
				uriConfigTemplate,
				"Configuration Template",
				mcp.WithResourceDescription("Example configuration file with default values"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource(
				uriVersion,
				"Version Information",
				mcp.WithResourceDescription("Server version, tools and supported formats"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource(
				uriPassboltLDAPS,
				"Passbolt LDAPS Setup",
				mcp.WithResourceDescription("Bundle layout, validation messages and troubleshooting for Passbolt LDAPS"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleMarkdownResource,
		},
		{
			Resource: mcp.NewResource(
				uriCertificateFormats,
				"Certificate Formats",
				mcp.WithResourceDescription("PEM, DER and PKCS#7 encodings accepted and produced by the tools"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleMarkdownResource,
		},
	}
}
