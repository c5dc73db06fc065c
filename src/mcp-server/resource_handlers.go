// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	x509chain "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// markdownResources maps documentation URIs to their embedded files.
var markdownResources = map[string]string{
	uriPassboltLDAPS:      templates.PassboltLDAPS,
	uriCertificateFormats: templates.CertificateFormats,
}

// handleConfigResource returns the default configuration as JSON, in the
// shape accepted by the configuration file.
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(config.Default(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uriConfigTemplate,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleVersionResource returns server metadata: name, version, tool names,
// handshake methods and output formats.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tools, toolsWithConfig := createTools()

	var names []string
	for _, t := range tools {
		names = append(names, t.Tool.Name)
	}
	for _, t := range toolsWithConfig {
		names = append(names, t.Tool.Name)
	}

	info := map[string]any{
		"name":    serverName,
		"version": appVersion,
		"tools":   names,
		"methods": []string{x509chain.MethodLDAPS, x509chain.MethodStartTLS, x509chain.MethodTLS},
		"formats": []string{"pem", "der", formatJSON},
	}

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uriVersion,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleMarkdownResource serves an embedded documentation file.
func handleMarkdownResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	name, ok := markdownResources[uri]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", uri)
	}

	content, err := templates.MagicEmbed.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     string(content),
		},
	}, nil
}
