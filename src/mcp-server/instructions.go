// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/mcp-server/templates"
)

// instructionData holds the data used to populate the instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // role -> tool name
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the instructions template with the registered
// tools, so the text sent to clients never names a tool that is missing.
//
// Returns:
//   - string: The rendered instruction text
//   - error: If the embedded file cannot be read or template execution fails
func loadInstructions(tools []ToolDefinition, toolsWithConfig []ToolDefinitionWithConfig) (string, error) {
	templateBytes, err := templates.MagicEmbed.ReadFile(templates.Instructions)
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	data := instructionData{ToolRoles: make(map[string]string)}
	add := func(name, description, role string) {
		data.Tools = append(data.Tools, toolInfo{Name: name, Description: description})
		if role != "" {
			data.ToolRoles[role] = name
		}
	}
	for _, tool := range tools {
		add(tool.Tool.Name, tool.Tool.Description, tool.Role)
	}
	for _, tool := range toolsWithConfig {
		add(tool.Tool.Name, tool.Tool.Description, tool.Role)
	}

	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}
