// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serverName is reported to MCP clients during initialization.
const serverName = "LDAPS Certificate Chain Retriever"

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithConfig defines tool handlers that read their defaults
// (port, method, format, timeout) from the server configuration.
//
// The configuration passed in is never nil.
type ToolHandlerWithConfig func(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error)

// ToolDefinition holds a tool definition and its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Short key used by the instructions template to refer to the tool
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithConfig holds a tool definition that requires configuration access.
type ToolDefinitionWithConfig struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithConfig
	Role    string
}

// ServerDependencies holds everything needed to create the MCP server.
//
// Fields:
//   - Config: Defaults for tools that connect to directory servers
//   - Log: Sink for server side diagnostics; stdout belongs to the protocol
//   - Version: Server version string
//   - Instructions: Text returned to clients on initialization
//   - Tools: Tool definitions without configuration requirements
//   - ToolsWithConfig: Tool definitions that need configuration access
//   - Resources: Static and dynamic resources provided by the server
type ServerDependencies struct {
	Config          *config.Config
	Log             logger.Logger
	Version         string
	Instructions    string
	Tools           []ToolDefinition
	ToolsWithConfig []ToolDefinitionWithConfig
	Resources       []server.ServerResource
}

// ServerBuilder helps construct the [MCP] server with a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(cfg).
//	    WithVersion("1.0.0").
//	    WithDefaultTools().
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with no dependencies configured.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the configuration used as tool defaults. A nil config
// falls back to [config.Default] at build time.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.deps.Config = cfg
	return b
}

// WithLogger sets the diagnostics sink.
func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.deps.Log = log
	return b
}

// WithVersion sets the server version.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithInstructions sets the instructions sent to clients on initialization.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithTools appends tools that don't need configuration.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithConfig appends tools that read configuration defaults.
func (b *ServerBuilder) WithToolsWithConfig(tools ...ToolDefinitionWithConfig) *ServerBuilder {
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, tools...)
	return b
}

// WithResources appends resources.
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithDefaultTools registers the built-in tools and resources.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	tools, toolsWithConfig := createTools()
	return b.WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithResources(createResources()...)
}

// Build creates the MCP server from the configured dependencies.
//
// Returns:
//   - *server.MCPServer: Server ready to be served over a transport
//   - error: Always nil today; kept so transports can fail construction
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	cfg := b.deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	log := b.deps.Log
	if log == nil {
		log = logger.Discard
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(serverName, b.deps.Version, opts...)

	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	for _, tool := range b.deps.ToolsWithConfig {
		s.AddTool(tool.Tool, bindConfig(tool.Handler, cfg))
	}

	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	log.Emit(logger.LevelInfo, serverName+" "+b.deps.Version+" ready")

	return s, nil
}

// bindConfig adapts a config-aware handler to the plain [ToolHandler] shape.
func bindConfig(h ToolHandlerWithConfig, cfg *config.Config) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h(ctx, request, cfg)
	}
}
