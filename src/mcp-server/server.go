// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/version"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var appVersion = version.Version // default version

// GetVersion returns the version reported by the server.
func GetVersion() string {
	return appVersion
}

// Options configures [Run].
type Options struct {
	// Version is reported to clients. Empty keeps the build version.
	Version string
	// ConfigPath is the configuration file; empty falls back to the
	// LDAPS_CHAIN_CONFIG_FILE environment variable.
	ConfigPath string
	// In and Out carry the JSON-RPC stream. Nil means os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
	// Log receives server diagnostics. It must not write to Out.
	Log logger.Logger
}

// Run serves the LDAPS chain tools over stdio until ctx is canceled or the
// input stream ends.
//
// Server Lifecycle:
//  1. Load configuration (file, .env, environment)
//  2. Render instructions from the registered tools
//  3. Build the MCP server using ServerBuilder
//  4. Listen on the stdio stream with ctx cancellation
//
// Returns:
//   - error: Configuration, build or transport error; a canceled ctx is
//     reported wrapped as "server shutdown"
func Run(ctx context.Context, opts Options) error {
	if opts.Version != "" {
		appVersion = opts.Version
	}
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tools, toolsWithConfig := createTools()
	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithLogger(log).
		WithVersion(appVersion).
		WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithResources(createResources()...).
		WithInstructions(instructions).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	stdioServer := server.NewStdioServer(s)

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}

// NewRootCommand returns the cobra command of the MCP server binary.
//
// Flags:
//   - --config: configuration file shared with the CLI
//   - --instructions: print the rendered workflows and exit
//
// Without --instructions the command serves MCP on its input and output
// streams; diagnostics go to log, which should write to stderr.
func NewRootCommand(ver string, log logger.Logger) *cobra.Command {
	var (
		configFile       string
		showInstructions bool
	)

	exeName := posix.ExecutableName("ldaps-cert-chain-mcp")

	cmd := &cobra.Command{
		Use:           exeName,
		Short:         "LDAPS certificate chain retriever as an MCP server",
		Long:          "Serves LDAPS certificate chain retrieval, validation and formatting as MCP tools over stdio.",
		Version:       ver,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showInstructions {
				text, err := loadInstructions(createTools())
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			}

			return Run(cmd.Context(), Options{
				Version:    ver,
				ConfigPath: configFile,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
				Log:        log,
			})
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to configuration file (JSON or YAML)")
	cmd.Flags().BoolVar(&showInstructions, "instructions", false, "print usage workflows for the tools and exit")

	return cmd
}
