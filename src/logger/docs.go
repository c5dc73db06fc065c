// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface, which doubles as the diagnostics sink used by the
// retriever (see [Logger.Emit]), and provides two implementations: CLILogger for
// colored human-readable command-line output and MCPLogger for structured JSON logging
// in MCP server environments. Both implementations are safe for concurrent use.
package logger
