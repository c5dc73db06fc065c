// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// mcp-server serves LDAPS certificate chain retrieval as MCP tools over
// stdio, for assistants that prepare Passbolt LDAPS trust bundles.
//
// # Usage
//
//	ldaps-cert-chain-mcp [--config FILE] [--instructions]
//
// The server reads the same configuration file and LDAPS_CHAIN_* environment
// variables as the command-line tool; they provide the defaults for the
// fetch_ldaps_chain tool. Set LDAPS_CHAIN_DEBUG=true to log JSON diagnostics
// to stderr.
package main
