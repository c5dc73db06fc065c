// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/x509test"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root, intermediate, leaf *x509test.Issued
	impostor                 *x509test.Issued
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{}
	f.root = x509test.NewRoot(t, "Corp Root CA")
	f.intermediate = f.root.Issue(t, "Corp Issuing CA", true)
	f.leaf = f.intermediate.Issue(t, "ldap.corp.test", false)
	f.impostor = f.root.Issue(t, "Corp Issuing CA", true)
	return f
}

// serveChain starts a local TLS listener that presents presented, in order,
// to every client.
func serveChain(t *testing.T, presented ...*x509test.Issued) (string, int) {
	t.Helper()

	leaf := presented[0]
	tlsCert := tls.Certificate{PrivateKey: leaf.Key, Leaf: leaf.Cert}
	for _, issued := range presented {
		tlsCert.Certificate = append(tlsCert.Certificate, issued.Cert.Raw)
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{tlsCert}})
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				if err := c.(*tls.Conn).Handshake(); err != nil {
					return
				}
				_, _ = io.Copy(io.Discard, c)
			}(conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func pemBundle(issued ...*x509test.Issued) string {
	var buf bytes.Buffer
	for _, i := range issued {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: i.Cert.Raw})
	}
	return buf.String()
}

func derBase64(issued ...*x509test.Issued) string {
	var raw []byte
	for _, i := range issued {
		raw = append(raw, i.Cert.Raw...)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// startTestServer registers the built-in tools and resources on an
// in-memory MCP server. Config-aware tools receive cfg.
func startTestServer(t *testing.T, cfg *config.Config) *mcptest.Server {
	t.Helper()

	tools, toolsWithConfig := createTools()

	var serverTools []server.ServerTool
	for _, tool := range tools {
		serverTools = append(serverTools, server.ServerTool{Tool: tool.Tool, Handler: tool.Handler})
	}
	for _, tool := range toolsWithConfig {
		serverTools = append(serverTools, server.ServerTool{Tool: tool.Tool, Handler: bindConfig(tool.Handler, cfg)})
	}

	srv := mcptest.NewUnstartedServer(t)
	srv.AddTools(serverTools...)
	srv.AddResources(createResources()...)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Close)

	return srv
}

func textOf(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TimeoutSeconds = 5
	return cfg
}

func TestTools(t *testing.T) {
	f := newFixture(t)
	host, port := serveChain(t, f.leaf, f.intermediate, f.root)
	misHost, misPort := serveChain(t, f.leaf, f.root, f.intermediate)

	bundlePath := filepath.Join(t.TempDir(), "bundle.pem")
	require.NoError(t, os.WriteFile(bundlePath, []byte(pemBundle(f.leaf, f.intermediate)), 0o644))

	srv := startTestServer(t, testConfig())
	mcpClient := srv.Client()

	tests := []struct {
		name        string
		tool        string
		args        map[string]any
		wantErr     bool
		contains    []string
		notContains []string
	}{
		{
			name: "fetch_ldaps_chain PEM over LDAPS",
			tool: "fetch_ldaps_chain",
			args: map[string]any{"hostname": host, "port": port},
			contains: []string{
				"LDAPS Certificate Chain Results:",
				"Host: " + host,
				"Method: ldaps",
				"Certificates received: 3",
				"Validation: Certificate chain is valid and ends with self-signed root CA",
				"Valid: true",
				"Certificate:\n  Subject: ldap.corp.test | Issuer: Corp Issuing CA",
				"Self-signed Root Certificate:",
				"Format: PEM",
				"-----BEGIN CERTIFICATE-----",
			},
			notContains: []string{"Diagnostics:"},
		},
		{
			name:     "fetch_ldaps_chain DER over bare TLS",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": port, "method": "tls", "format": "der"},
			contains: []string{"Method: tls", "Format: DER (base64 encoded)", derBase64(f.leaf, f.intermediate, f.root)},
		},
		{
			name:     "fetch_ldaps_chain JSON report",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": port, "format": "JSON"},
			contains: []string{`"valid": true`, `"chainLength": 3`, `"role": "End-Entity (Server/Leaf) Certificate"`},
		},
		{
			name: "fetch_ldaps_chain reports a misordered chain",
			tool: "fetch_ldaps_chain",
			args: map[string]any{"hostname": misHost, "port": misPort},
			contains: []string{
				"Validation: Certificate chain broken at position 0: issuer does not match next certificate's subject",
				"Valid: false",
				"-----BEGIN CERTIFICATE-----",
			},
		},
		{
			name: "fetch_ldaps_chain debug diagnostics",
			tool: "fetch_ldaps_chain",
			args: map[string]any{"hostname": host, "port": port, "debug": true},
			contains: []string{
				"Diagnostics:\nConnecting to " + host,
				"Found 3 certificates in chain",
				"Certificate Chain Validation: Certificate chain is valid and ends with self-signed root CA",
			},
		},
		{
			name:     "fetch_ldaps_chain verifies signatures",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": port, "verify_signatures": true},
			contains: []string{"Valid: true"},
		},
		{
			name:     "fetch_ldaps_chain missing hostname",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{},
			wantErr:  true,
			contains: []string{"hostname parameter required"},
		},
		{
			name:     "fetch_ldaps_chain invalid port",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": 70000},
			wantErr:  true,
			contains: []string{"invalid port 70000"},
		},
		{
			name:     "fetch_ldaps_chain unsupported format",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": port, "format": "p12"},
			wantErr:  true,
			contains: []string{"unsupported format"},
		},
		{
			name:     "fetch_ldaps_chain unknown method",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": host, "port": port, "method": "smoke-signal"},
			wantErr:  true,
			contains: []string{"unknown handshake method"},
		},
		{
			name:     "fetch_ldaps_chain connection refused",
			tool:     "fetch_ldaps_chain",
			args:     map[string]any{"hostname": "127.0.0.1", "port": closedPort(t), "method": "tls"},
			wantErr:  true,
			contains: []string{"failed to retrieve certificate chain"},
		},
		{
			name: "validate_cert_chain PEM text",
			tool: "validate_cert_chain",
			args: map[string]any{"certificate": pemBundle(f.leaf, f.intermediate, f.root)},
			contains: []string{
				"Certificates: 3",
				"Validation: Certificate chain is valid and ends with self-signed root CA",
				"Valid: true",
			},
		},
		{
			name:     "validate_cert_chain file path",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": bundlePath},
			contains: []string{"Certificates: 2", "Validation: Certificate chain is valid and properly ordered"},
		},
		{
			name:     "validate_cert_chain base64 DER",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": derBase64(f.leaf, f.root, f.intermediate)},
			contains: []string{"Validation: Certificate chain broken at position 0", "Valid: false"},
		},
		{
			name:     "validate_cert_chain single self-signed",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": pemBundle(f.root)},
			contains: []string{"Validation: Valid self-signed certificate"},
		},
		{
			name:     "validate_cert_chain signature mismatch",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": pemBundle(f.leaf, f.impostor, f.root), "verify_signatures": true},
			contains: []string{"Validation: Signature verification failed at position 0", "Valid: false"},
		},
		{
			name:     "validate_cert_chain structural only ignores impostor",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": pemBundle(f.leaf, f.impostor, f.root)},
			contains: []string{"Valid: true"},
		},
		{
			name:     "validate_cert_chain garbage input",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": "not a certificate!"},
			wantErr:  true,
			contains: []string{"not a valid file path, PEM data or base64 data"},
		},
		{
			name:     "validate_cert_chain undecodable base64",
			tool:     "validate_cert_chain",
			args:     map[string]any{"certificate": base64.StdEncoding.EncodeToString([]byte("hello"))},
			wantErr:  true,
			contains: []string{"failed to decode certificate"},
		},
		{
			name:     "format_certificate PEM to DER",
			tool:     "format_certificate",
			args:     map[string]any{"certificate": pemBundle(f.leaf, f.intermediate), "format": "der"},
			contains: []string{"Certificates: 2", "Format: DER (base64 encoded)\n\n" + derBase64(f.leaf, f.intermediate)},
		},
		{
			name:     "format_certificate DER to PEM",
			tool:     "format_certificate",
			args:     map[string]any{"certificate": derBase64(f.leaf)},
			contains: []string{"Certificates: 1", "Format: PEM\n\n" + pemBundle(f.leaf)},
		},
		{
			name:     "format_certificate unsupported format",
			tool:     "format_certificate",
			args:     map[string]any{"certificate": pemBundle(f.leaf), "format": "pfx"},
			wantErr:  true,
			contains: []string{"unsupported format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := mcpClient.CallTool(context.Background(), mcp.CallToolRequest{
				Params: mcp.CallToolParams{Name: tt.tool, Arguments: tt.args},
			})
			require.NoError(t, err)
			require.NotNil(t, result)

			text := textOf(result)
			assert.Equal(t, tt.wantErr, result.IsError, "result: %s", text)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, text, unwanted)
			}
		})
	}
}

func TestFetchLDAPSChain_ConfigDefaults(t *testing.T) {
	f := newFixture(t)
	host, port := serveChain(t, f.leaf, f.intermediate)

	cfg := testConfig()
	cfg.Port = port
	cfg.Method = "tls"
	cfg.Format = "der"
	cfg.Debug = true

	srv := startTestServer(t, cfg)

	result, err := srv.Client().CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "fetch_ldaps_chain",
			Arguments: map[string]any{"hostname": host},
		},
	})
	require.NoError(t, err)

	text := textOf(result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Method: tls")
	assert.Contains(t, text, "Validation: Certificate chain is valid and properly ordered")
	assert.Contains(t, text, derBase64(f.leaf, f.intermediate))
	assert.Contains(t, text, "Diagnostics:")
}

func TestResources(t *testing.T) {
	srv := startTestServer(t, testConfig())
	mcpClient := srv.Client()

	tests := []struct {
		name     string
		uri      string
		wantErr  bool
		mimeType string
		contains []string
	}{
		{
			name:     "config template",
			uri:      "config://template",
			mimeType: "application/json",
			contains: []string{`"server": "host.yourldapdomain.com"`, `"port": 636`, `"method": "ldaps"`, `"timeoutSeconds": 10`},
		},
		{
			name:     "version info",
			uri:      "info://version",
			mimeType: "application/json",
			contains: []string{`"name": "LDAPS Certificate Chain Retriever"`, `"fetch_ldaps_chain"`, `"starttls"`},
		},
		{
			name:     "passbolt notes",
			uri:      "docs://passbolt-ldaps",
			mimeType: "text/markdown",
			contains: []string{"# Passbolt LDAPS Trust Bundle"},
		},
		{
			name:     "certificate formats",
			uri:      "docs://certificate-formats",
			mimeType: "text/markdown",
			contains: []string{"PKCS#7"},
		},
		{name: "unknown resource", uri: "nonexistent://resource", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := mcpClient.ReadResource(context.Background(), mcp.ReadResourceRequest{
				Params: mcp.ReadResourceParams{URI: tt.uri},
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, result.Contents, 1)

			content, ok := result.Contents[0].(mcp.TextResourceContents)
			require.True(t, ok, "expected text contents")
			assert.Equal(t, tt.uri, content.URI)
			assert.Equal(t, tt.mimeType, content.MIMEType)
			for _, want := range tt.contains {
				assert.Contains(t, content.Text, want)
			}
		})
	}
}

func TestHandleVersionResource_JSON(t *testing.T) {
	contents, err := handleVersionResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	var info struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Tools   []string `json:"tools"`
		Methods []string `json:"methods"`
		Formats []string `json:"formats"`
	}
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &info))

	assert.Equal(t, GetVersion(), info.Version)
	assert.ElementsMatch(t, []string{"fetch_ldaps_chain", "validate_cert_chain", "format_certificate"}, info.Tools)
	assert.Equal(t, []string{"ldaps", "starttls", "tls"}, info.Methods)
	assert.Equal(t, []string{"pem", "der", "json"}, info.Formats)
}

func TestLoadInstructions(t *testing.T) {
	text, err := loadInstructions(createTools())
	require.NoError(t, err)

	for _, want := range []string{
		"# LDAPS Certificate Chain Retriever",
		"- `fetch_ldaps_chain`: Connect to an LDAP directory server",
		"- `validate_cert_chain`:",
		"- `format_certificate`:",
		"Call `fetch_ldaps_chain` with the directory hostname",
		"Call `validate_cert_chain` with a file path",
		"Call `format_certificate` with `format`",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "{{")
}

func TestServerBuilder_Build(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewMCPLogger(&logs, false)

	tools, toolsWithConfig := createTools()
	instructions, err := loadInstructions(tools, toolsWithConfig)
	require.NoError(t, err)

	s, err := NewServerBuilder().
		WithLogger(log).
		WithVersion("9.9.9").
		WithInstructions(instructions).
		WithDefaultTools().
		Build()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Contains(t, logs.String(), "LDAPS Certificate Chain Retriever 9.9.9 ready")

	mcpClient, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	t.Cleanup(func() { mcpClient.Close() })

	ctx := context.Background()
	require.NoError(t, mcpClient.Start(ctx))

	initResult, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "LDAPS Certificate Chain Retriever", initResult.ServerInfo.Name)
	assert.Equal(t, "9.9.9", initResult.ServerInfo.Version)
	assert.Equal(t, instructions, initResult.Instructions)

	listed, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	var names []string
	for _, tool := range listed.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"fetch_ldaps_chain", "validate_cert_chain", "format_certificate"}, names)

	resources, err := mcpClient.ListResources(ctx, mcp.ListResourcesRequest{})
	require.NoError(t, err)
	assert.Len(t, resources.Resources, 4)

	// A nil config falls back to defaults: a missing host is an argument error,
	// not a panic.
	result, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "fetch_ldaps_chain", Arguments: map[string]any{}},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestDecodeCertificateInput_PKCS7(t *testing.T) {
	f := newFixture(t)

	p7Path := filepath.Join(t.TempDir(), "ca.p7b")
	require.NoError(t, os.WriteFile(p7Path, x509test.PKCS7(t, f.intermediate, f.root), 0o644))

	for name, input := range map[string]string{
		"file":   p7Path,
		"base64": base64.StdEncoding.EncodeToString(x509test.PKCS7(t, f.intermediate, f.root)),
	} {
		t.Run(name, func(t *testing.T) {
			certs, err := decodeCertificateInput(input)
			require.NoError(t, err)
			require.Len(t, certs, 2)
			assert.Equal(t, f.intermediate.Cert.Raw, certs[0].Raw)
			assert.Equal(t, f.root.Cert.Raw, certs[1].Raw)
		})
	}

	_, err := decodeCertificateInput(base64.StdEncoding.EncodeToString(x509test.PKCS7(t)))
	assert.ErrorIs(t, err, x509certs.ErrNoCertificatesInPKCS)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvConfigFile, "")

	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.json"),
		In:         strings.NewReader(""),
		Out:        io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ServesUntilInputEnds(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvConfigFile, "")
	prev := appVersion
	t.Cleanup(func() { appVersion = prev })

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = Run(ctx, Options{Version: "1.2.3", In: in, Out: &out})

	assert.Contains(t, out.String(), `"id":1`)
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestNewRootCommand(t *testing.T) {
	t.Run("Instructions", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRootCommand("1.0.0", logger.Discard)
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--instructions"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "# LDAPS Certificate Chain Retriever")
		assert.Contains(t, out.String(), "`fetch_ldaps_chain`")
	})

	t.Run("Version", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRootCommand("1.0.0", logger.Discard)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--version"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "1.0.0")
	})

	t.Run("RejectsArguments", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0", logger.Discard)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"extra"})

		assert.Error(t, cmd.Execute())
	})

	t.Run("BadConfig", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(config.EnvConfigFile, "")

		cmd := NewRootCommand("1.0.0", logger.Discard)
		cmd.SetIn(strings.NewReader(""))
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--config", "does-not-exist.yaml"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}
