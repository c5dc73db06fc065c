// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/retriever"
	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
)

const appName = "ldaps-cert-chain-retriever"

var (
	// OperationPerformed is set once a retrieval has been attempted.
	OperationPerformed bool
	// OperationPerformedSuccessfully is set once the output has been written.
	OperationPerformedSuccessfully bool
)

// options holds the raw flag values. A flag only overrides the loaded
// configuration when it was set explicitly.
type options struct {
	configPath       string
	server           string
	port             int
	test             bool
	debug            bool
	format           string
	output           string
	method           string
	timeoutSeconds   int
	verifySignatures bool
	tree             bool
	table            bool
	json             bool
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

// NewRootCommand builds the root command. Output goes to the command's
// out and err writers, which default to stdout and stderr.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	opts := &options{}
	name := posix.ExecutableName(appName)

	cmd := &cobra.Command{
		Use:   name,
		Short: "Retrieve SSL certificates from an LDAPS server for Passbolt configuration",
		Long: `Retrieve the certificate chain presented by an LDAPS server, check that the
chain is properly ordered and write it as a trust bundle for Passbolt.

For more information on Passbolt LDAPS setup, visit:
https://www.passbolt.com/docs/hosting/configure/ldap/ldaps/`,
		Example: fmt.Sprintf(`  %[1]s --server ldap.example.com -o ldaps_bundle.crt
  %[1]s --test --debug
  %[1]s --server ldap.example.com --port 389 --method starttls --tree`, name),
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return run(cmd, opts, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (.json, .yaml, .yml); also read from "+config.EnvConfigFile)
	flags.StringVarP(&opts.server, "server", "s", config.DefaultServer, "LDAP server hostname")
	flags.IntVarP(&opts.port, "port", "p", config.DefaultPort, "LDAPS port")
	flags.BoolVarP(&opts.test, "test", "t", false, "use the test servers (ldap.google.com with fallback to ldap.forumsys.com)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug output")
	flags.StringVarP(&opts.format, "format", "f", config.DefaultFormat, "output format: pem or der")
	flags.StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	flags.StringVarP(&opts.method, "method", "m", config.DefaultMethod, "handshake method: ldaps, starttls or tls")
	flags.IntVar(&opts.timeoutSeconds, "timeout", config.DefaultTimeout, "handshake timeout in seconds")
	flags.BoolVar(&opts.verifySignatures, "verify-signatures", false, "also verify the signature of every link in the chain")
	flags.BoolVar(&opts.tree, "tree", false, "display the certificate chain as an ASCII tree")
	flags.BoolVar(&opts.table, "table", false, "display the certificate chain as a markdown table")
	flags.BoolVar(&opts.json, "json", false, "emit a JSON report with the verdict and PEM-encoded certificates")
	cmd.MarkFlagsMutuallyExclusive("tree", "table", "json")

	return cmd
}

// apply copies every explicitly set flag onto cfg.
func (o *options) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("server") {
		cfg.Server = o.server
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("method") {
		cfg.Method = o.method
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = o.timeoutSeconds
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("verify-signatures") {
		cfg.VerifySignatures = o.verifySignatures
	}
}

func run(cmd *cobra.Command, opts *options, log logger.Logger) error {
	log.SetOutput(cmd.ErrOrStderr())

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	enc, err := x509certs.ParseEncoding(cfg.Format)
	if err != nil {
		return err
	}
	handshaker, err := x509chain.NewHandshaker(cfg.Method, cfg.Timeout())
	if err != nil {
		return err
	}

	var verifier x509chain.SignatureVerifier
	if cfg.VerifySignatures {
		verifier = x509chain.CryptoVerifier{}
	}

	r := &retriever.Retriever{
		Handshaker: handshaker,
		Validator:  x509chain.NewValidator(verifier),
		Log:        log,
		Debug:      cfg.Debug,
	}

	OperationPerformed = true

	var res *retriever.Result
	if opts.test {
		res, err = r.RetrieveFirst(cmd.Context(), cfg.TestServers, cfg.Port)
	} else {
		res, err = r.Retrieve(cmd.Context(), cfg.Server, cfg.Port)
	}
	if err != nil {
		return err
	}

	data, err := render(res, enc, opts)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, data, 0644); err != nil {
			return fmt.Errorf("error writing to output file: %w", err)
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}

	OperationPerformedSuccessfully = true
	return nil
}

// render produces the requested view of the chain: a visualization when
// one was asked for, the trust bundle otherwise.
func render(res *retriever.Result, enc x509certs.Encoding, opts *options) ([]byte, error) {
	if !opts.tree && !opts.table && !opts.json {
		return res.Bundle(enc)
	}

	ch, err := res.Parsed()
	if err != nil {
		return nil, err
	}

	switch {
	case opts.json:
		data, err := ch.ToReportJSON(res.Validation)
		if err != nil {
			return nil, fmt.Errorf("error encoding JSON report: %w", err)
		}
		return append(data, '\n'), nil
	case opts.table:
		return []byte(ch.RenderTable()), nil
	default:
		return []byte(ch.RenderASCIITree()), nil
	}
}
