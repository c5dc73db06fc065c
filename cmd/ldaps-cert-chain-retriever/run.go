// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/cli"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/retriever"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	verpkg "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/version"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func main() {
	// Diagnostics go to stderr; stdout is reserved for the bundle.
	log := logger.NewCLILogger()
	log.SetOutput(os.Stderr)

	// Set up signal handling using signal.NotifyContext for cleaner cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)

	// Run the CLI in a separate goroutine
	go func() {
		done <- cli.Execute(ctx, version, log)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Emit(logger.LevelError, "Error: "+retriever.Message(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Println("Operation cancelled by signal. Exiting...")
		// Give the handshake a moment to close its connection
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		os.Exit(130) // Standard exit code for SIGINT
	}
}
