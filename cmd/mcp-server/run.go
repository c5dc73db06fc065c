// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/config"
	"github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/logger"
	mcpserver "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/mcp-server"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = mcpserver.GetVersion()
	}
}

func main() {
	// stdout carries the protocol; diagnostics are JSON lines on stderr.
	debug, _ := strconv.ParseBool(os.Getenv(config.EnvPrefix + "DEBUG"))
	log := logger.NewMCPLogger(os.Stderr, !debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.NewRootCommand(version, log).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Emit(logger.LevelError, "Server error: "+err.Error())
		os.Exit(1)
	}
}
