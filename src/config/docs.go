// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the settings of the LDAPS certificate chain retriever.
//
// Values are resolved in this order, later sources overriding earlier ones:
//  1. Built-in defaults (see [Default]).
//  2. A JSON or YAML configuration file, validated against an embedded JSON
//     schema. The path comes from the caller or from LDAPS_CHAIN_CONFIG_FILE.
//  3. Variables from .env files, which never replace variables that are
//     already present in the process environment.
//  4. LDAPS_CHAIN_* environment variables.
//
// Command line flags are applied on top by the caller.
//
// Example configuration (YAML):
//
//	server: ldap.example.com
//	port: 636
//	method: ldaps
//	format: pem
//	timeoutSeconds: 10
//	testServers:
//	  - ldap.google.com
//	  - ldap.forumsys.com
package config
