// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helpers for command line programs.
//
// [ExecutableName] derives the program name shown in usage text from os.Args,
// so help output matches however the binary was installed or renamed:
//
//   - Linux/macOS: "/usr/local/bin/ldaps-cert-chain-retriever" → "ldaps-cert-chain-retriever"
//   - Windows: "C:\bin\ldaps-cert-chain-retriever.exe" → "ldaps-cert-chain-retriever"
//   - Empty args: the caller's fallback
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
