// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// ExecutableName returns the base name of os.Args[0] without a ".exe"
// suffix, or fallback when no program name is available.
func ExecutableName(fallback string) string {
	if len(os.Args) == 0 {
		return fallback
	}
	return baseName(os.Args[0], fallback)
}

// baseName strips both Unix and Windows directory components, whichever
// platform the binary runs on.
func baseName(path, fallback string) string {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return fallback
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".exe")
	if name == "" || name == "." {
		return fallback
	}
	return name
}
