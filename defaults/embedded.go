// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration file.

package defaults

import (
	"embed"
)

//go:embed tabdock.toml
var fs embed.FS

// Config returns the embedded default config TOML.
func Config() ([]byte, error) {
	return fs.ReadFile("tabdock.toml")
}
