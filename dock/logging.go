// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/logging.go
// Summary: Verbose logger for per-delta drag tracking (offered and cleared zones).

package dock

import (
	"io"
	"log"
	"os"
)

// debugLog receives one line per zone offer or clear. Structural changes
// always go to the standard logger instead.
var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetVerboseLogging sends drag tracking lines to stderr, or drops them.
func SetVerboseLogging(enable bool) {
	var out io.Writer = io.Discard
	if enable {
		out = os.Stderr
	}
	debugLog.SetOutput(out)
}
