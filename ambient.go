// ambient.go - shared diagnostics hook for both interpreters

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import (
	"fmt"
	"os"
)

// Logf receives every diagnostic message the core emits: illegal Z80
// opcodes, unemulated 68k exceptions, and similar non-fatal warnings.
// Replace it to route diagnostics elsewhere; the default writes a line
// to stderr.
var Logf = func(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func logf(format string, args ...any) { Logf(format, args...) }
