package harness

import (
	"fmt"
	"strings"
)

// FlushMode selects how the environment is primed before each trial.
type FlushMode int

const (
	// NoFlush leaves caches as they are.
	NoFlush FlushMode = iota
	// OverwriteScan reads a buffer larger than the last-level cache.
	OverwriteScan
	// PrivilegedInvalidate asks the kernel to write back and invalidate all
	// caches.
	PrivilegedInvalidate
)

// AllFlushModes returns every flush mode in sweep order.
func AllFlushModes() []FlushMode {
	return []FlushMode{NoFlush, OverwriteScan, PrivilegedInvalidate}
}

// String returns the name used for result files.
func (m FlushMode) String() string {
	switch m {
	case NoFlush:
		return "no_flush"
	case OverwriteScan:
		return "overwrite"
	case PrivilegedInvalidate:
		return "wbinv"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the defined modes.
func (m FlushMode) Valid() bool {
	return m >= NoFlush && m <= PrivilegedInvalidate
}

// ParseFlushMode parses a mode name as printed by String. A few longer
// aliases are accepted as well.
func ParseFlushMode(s string) (FlushMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no_flush", "none", "noflush":
		return NoFlush, nil
	case "overwrite", "overwrite_scan", "simple":
		return OverwriteScan, nil
	case "wbinv", "wbinvd", "privileged_invalidate":
		return PrivilegedInvalidate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFlushMode, s)
	}
}
