// Package arch handles target architecture tokens and architecture-specific
// compiler flag derivation.
package arch

import (
	"fmt"
	"strings"

	"ptxgen/internal/errors"
)

// All is the sentinel token selecting every known architecture.
const All = "all"

// generateCodePrefix identifies the code-generation entry in a flag set.
const generateCodePrefix = "--generate-code=arch=compute_"

// GenerateCodeFlag returns the code-generation flag for an architecture,
// encoding the token in both the compute and sm fields.
func GenerateCodeFlag(arch string) string {
	return fmt.Sprintf("--generate-code=arch=compute_%s,code=sm_%s", arch, arch)
}

// ResolveFlags returns a new flag set where the single code-generation entry
// is replaced with one targeting arch. All other entries pass through
// unchanged, in order. When no entry matches, the base is returned as-is:
// there is no substitution target, so the no-op is safe. The base slice is
// never mutated.
func ResolveFlags(base []string, arch string) []string {
	idx := -1
	for i, flag := range base {
		if strings.HasPrefix(flag, generateCodePrefix) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return base
	}

	flags := make([]string, len(base))
	copy(flags, base)
	flags[idx] = GenerateCodeFlag(arch)
	return flags
}

// Parse resolves an architecture token into a concrete list. The sentinel
// "all" expands to the known set; any other token is taken literally after
// membership validation against the known set.
func Parse(token string, known []string) ([]string, error) {
	if token == All {
		result := make([]string, len(known))
		copy(result, known)
		return result, nil
	}
	for _, a := range known {
		if a == token {
			return []string{token}, nil
		}
	}
	return nil, errors.Configf("unknown architecture %q (known: %s, or %q)",
		token, strings.Join(known, ", "), All)
}
