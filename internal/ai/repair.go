package ai

import (
	"regexp"
	"strings"
)

var (
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON applies heuristic transforms to near-valid JSON before a second
// strict parse. Transforms run in a fixed order: single quotes to double
// quotes, bare object keys quoted, trailing commas stripped. This recovers
// the common failure modes of a model that was asked for strict JSON but
// produced something Python-flavored.
func repairJSON(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2":`)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return s
}
