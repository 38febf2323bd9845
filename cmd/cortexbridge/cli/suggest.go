// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still worth a
// "did you mean" hint.
const maxSuggestDistance = 3

// closest returns the candidate nearest to name, or "" when none is
// within maxSuggestDistance. Ties go to the earlier candidate.
func closest(name string, candidates []string) string {
	best, bestDistance := "", maxSuggestDistance+1
	for _, candidate := range candidates {
		if distance := levenshtein(name, candidate); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// suggestFlag returns "--name" for the defined flag closest to the
// first unknown long flag in args, or "".
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if arg == "--" {
			return ""
		}
		name, isLong := strings.CutPrefix(arg, "--")
		if !isLong {
			continue
		}
		name, _, _ = strings.Cut(name, "=")
		if flagSet.Lookup(name) != nil {
			continue
		}

		var defined []string
		flagSet.VisitAll(func(flag *pflag.Flag) {
			defined = append(defined, flag.Name)
		})
		if match := closest(name, defined); match != "" {
			return "--" + match
		}
		return ""
	}
	return ""
}

// levenshtein returns the edit distance between a and b, keeping two
// rows of the distance matrix.
func levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}
	for j := 1; j <= len(b); j++ {
		current[0] = j
		for i := 1; i <= len(a); i++ {
			substitution := previous[i-1]
			if a[i-1] != b[j-1] {
				substitution++
			}
			current[i] = min(previous[i]+1, current[i-1]+1, substitution)
		}
		previous, current = current, previous
	}
	return previous[len(a)]
}
