// Package risk scores package names for typosquat and takeover signals.
//
// Scoring is purely lexical: a fixed suspicious-substring list, a
// minimum-length rule, and a near-identity check against a short list of
// popular npm packages. Rules are evaluated in order; the first match
// wins.
package risk

import "strings"

// Reason identifies which rule flagged a name.
type Reason string

const (
	// ReasonKeywordMatch means the name contains a suspicious substring.
	ReasonKeywordMatch Reason = "keyword_match"
	// ReasonShortName means the name is shorter than three characters.
	ReasonShortName Reason = "short_name"
	// ReasonNameSimilarity means the name is within one edit of a
	// popular package name.
	ReasonNameSimilarity Reason = "name_similarity"
	// ReasonNone means no rule matched.
	ReasonNone Reason = "none"
)

// Verdict is the outcome of scoring a single name.
type Verdict struct {
	Suspicious bool
	Reason     Reason
}

// suspiciousKeywords are substrings that commonly mark placeholder or
// bait packages.
var suspiciousKeywords = []string{
	"test", "demo", "example", "sample", "temp", "tmp",
	"backup", "old", "legacy", "deprecated", "unused",
	"admin", "root", "password", "secret", "key", "token",
	"debug", "dev", "development", "local", "private",
}

// popularPackages are well-known npm names used for the near-identity
// check.
var popularPackages = []string{
	"lodash", "express", "react", "vue", "angular", "jquery",
	"axios", "moment", "bootstrap", "webpack", "babel",
}

// Score evaluates a package name against the suspicion rules.
func Score(name string) Verdict {
	lower := strings.ToLower(name)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			return Verdict{Suspicious: true, Reason: ReasonKeywordMatch}
		}
	}

	if len(name) < 3 {
		return Verdict{Suspicious: true, Reason: ReasonShortName}
	}

	for _, popular := range popularPackages {
		if Similar(name, popular) {
			return Verdict{Suspicious: true, Reason: ReasonNameSimilarity}
		}
	}

	return Verdict{Reason: ReasonNone}
}

// Similar reports whether two names are within typosquatting distance:
// equal-length names with at most one substituted character, or a
// one-character insertion/deletion (the shorter name is a subsequence of
// the longer). Names whose lengths differ by two or more are never
// similar.
func Similar(a, b string) bool {
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		return false
	}

	if len(a) == len(b) {
		substitutions := 0
		for i := range a {
			if a[i] != b[i] {
				substitutions++
			}
		}
		return substitutions <= 1
	}

	if diff == 1 {
		shorter, longer := a, b
		if len(a) > len(b) {
			shorter, longer = b, a
		}
		return subsequence(shorter, longer)
	}

	// A length difference of exactly two falls through every rule.
	return false
}

// subsequence reports whether shorter appears in longer as a
// left-to-right (not necessarily contiguous) subsequence.
func subsequence(shorter, longer string) bool {
	i := 0
	for j := 0; i < len(shorter) && j < len(longer); j++ {
		if shorter[i] == longer[j] {
			i++
		}
	}
	return i == len(shorter)
}
