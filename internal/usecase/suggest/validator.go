package suggest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
)

// fingerprintPrefixLen bounds how much content feeds the dedup fingerprint.
// Chunks that share a long common prefix are the same underlying evidence
// even when trailing context differs.
const fingerprintPrefixLen = 100

// Validator repairs malformed strategy outputs before they reach the final
// answer.
type Validator struct {
	slackWords int
	rules      *Rules
}

// NewValidator creates a validator. slackWords is how many words a
// suggestion may exceed the original by before it counts as a run-on.
func NewValidator(slackWords int, rules *Rules) *Validator {
	return &Validator{slackWords: slackWords, rules: rules}
}

// Clean validates one rewrite candidate against the original sentence.
// Empty candidates are replaced by the original with an explanatory note;
// run-ons are shortened. The second return is a note for provenance, empty
// when the candidate passed unchanged.
func (v *Validator) Clean(original, candidate string) (string, string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return original, "model returned no usable rewrite; original kept"
	}

	limit := wordCount(original) + v.slackWords
	if wordCount(candidate) <= limit {
		return candidate, ""
	}

	// A run-on is a generation artifact, not an improvement. Shorten via
	// the rule engine first, then cut at a sentence boundary.
	if shortened, _, changed := v.rules.Transform(candidate); changed && wordCount(shortened) <= limit {
		return shortened, "run-on rewrite shortened by rule transform"
	}
	if first := firstSentence(candidate); first != "" && wordCount(first) <= limit {
		return first, "run-on rewrite cut to its first sentence"
	}
	return truncateWords(candidate, limit), "run-on rewrite truncated"
}

// Dedup drops retrieval results whose content fingerprint was already seen,
// preserving input order. The same chunk surfaced by multiple query
// formulations must not count as independent evidence.
func Dedup(results []domret.Result) []domret.Result {
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		fp := Fingerprint(r.Content())
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Fingerprint hashes a normalized content prefix for deduplication.
func Fingerprint(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	if len(normalized) > fingerprintPrefixLen {
		normalized = normalized[:fingerprintPrefixLen]
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func wordCount(s string) int { return len(strings.Fields(s)) }

func firstSentence(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			return strings.TrimSpace(s[:i+1])
		}
	}
	return ""
}

func truncateWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return s
	}
	return strings.Join(fields[:n], " ")
}
