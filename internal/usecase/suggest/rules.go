package suggest

import (
	"regexp"
	"strings"
	"unicode"
)

// rule is one deterministic pattern rewrite. Rules are applied in order;
// each may fire at most once per position but all rules get a chance.
type rule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// defaultRules are dependency-free transformations for common writing
// issues: wordiness, weak verbs, hedged modals, and formulaic passive
// openers. The terminal cascade stage relies on them, so they must work
// with zero indexed documents and zero network access.
var defaultRules = []rule{
	{"wordy_in_order_to", regexp.MustCompile(`(?i)\bin order to\b`), "to"},
	{"wordy_due_to_fact", regexp.MustCompile(`(?i)\bdue to the fact that\b`), "because"},
	{"wordy_at_this_time", regexp.MustCompile(`(?i)\bat this point in time\b`), "now"},
	{"wordy_in_event", regexp.MustCompile(`(?i)\bin the event that\b`), "if"},
	{"wordy_for_purpose", regexp.MustCompile(`(?i)\bfor the purpose of\b`), "for"},
	{"wordy_with_regard", regexp.MustCompile(`(?i)\bwith regard to\b`), "about"},
	{"wordy_number_of", regexp.MustCompile(`(?i)\ba number of\b`), "several"},
	{"wordy_majority_of", regexp.MustCompile(`(?i)\bthe majority of\b`), "most"},
	{"verb_utilize", regexp.MustCompile(`(?i)\butili[sz]e\b`), "use"},
	{"verb_utilizes", regexp.MustCompile(`(?i)\butili[sz]es\b`), "uses"},
	{"verb_utilizing", regexp.MustCompile(`(?i)\butili[sz]ing\b`), "using"},
	{"verb_click_on", regexp.MustCompile(`(?i)\bclick on\b`), "click"},
	{"modal_could_possibly", regexp.MustCompile(`(?i)\bcould possibly\b`), "could"},
	{"modal_may_potentially", regexp.MustCompile(`(?i)\bmay potentially\b`), "may"},
	{"modal_requires_that_you", regexp.MustCompile(`(?i)\brequires that you\b`), "requires you to"},
	{"redundant_essential", regexp.MustCompile(`(?i)\babsolutely essential\b`), "essential"},
	{"redundant_eliminate", regexp.MustCompile(`(?i)\bcompletely eliminate\b`), "eliminate"},
	{"passive_recommended", regexp.MustCompile(`(?i)\bit is recommended that\b`), "we recommend that"},
	{"passive_should_be_noted", regexp.MustCompile(`(?i)\bit should be noted that\s*`), ""},
	{"filler_please_note", regexp.MustCompile(`(?i)\bplease note that\s*`), ""},
}

// Rules is the rule-based rewrite engine behind the generic fallback and
// the orchestrator's no-op detection.
type Rules struct {
	rules []rule
}

// NewRules creates the engine with the default rule set.
func NewRules() *Rules {
	return &Rules{rules: defaultRules}
}

// Transform applies every matching rule in order. Returns the rewritten
// sentence, the names of the rules that fired, and whether anything changed.
func (r *Rules) Transform(sentence string) (string, []string, bool) {
	out := sentence
	var applied []string
	for _, rl := range r.rules {
		next := rl.pattern.ReplaceAllString(out, rl.replace)
		if next != out {
			applied = append(applied, rl.name)
			out = next
		}
	}
	if len(applied) == 0 {
		return sentence, nil, false
	}

	out = tidy(out, sentence)
	return out, applied, out != sentence
}

// tidy collapses doubled spaces left by deletion rules and restores the
// original leading capitalization.
func tidy(out, original string) string {
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return original
	}
	if first := []rune(original); len(first) > 0 && unicode.IsUpper(first[0]) {
		runes := []rune(out)
		runes[0] = unicode.ToUpper(runes[0])
		out = string(runes)
	}
	return out
}
