package chunker

import "strings"

// docStats are the document statistics the adaptive dispatcher inspects.
type docStats struct {
	chars      int
	words      int
	paragraphs int
	avgParaLen float64
}

// decisionRule pairs a predicate with the method it selects. The table is
// evaluated top to bottom; the last rule always applies.
type decisionRule struct {
	applies func(c *Chunker, s docStats) bool
	method  string
}

// decisionTable is the adaptive dispatcher: a heuristic decision table, not
// a learned classifier. Thresholds are data, kept here rather than scattered
// through conditionals. Shape: structured text first, then semantic for
// substantial text, then sentence for medium text, then fixed.
var decisionTable = []decisionRule{
	{
		applies: func(c *Chunker, s docStats) bool {
			return s.paragraphs > 3 && s.avgParaLen < c.cfg.MaxFactor*float64(c.cfg.TargetSize)
		},
		method: MethodParagraph,
	},
	{
		applies: func(c *Chunker, s docStats) bool {
			return s.words > 100 && c.embedder != nil
		},
		method: MethodSemantic,
	},
	{
		applies: func(_ *Chunker, s docStats) bool { return s.words > 50 },
		method:  MethodSentence,
	},
	{
		applies: func(_ *Chunker, _ docStats) bool { return true },
		method:  MethodFixed,
	},
}

// chooseMethod picks a strategy from document statistics.
func (c *Chunker) chooseMethod(text string) string {
	stats := computeStats(text)
	for _, rule := range decisionTable {
		if rule.applies(c, stats) {
			return rule.method
		}
	}
	return MethodFixed // unreachable, table ends with a catch-all
}

func computeStats(text string) docStats {
	paras := paragraphSpans(text)
	s := docStats{
		chars:      len(text),
		words:      len(strings.Fields(text)),
		paragraphs: len(paras),
	}
	if len(paras) > 0 {
		total := 0
		for _, p := range paras {
			total += p.End - p.Start
		}
		s.avgParaLen = float64(total) / float64(len(paras))
	}
	return s
}
