// Package excerpt extracts highlighted contextual snippets around regex
// matches in a document buffer.
package excerpt

import (
	"regexp"
	"sort"

	"github.com/anthropics/indexer-go/pkg/types"
)

type fragment struct {
	start, end int
	count      int
}

// Extract finds every match of re in buf, merges matches separated by at
// most the context width into shared fragments, keeps the cfg.MaxExcerpts fragments
// with the most matches, and returns each as a "..."-wrapped snippet with
// the matches bracketed by cfg.PreMatch / cfg.PostMatch.
func Extract(buf string, re *regexp.Regexp, cfg types.ExcerptConfig) []string {
	if re == nil {
		return nil
	}

	matches := re.FindAllStringIndex(buf, -1)
	if len(matches) == 0 {
		return nil
	}

	var frags []fragment
	for _, m := range matches {
		if n := len(frags); n > 0 && m[0] <= frags[n-1].end+cfg.CtxtNumChars {
			frags[n-1].end = m[1]
			frags[n-1].count++
			continue
		}
		frags = append(frags, fragment{start: m[0], end: m[1], count: 1})
	}

	for i := range frags {
		frags[i].start = max(0, frags[i].start-cfg.CtxtNumChars)
		frags[i].end = min(len(buf), frags[i].end+cfg.CtxtNumChars)
	}

	// Fragments with the most matches win; ties keep buffer order.
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].count > frags[j].count })
	if cfg.MaxExcerpts > 0 && len(frags) > cfg.MaxExcerpts {
		frags = frags[:cfg.MaxExcerpts]
	}

	out := make([]string, 0, len(frags))
	for _, f := range frags {
		snippet := re.ReplaceAllStringFunc(buf[f.start:f.end], func(m string) string {
			return cfg.PreMatch + m + cfg.PostMatch
		})
		out = append(out, "..."+snippet+"...")
	}
	return out
}
