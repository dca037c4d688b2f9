// Package rewrite normalizes raw model output into the strict resume-entry
// block: a role title line, a dates line, then dash bullets.
package rewrite

import (
	"regexp"
	"strings"
)

const (
	rewrittenPrefix  = "Rewritten Job Description:"
	roleTitlePrefix  = "Role Title:"
	datesPrefix      = "Dates of Employment:"
	datesPlaceholder = "[MM/DD/YYYY] - [MM/DD/YYYY]"
)

// Bracketed placeholder spans like "[Role Name]"; non-greedy, no nesting.
var placeholderPattern = regexp.MustCompile(`\[(.*?)\]`)

// scanState drives the line scan. This is a best-effort structural filter,
// not a full parser: leading commentary is tolerated, but the structured
// block, once started, must have no interruptions.
type scanState int

const (
	// stateSeeking skips lines until the role title line appears.
	stateSeeking scanState = iota
	// stateInSection accepts further role title lines, the dates line,
	// and dash bullets.
	stateInSection
	// stateDone is entered at the first unrecognized line inside the
	// section; remaining lines are never revisited.
	stateDone
)

// Normalize converts raw model text into the strict rewrite block.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(text, rewrittenPrefix); ok {
		text = strings.TrimSpace(rest)
	}
	text = placeholderPattern.ReplaceAllString(text, "$1")

	var out []string
	state := stateSeeking
	for _, line := range strings.Split(text, "\n") {
		if state == stateDone {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch state {
		case stateSeeking:
			if rest, ok := strings.CutPrefix(line, roleTitlePrefix); ok {
				out = append(out, strings.TrimSpace(rest))
				state = stateInSection
			}
		case stateInSection:
			switch {
			case strings.HasPrefix(line, roleTitlePrefix):
				// A repeated role title starts another entry block.
				out = append(out, strings.TrimSpace(strings.TrimPrefix(line, roleTitlePrefix)))
			case strings.HasPrefix(line, datesPrefix):
				dates := strings.TrimSpace(strings.TrimPrefix(line, datesPrefix))
				if dates == "" {
					dates = datesPlaceholder
				}
				out = append(out, dates)
			case strings.HasPrefix(line, "-"):
				out = append(out, line)
			default:
				state = stateDone
			}
		}
	}

	return strings.Join(out, "\n")
}
