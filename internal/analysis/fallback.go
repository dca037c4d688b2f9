package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable means the model output could not be coerced into an analysis
// result even by regex extraction.
var ErrUnparsable = errors.New("could not parse analysis result")

const (
	fallbackSummary        = "Could not extract summary."
	fallbackRecommendation = "No recommendation."
)

var (
	summaryPattern = regexp.MustCompile(`"summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	overallPattern = regexp.MustCompile(`"overallScore"\s*:\s*(-?\d+(?:\.\d+)?)`)

	scorePatterns = buildPatterns(`"%s"\s*:\s*(-?\d+(?:\.\d+)?)`)
	recPatterns   = buildPatterns(`"%s"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

func buildPatterns(format string) map[Category]*regexp.Regexp {
	out := make(map[Category]*regexp.Regexp, len(Categories))
	for _, category := range Categories {
		out[category] = regexp.MustCompile(fmt.Sprintf(format, regexp.QuoteMeta(string(category))))
	}
	return out
}

// extractFallback scans the whole raw text for each key:value substring
// independently, ignoring surrounding structure. A category key appearing in
// an unexpected location (say, inside an example embedded in the summary)
// can be mismatched; there is no ordering or scoping guard. Known fragility,
// kept as observed.
func extractFallback(raw string) (fields, error) {
	summaryMatch := summaryPattern.FindStringSubmatch(raw)
	overallMatch := overallPattern.FindStringSubmatch(raw)
	if summaryMatch == nil && overallMatch == nil {
		return fields{}, ErrUnparsable
	}

	f := fields{
		summary:  fallbackSummary,
		scores:   make(map[Category]float64, len(Categories)),
		recLists: make(map[Category][]string),
		recBlobs: make(map[Category]string),
	}
	if summaryMatch != nil {
		f.summary = unescapeJSONString(summaryMatch[1])
	}
	if overallMatch != nil {
		if value, err := strconv.ParseFloat(overallMatch[1], 64); err == nil {
			f.overallScore = value
		}
	}

	for _, category := range Categories {
		if m := scorePatterns[category].FindStringSubmatch(raw); m != nil {
			if value, err := strconv.ParseFloat(m[1], 64); err == nil {
				f.scores[category] = value
			}
		}
		blob := fallbackRecommendation
		if m := recPatterns[category].FindStringSubmatch(raw); m != nil {
			if text := strings.TrimSpace(unescapeJSONString(m[1])); text != "" {
				blob = text
			}
		}
		f.recBlobs[category] = blob
	}

	return f, nil
}

// unescapeJSONString undoes JSON string escapes in a regex-captured value;
// on malformed escapes the raw capture is returned as-is.
func unescapeJSONString(s string) string {
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
