// Package analysis normalizes raw model output into the strict analysis
// result: a summary, an overall score, and per-category scores and
// recommendations over a fixed set of five categories.
//
// Parsing is two-stage: a strict JSON decoder first, then a best-effort
// regex extractor for near-JSON output. Both stages feed the same
// clamp/defaulting step so the range rules hold on every path.
package analysis

import (
	"math"
	"strings"
)

// Category is one of the five fixed scoring categories.
type Category string

const (
	CategoryContent          Category = "content"
	CategoryFormat           Category = "format"
	CategoryOptimization     Category = "optimization"
	CategoryBestPractices    Category = "bestPractices"
	CategoryApplicationReady Category = "applicationReady"
)

// Categories lists the fixed category keys in rubric order. Every Result
// carries all five keys in CategoryScores and Recommendations.
var Categories = []Category{
	CategoryContent,
	CategoryFormat,
	CategoryOptimization,
	CategoryBestPractices,
	CategoryApplicationReady,
}

// Result is the normalized analysis outcome.
type Result struct {
	Summary         string                `json:"summary"`
	OverallScore    int                   `json:"overallScore"`
	CategoryScores  map[Category]int      `json:"categoryScores"`
	Recommendations map[Category][]string `json:"recommendations"`
}

// fields is the intermediate both extraction stages produce. Recommendation
// values arrive either as ready lists or as blob strings still needing the
// sentence splitter; a category in neither map gets the stage's default.
type fields struct {
	summary      string
	overallScore float64
	scores       map[Category]float64
	recLists     map[Category][]string
	recBlobs     map[Category]string
}

// normalize applies the shared rounding, clamping and key-completeness rules.
func normalize(f fields) Result {
	out := Result{
		Summary:         f.summary,
		OverallScore:    clampScore(f.overallScore),
		CategoryScores:  make(map[Category]int, len(Categories)),
		Recommendations: make(map[Category][]string, len(Categories)),
	}
	for _, category := range Categories {
		out.CategoryScores[category] = clampScore(f.scores[category])

		switch {
		case f.recLists[category] != nil:
			out.Recommendations[category] = trimAll(f.recLists[category])
		case f.recBlobs[category] != "":
			out.Recommendations[category] = SplitSentences(f.recBlobs[category])
		default:
			out.Recommendations[category] = []string{}
		}
	}
	return out
}

// clampScore rounds to the nearest integer and clamps to [0,100]. Upstream
// values are never trusted to be in range.
func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
