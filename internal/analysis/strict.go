package analysis

import "encoding/json"

// decodeStrict attempts the strict path: the raw text must be valid JSON
// with summary (string), overallScore (number) and a numeric score for all
// five category keys. Anything less falls through to the regex extractor;
// missing scores are never silently defaulted here.
func decodeStrict(raw string) (fields, bool) {
	var top map[string]any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return fields{}, false
	}

	summary, ok := top["summary"].(string)
	if !ok {
		return fields{}, false
	}
	overall, ok := top["overallScore"].(float64)
	if !ok {
		return fields{}, false
	}
	rawScores, ok := top["categoryScores"].(map[string]any)
	if !ok {
		return fields{}, false
	}

	f := fields{
		summary:      summary,
		overallScore: overall,
		scores:       make(map[Category]float64, len(Categories)),
		recLists:     make(map[Category][]string),
		recBlobs:     make(map[Category]string),
	}
	for _, category := range Categories {
		score, ok := rawScores[string(category)].(float64)
		if !ok {
			return fields{}, false
		}
		f.scores[category] = score
	}

	// Recommendations are lenient even on the strict path: a list of
	// strings or a single blob per key, anything else becomes empty.
	if rawRecs, ok := top["recommendations"].(map[string]any); ok {
		for _, category := range Categories {
			switch value := rawRecs[string(category)].(type) {
			case []any:
				if list, ok := stringList(value); ok {
					f.recLists[category] = list
				}
			case string:
				f.recBlobs[category] = value
			}
		}
	}

	return f, true
}

func stringList(values []any) ([]string, bool) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
