package analysis

// Mode records which parsing path produced a Result.
type Mode string

const (
	ModeStrict   Mode = "strict"
	ModeFallback Mode = "fallback"
)

// Parse converts raw model text into a Result. The strict JSON decoder runs
// first; the regex fallback is reached only when the text is not valid JSON
// or the required fields/types are missing.
func Parse(raw string) (Result, error) {
	result, _, err := ParseMode(raw)
	return result, err
}

// ParseMode is Parse plus the mode that produced the result.
func ParseMode(raw string) (Result, Mode, error) {
	if f, ok := decodeStrict(raw); ok {
		return normalize(f), ModeStrict, nil
	}
	f, err := extractFallback(raw)
	if err != nil {
		return Result{}, ModeFallback, err
	}
	return normalize(f), ModeFallback, nil
}
