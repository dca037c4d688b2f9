package analysis

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want []string
	}{
		{
			name: "missing trailing punctuation",
			blob: "Add metrics. Use active voice",
			want: []string{"Add metrics.", "Use active voice."},
		},
		{
			name: "mixed terminators",
			blob: "Really? Yes! Do it now.",
			want: []string{"Really?", "Yes!", "Do it now."},
		},
		{
			name: "single sentence",
			blob: "Keep it to one page.",
			want: []string{"Keep it to one page."},
		},
		{
			name: "extra whitespace",
			blob: "  First.   Second.  ",
			want: []string{"First.", "Second."},
		},
		{
			name: "empty",
			blob: "",
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.blob)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tc.blob, got, tc.want)
			}
		})
	}
}
