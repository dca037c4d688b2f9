package rewrite

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full block with placeholders and trailing prose",
			raw:  "Rewritten Job Description:\nRole Title: [Senior Engineer]\nDates of Employment: \n- Shipped X\n- Led Y\nThanks for reading!",
			want: "Senior Engineer\n[MM/DD/YYYY] - [MM/DD/YYYY]\n- Shipped X\n- Led Y",
		},
		{
			name: "leading commentary before role title",
			raw:  "Sure, here you go.\n\nRole Title: Backend Developer\nDates of Employment: 01/2020 - 06/2023\n- Built APIs",
			want: "Backend Developer\n01/2020 - 06/2023\n- Built APIs",
		},
		{
			name: "stops at first unrecognized line inside section",
			raw:  "Role Title: Analyst\n- Did A\nSummary of impact\n- Did B",
			want: "Analyst\n- Did A",
		},
		{
			name: "blank lines inside section are skipped",
			raw:  "Role Title: Designer\n\n- Sketched flows\n\n- Ran reviews",
			want: "Designer\n- Sketched flows\n- Ran reviews",
		},
		{
			name: "no role title yields empty",
			raw:  "The model refused to answer.",
			want: "",
		},
		{
			name: "repeated role title starts another entry block",
			raw:  "Role Title: Engineer\n- Built A\nRole Title: Senior Engineer\n- Built B",
			want: "Engineer\n- Built A\nSenior Engineer\n- Built B",
		},
		{
			name: "dates with bracketed placeholder get placeholder contents",
			raw:  "Role Title: PM\nDates of Employment: [Start] - [End]\n- Planned roadmap",
			want: "PM\nStart - End\n- Planned roadmap",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw); got != tc.want {
				t.Errorf("Normalize(%q)\n got: %q\nwant: %q", tc.raw, got, tc.want)
			}
		})
	}
}
