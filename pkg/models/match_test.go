package models

import "testing"

func TestResultSign(t *testing.T) {
	cases := []struct {
		home, away int
		want       Outcome
	}{
		{2, 0, OutcomeHome},
		{0, 0, OutcomeDraw},
		{1, 3, OutcomeAway},
	}

	for _, tc := range cases {
		r := MatchResult{HomeGoals: tc.home, AwayGoals: tc.away}
		if got := r.Sign(); got != tc.want {
			t.Errorf("Sign(%d-%d) = %s, want %s", tc.home, tc.away, got, tc.want)
		}
	}
}

func TestOddsLineValid(t *testing.T) {
	cases := []struct {
		name string
		line *OddsLine
		want bool
	}{
		{"nil", nil, false},
		{"all quoted", &OddsLine{Home: 2.1, Draw: 3.4, Away: 3.5}, true},
		{"missing home", &OddsLine{Draw: 3.4, Away: 3.5}, false},
		{"price of exactly one", &OddsLine{Home: 1.0, Draw: 3.4, Away: 3.5}, false},
		{"negative price", &OddsLine{Home: 2.1, Draw: -3.4, Away: 3.5}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.line.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
