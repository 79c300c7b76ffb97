package textutil

import "testing"

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Mere_Paas_Tum_Ho", "Mere_Paas_Tum_Ho"},
		{"spaces", "Mere Paas Tum Ho", "Mere_Paas_Tum_Ho"},
		{"accents", "Café Sociedad", "Cafe_Sociedad"},
		{"punctuation", "What's Up? (2019)", "Whats_Up_2019"},
		{"multiple spaces", "A   B", "A_B"},
		{"leading trailing", " .Trimmed. ", "Trimmed"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.input); got != tc.expected {
				t.Fatalf("SanitizeName(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
