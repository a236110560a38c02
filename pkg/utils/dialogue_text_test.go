package utils

import "testing"

func TestFormatDialogueLine(t *testing.T) {
	tests := []struct {
		name    string
		speaker string
		body    string
		want    string
	}{
		{"有说话人", "Kim", "Hello.", "KIM - Hello."},
		{"已是大写", "YOU", "Sure", "YOU - Sure"},
		{"无说话人", "", "Hello.", "Hello."},
		{"Unicode 大写", "Straße", "Hi", "STRASSE - Hi"},
		{"空正文", "Kim", "", "KIM - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDialogueLine(tt.speaker, tt.body); got != tt.want {
				t.Errorf("FormatDialogueLine(%q, %q) = %q, want %q", tt.speaker, tt.body, got, tt.want)
			}
		})
	}
}

func TestFormatOptionLabel(t *testing.T) {
	if got := FormatOptionLabel(1, "Yes"); got != "1: Yes" {
		t.Errorf("FormatOptionLabel(1, Yes) = %q", got)
	}
	if got := FormatOptionLabel(12, "Twelve"); got != "12: Twelve" {
		t.Errorf("FormatOptionLabel(12, Twelve) = %q", got)
	}
}
