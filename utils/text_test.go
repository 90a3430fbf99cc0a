package utils

import "testing"

func TestIntFromText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"comma separated", "3,480万円", 3480},
		{"plain digits", "12000", 12000},
		{"digits with unit", "10万円", 10},
		{"no digits", "未定", 0},
		{"empty", "", 0},
		{"digits split by text", "2LDK+3S", 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntFromText(tt.input); got != tt.want {
				t.Errorf("IntFromText(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIntPtrFromText(t *testing.T) {
	if got := IntPtrFromText("-"); got != nil {
		t.Errorf("IntPtrFromText(\"-\") = %v, want nil", *got)
	}
	if got := IntPtrFromText(""); got != nil {
		t.Errorf("IntPtrFromText(\"\") = %v, want nil", *got)
	}
	got := IntPtrFromText("0円")
	if got == nil || *got != 0 {
		t.Errorf("IntPtrFromText(\"0円\") = %v, want 0", got)
	}
}

func TestFloatFromText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"area with unit", "71.52m²", 71.52},
		{"integer", "60m²", 60},
		{"comma grouped", "8,000円", 8000},
		{"no number", "なし", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatFromText(tt.input); got != tt.want {
				t.Errorf("FloatFromText(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
