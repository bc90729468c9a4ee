package game

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Naruto Uzumaki", "naruto uzumaki"},
		{"trims and collapses whitespace", "  Ichigo \t  Kurosaki  ", "ichigo kurosaki"},
		{"fullwidth folds to ascii", "ＮＡＲＵＴＯ", "naruto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeUnicodeFormsCompareEqual(t *testing.T) {
	// precomposed é vs e + combining acute
	a := Normalize("Pokémon")
	b := Normalize("Pokémon")
	if a != b {
		t.Errorf("NFC and NFD forms differ after Normalize: %q vs %q", a, b)
	}
}

func TestFirstLetter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Naruto Uzumaki", "n"},
		{"  'Ichigo' Kurosaki", "i"},
		{"9S", "s"},
		{"2B (YoRHa)", "b"},
		{"1234 ...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FirstLetter(tt.in); got != tt.want {
			t.Errorf("FirstLetter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLastLetter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Naruto Uzumaki", "i"},
		{"Edward Elric!", "c"},
		{"Android 18", "d"},
		{"!!??", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LastLetter(tt.in); got != tt.want {
			t.Errorf("LastLetter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
