package slug

import "testing"

// TestGenerate exercises the slug generator across typical product and
// category names, Latvian diacritics, special characters, and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "name with year",
			input: "Oslo Collection 2026",
			want:  "oslo-collection-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "Divans",
			want:  "divans",
		},

		// --- Latvian diacritics ---
		{
			name:  "long vowels stripped",
			input: "Dīvāns Oslo",
			want:  "divans-oslo",
		},
		{
			name:  "soft consonants stripped",
			input: "Mēbeļu veikals Rīgā",
			want:  "mebelu-veikals-riga",
		},
		{
			name:  "mixed diacritics",
			input: "Bērnu istabas skapītis",
			want:  "bernu-istabas-skapitis",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello-world-hows-it-going",
		},
		{
			name:  "ampersand expanded",
			input: "Galdi & Krēsli",
			want:  "galdi-and-kresli",
		},
		{
			name:  "slash separated",
			input: "Virtuve/Ēdamistaba",
			want:  "virtuve-edamistaba",
		},

		// --- Edge cases ---
		{
			name:  "leading and trailing space",
			input: "  Plaukts  ",
			want:  "plaukts",
		},
		{
			name:  "multiple inner spaces",
			input: "Stūra    dīvāns",
			want:  "stura-divans",
		},
		{
			name:  "digits only",
			input: "2026",
			want:  "2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "divans-oslo", want: true},
		{input: "mebeles", want: true},
		{input: "a-1-b-2", want: true},
		{input: "", want: false},
		{input: "Dīvāns", want: false},
		{input: "has space", want: false},
		{input: "UPPER", want: false},
		{input: "trailing-", want: false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.input); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
