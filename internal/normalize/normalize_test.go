package normalize

import "testing"

func TestCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// passthrough
		{"adventure", "adventure"},
		{"city", "city"},
		// case and whitespace
		{"  Adventure ", "adventure"},
		{"NATURE", "nature"},
		{"food  cafe", "food_cafe"},
		// aliases
		{"food_cafe", "food"},
		{"Food Cafe", "food"},
		{"foodcafe", "food"},
		{"heritage", "culture"},
		{"Heritage", "culture"},
		{"mountain", "mountains"},
		{"mountainss", "mountains"},
		// edge cases
		{"", ""},
		{"   ", ""},
		{"food\x00", "food"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Category(tt.input)
			if result != tt.expected {
				t.Errorf("Category(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKey_NoAliases(t *testing.T) {
	if got := Key("Food Cafe"); got != "food_cafe" {
		t.Errorf("Key(%q) = %q, want %q", "Food Cafe", got, "food_cafe")
	}
	if got := Key("heritage"); got != "heritage" {
		t.Errorf("Key(%q) = %q, want %q", "heritage", got, "heritage")
	}
}

func TestIsAll(t *testing.T) {
	for _, in := range []string{"", "all", "ALL", " all "} {
		if !IsAll(in) {
			t.Errorf("IsAll(%q) = false, want true", in)
		}
	}
	if IsAll("city") {
		t.Error("IsAll(\"city\") = true, want false")
	}
}

func TestContinentLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"asia", "Asia"},
		{"north_america", "North America"},
		{"South America", "South America"},
		{"oceania", "Oceania"},
		{"antarctica", "antarctica"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ContinentLabel(tt.input)
			if result != tt.expected {
				t.Errorf("ContinentLabel(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFolder_Contains(t *testing.T) {
	f := NewFolder()

	tests := []struct {
		needle    string
		haystacks []string
		expected  bool
	}{
		{"tokyo", []string{"Discovering Hidden Gems in Tokyo"}, true},
		{"TOKYO", []string{"Discovering Hidden Gems in Tokyo"}, true},
		{"street food", []string{"nothing", "Street Food Adventures in Bangkok"}, true},
		{"strasse", []string{"Unterwegs in der Straße"}, true},
		{"paris", []string{"Tokyo", "Bangkok"}, false},
		{"", []string{"anything"}, true},
		{"  ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.needle, func(t *testing.T) {
			result := f.Contains(tt.needle, tt.haystacks...)
			if result != tt.expected {
				t.Errorf("Contains(%q, %v) = %v, want %v", tt.needle, tt.haystacks, result, tt.expected)
			}
		})
	}
}
