package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "Folklore Club",
			expected: "folklore-club",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Summer Fest 2026",
			expected: "summer-fest-2026",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMakeCyrillic(t *testing.T) {
	// Exact transliteration tables are the library's business; what matters
	// for us is that Bulgarian names produce stable non-empty ASCII slugs.
	slugForm := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	inputs := []string{
		"Жълтуша и Приятели",
		"Коледен концерт 2025",
		"София",
		"Фолклорен събор Рожен",
	}

	for _, input := range inputs {
		got := Make(input)
		assert.NotEmpty(t, got, "input %q", input)
		assert.Regexp(t, slugForm, got, "input %q", input)
		assert.True(t, IsValid(got), "input %q -> %q", input, got)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("zhultusha"))
	assert.True(t, IsValid("koleden-koncert-2025"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("-zhultusha"))
	assert.False(t, IsValid("zhultusha-"))
	assert.False(t, IsValid("zhul--tusha"))
	assert.False(t, IsValid("Жълтуша"))
	assert.False(t, IsValid("With Space"))
}
