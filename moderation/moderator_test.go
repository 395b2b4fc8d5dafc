package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.e.r !",
			expected: "Look at *********** !",
			words:    []string{"badger"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "S-N-A-K-E is fine",
			expected: "********* is fine",
			words:    []string{"snake"},
		},
		{
			name:     "Clean text untouched",
			input:    "hello everyone",
			expected: "hello everyone",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			sanitized, found := mod.Censor(tt.input)
			req.Equal(tt.expected, sanitized)
			req.Equal(tt.words, found)
		})
	}
}

func TestLoadEmbeddedWords(t *testing.T) {
	req := require.New(t)
	words, err := LoadEmbeddedWords()
	req.NoError(err)
	req.NotEmpty(words)
	req.Contains(words, "idiot")
}

func TestDetectLanguage(t *testing.T) {
	req := require.New(t)
	req.Equal("en", DetectLanguage("the quick brown fox jumps over the lazy dog"))
}
