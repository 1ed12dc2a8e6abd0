package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestCensor_Apply(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	censor, err := NewCensor(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		masked   int
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			masked:   1,
		},
		{
			name:     "Multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			masked:   3,
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
			masked:   1,
		},
		{
			name:     "Uppercase and noise",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: "********* is a ***********",
			masked:   2,
		},
		{
			name:     "Clean text untouched",
			input:    "gm everyone, great day to hold",
			expected: "gm everyone, great day to hold",
			masked:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, masked := censor.Apply(tt.input)
			req.Equal(tt.expected, got)
			req.Equal(tt.masked, masked)
		})
	}
}

func TestCensor_EmptyDictionaryIsPassThrough(t *testing.T) {
	req := require.New(t)
	censor, err := NewCensor(nil, replacementChar)
	req.NoError(err)

	got, masked := censor.Apply("badger")
	req.Equal("badger", got)
	req.Zero(masked)
}
