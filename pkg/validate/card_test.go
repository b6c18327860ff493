package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{
			name:     "Valid card number",
			number:   "4561261212345467",
			expected: true,
		},
		{
			name:     "Wrong check digit",
			number:   "4561261212345464",
			expected: false,
		},
		{
			name:     "Non numeric input",
			number:   "4561-2612-1234-5467",
			expected: false,
		},
		{
			name:     "Empty string",
			number:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCardNumber(tt.number))
		})
	}
}
