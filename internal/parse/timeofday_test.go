package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTime(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"at 8:00 am", "8:00 AM"},
		{"at 8:00 AM", "8:00 AM"},
		{"9:30 pm", "9:30 PM"},
		{"at 12:00 pm", "12:00 PM"},
		{"14:30", "2:30 PM"},
		{"00:15", "12:15 AM"},
		{"12:15", "12:15 PM"},
		{"23:59", "11:59 PM"},
		{"take at 09:00", "9:00 AM"},
		{"no time here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractTime(tt.line), "line %q", tt.line)
	}
}

func TestExtractTimeRejectsImplausibleValues(t *testing.T) {
	assert.Empty(t, extractTime("25:00"))
	assert.Empty(t, extractTime("9:75"))
	assert.Empty(t, extractTime("13:00 pm"))
}
