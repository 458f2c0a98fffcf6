package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1234.5, "₹1,234.50"},
		{-12.3, "-₹12.30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7))
	assert.Equal(t, "1,234", FormatNumber(1234))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "Mar 05, 2025", FormatDate(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func TestFormatDateString(t *testing.T) {
	assert.Equal(t, "Mar 05, 2025", FormatDateString("2025-03-05 18:30:00"))
	assert.Equal(t, "Mar 05, 2025", FormatDateString("2025-03-05"))
	assert.Equal(t, "soon", FormatDateString("soon"))

	_, ok := ParseDate("  ")
	assert.False(t, ok)
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "abc…", TruncateWithEllipsis("abcdefgh", 4))
	assert.Equal(t, "…", TruncateWithEllipsis("abcdefgh", 1))
}
