package uiutil

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateLayout is the display format for RFP deadlines and other calendar dates.
const DateLayout = "Jan 02, 2006"

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "₹"

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatNumber renders n with en-IN digit grouping.
func FormatNumber(n int64) string {
	return inPrinter.Sprint(number.Decimal(n))
}

// FormatCurrency renders an INR amount with two fraction digits and en-IN grouping.
func FormatCurrency(amount float64) string {
	s := inPrinter.Sprint(number.Decimal(amount, number.Scale(2)))
	if strings.HasPrefix(s, "-") {
		return "-" + CurrencySymbol + s[1:]
	}
	return CurrencySymbol + s
}

// FormatDate renders t as "Jan 02, 2006". Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// dateLayouts are the deadline formats the remote API has been seen to emit.
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339}

// ParseDate parses a remote API date string.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateString formats a raw API date, returning the input unchanged when it cannot be parsed.
func FormatDateString(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return FormatDate(t)
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
