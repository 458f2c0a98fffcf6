package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// Required validates that a field is not blank.
func Required(fieldName string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return fieldName + " is required"
		}
		return ""
	}
}

// MaxLen rejects values longer than maxLen runes.
func MaxLen(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters", fieldName, maxLen)
		}
		return ""
	}
}

// MinLen rejects values shorter than minLen runes. Whitespace counts.
func MinLen(fieldName string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return fmt.Sprintf("%s must be at least %d characters", fieldName, minLen)
		}
		return ""
	}
}

// Email validates the loose something@something.tld shape.
func Email() Validator {
	return Pattern(emailPattern, "Email address is invalid")
}

// PAN validates an Indian permanent account number such as ABCDE1234F.
func PAN() Validator {
	return Pattern(panPattern, "Enter a valid PAN card number (e.g., ABCDE1234F)")
}

// Mobile validates a 10-digit mobile number.
func Mobile() Validator {
	return Pattern(mobilePattern, "Enter a valid 10-digit mobile number")
}

// Pattern validates that a non-empty field matches re.
func Pattern(re *regexp.Regexp, message string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v != "" && !re.MatchString(v) {
			return message
		}
		return ""
	}
}

// Equals validates that the value matches other exactly.
func Equals(other, message string) Validator {
	return func(v string) string {
		if v != other {
			return message
		}
		return ""
	}
}

// MinCommaParts requires a comma-separated list with at least n entries.
func MinCommaParts(n int, message string) Validator {
	return func(v string) string {
		if !strings.Contains(v, ",") || len(strings.Split(v, ",")) < n {
			return message
		}
		return ""
	}
}

// PositiveNumber requires a number greater than zero.
func PositiveNumber(message string) Validator {
	return func(v string) string {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			return message
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// PriceInRange validates a quote price against the RFP's bounds.
func PriceInRange(minPrice, maxPrice float64) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return "Quote price is required"
		}
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "Enter a valid price"
		}
		if price < minPrice {
			return "Price cannot be less than " + formatAmount(minPrice)
		}
		if price > maxPrice {
			return "Price cannot exceed " + formatAmount(maxPrice)
		}
		return ""
	}
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Fail records message for field unless the field already has an error.
func (fv *FieldValidator) Fail(field, message string) *FieldValidator {
	if _, ok := fv.errors[field]; !ok && message != "" {
		fv.errors[field] = message
	}
	return fv
}

// Valid reports whether no errors were recorded.
func (fv *FieldValidator) Valid() bool { return len(fv.errors) == 0 }

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
